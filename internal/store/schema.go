package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    app            TEXT NOT NULL,
    title          TEXT NOT NULL,
    start_time     TEXT NOT NULL,
    end_time       TEXT NOT NULL,
    duration_secs  INTEGER NOT NULL,
    category       TEXT NOT NULL,
    memory_bytes   INTEGER NOT NULL DEFAULT 0,
    cpu_percent    REAL NOT NULL DEFAULT 0,
    pid            INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS process_snapshots (
    timestamp      TEXT NOT NULL,
    app            TEXT NOT NULL,
    pid            INTEGER NOT NULL,
    memory_bytes   INTEGER NOT NULL,
    cpu_percent    REAL NOT NULL,
    threads        INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS focus_sessions (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    start_time         TEXT NOT NULL,
    end_time           TEXT NOT NULL,
    target_minutes     INTEGER NOT NULL,
    focus_seconds      INTEGER NOT NULL,
    distraction_secs   INTEGER NOT NULL,
    interruptions      INTEGER NOT NULL,
    score              REAL NOT NULL,
    goal               TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS daily_aggregates (
    date               TEXT PRIMARY KEY,
    total_secs         INTEGER NOT NULL,
    productive_secs    INTEGER NOT NULL,
    distraction_secs   INTEGER NOT NULL,
    top_app            TEXT NOT NULL,
    top_category       TEXT NOT NULL,
    session_count      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS app_usage_aggregates (
    date               TEXT NOT NULL,
    app                TEXT NOT NULL,
    total_secs         INTEGER NOT NULL,
    avg_memory_bytes   INTEGER NOT NULL,
    avg_cpu_percent    REAL NOT NULL,
    launch_count       INTEGER NOT NULL,
    PRIMARY KEY (date, app)
);

CREATE TABLE IF NOT EXISTS browser_visits (
    url            TEXT NOT NULL,
    title          TEXT NOT NULL,
    visited_at     TEXT NOT NULL,
    PRIMARY KEY (url, visited_at)
);

CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_time);
CREATE INDEX IF NOT EXISTS idx_sessions_app ON sessions(app);
CREATE INDEX IF NOT EXISTS idx_snapshots_time ON process_snapshots(timestamp);
`
