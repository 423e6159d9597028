package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/lookout/internal/category"
	"github.com/theirongolddev/lookout/internal/config"
	"github.com/theirongolddev/lookout/internal/daemon"
	"github.com/theirongolddev/lookout/internal/history"
	"github.com/theirongolddev/lookout/internal/observe"
	"github.com/theirongolddev/lookout/internal/sampler"
	"github.com/theirongolddev/lookout/internal/store"
	"github.com/theirongolddev/lookout/internal/tracker"
)

// defaultWindowCommand reads the active X11 window via xdotool/xprop.
// Wayland and macOS users set tracker.window_command in the config.
const defaultWindowCommand = `id=$(xdotool getactivewindow 2>/dev/null) || exit 1; ` +
	`pid=$(xdotool getwindowpid "$id" 2>/dev/null); ` +
	`app=$(xprop -id "$id" WM_CLASS 2>/dev/null | cut -d'"' -f4); ` +
	`title=$(xdotool getwindowname "$id" 2>/dev/null); ` +
	`printf '%s\t%s\t%s\n' "$app" "$title" "$pid"`

type trackRuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`
}

var (
	flagTrackAddr    string
	flagTrackDetach  bool
	flagTrackPIDFile string
	flagTrackLogFile string
	flagTrackChild   bool
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Run the activity tracker with a local HTTP/SSE status API",
	RunE:  runTrack,
}

var trackStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracker process and API status",
	RunE:  runTrackStatus,
}

var trackStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running tracker",
	RunE:  runTrackStop,
}

func init() {
	defaultPID := filepath.Join(config.DataDir(), "lookoutd.pid")
	defaultLog := filepath.Join(config.DataDir(), "lookoutd.log")

	trackCmd.PersistentFlags().StringVar(&flagTrackAddr, "addr", "", "HTTP listen address (default from config)")
	trackCmd.PersistentFlags().StringVar(&flagTrackPIDFile, "pid-file", defaultPID, "PID file path")
	trackCmd.PersistentFlags().StringVar(&flagTrackLogFile, "log-file", defaultLog, "Log file path for detached mode")

	trackCmd.Flags().BoolVar(&flagTrackDetach, "detach", false, "Run the tracker as a background process")
	trackCmd.Flags().BoolVar(&flagTrackChild, "child", false, "Internal: mark detached child process")
	_ = trackCmd.Flags().MarkHidden("child")

	trackCmd.AddCommand(trackStatusCmd)
	trackCmd.AddCommand(trackStopCmd)
	rootCmd.AddCommand(trackCmd)
}

func runTrack(_ *cobra.Command, _ []string) error {
	if flagTrackDetach && flagTrackChild {
		return errors.New("invalid tracker launch mode")
	}

	if flagTrackDetach {
		return startTrackDetached()
	}

	return runTrackForeground()
}

func startTrackDetached() error {
	if err := ensureTrackerNotRunning(flagTrackPIDFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagTrackPIDFile), 0o750); err != nil {
		return fmt.Errorf("create tracker directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagTrackLogFile), 0o750); err != nil {
		return fmt.Errorf("create tracker log directory: %w", err)
	}

	logf, err := os.OpenFile(flagTrackLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open tracker log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...)
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached tracker: %w", err)
	}

	fmt.Printf("  Started tracker (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagTrackPIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", trackerAddr(loadConfig()))
	fmt.Printf("  Log: %s\n", flagTrackLogFile)
	return nil
}

func runTrackForeground() error {
	if err := ensureTrackerNotRunning(flagTrackPIDFile); err != nil {
		return err
	}

	cfg := loadConfig()
	addr := trackerAddr(cfg)

	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := os.MkdirAll(filepath.Dir(flagTrackPIDFile), 0o750); err != nil {
		return fmt.Errorf("create tracker directory: %w", err)
	}

	pid := os.Getpid()
	if err := writePID(flagTrackPIDFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagTrackPIDFile) }()

	state := trackRuntimeState{
		PID:       pid,
		Addr:      addr,
		StartedAt: time.Now(),
		DBPath:    config.DatabasePath(),
	}
	_ = writeState(statePath(flagTrackPIDFile), state)
	defer func() { _ = os.Remove(statePath(flagTrackPIDFile)) }()

	windowCmd := cfg.Tracker.WindowCommand
	if windowCmd == "" {
		windowCmd = defaultWindowCommand
	}

	procs := observe.NewPSProvider()
	trk := tracker.New(tracker.Config{
		Observer:    observe.NewExecObserver(windowCmd),
		Procs:       procs,
		Categorizer: category.New(cfg.Categories.Apps),
		Sink:        db,
		Interval:    cfg.PollInterval(),
		MinDuration: cfg.MinDuration(),
	})

	smp := sampler.New(sampler.Config{
		Procs:    procs,
		Sink:     db,
		Interval: cfg.SampleInterval(),
		TopN:     cfg.Sampler.TopN,
	})

	var hist *history.Syncer
	if cfg.History.Enabled {
		dbPath := cfg.History.DBPath
		if dbPath == "" {
			dbPath = history.DefaultDBPath()
		}
		if dbPath != "" {
			hist = history.New(history.Config{
				DBPath:   dbPath,
				Sink:     db,
				Interval: cfg.HistoryInterval(),
			})
		}
	}

	svc := daemon.New(daemon.Config{
		Addr:     addr,
		Interval: 2 * time.Second,
		Tracker:  trk.Snapshot,
		Focus:    readFocusState,
	})

	fmt.Printf("  lookout tracker listening on http://%s\n", addr)
	fmt.Printf("  Polling every %s, sessions under %s dropped\n", cfg.PollInterval(), cfg.MinDuration())
	fmt.Printf("  Stop with: lookout track stop --pid-file %s\n", flagTrackPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	trk.Start(ctx)
	smp.Start(ctx)
	if hist != nil {
		hist.Start(ctx)
	}

	runErr := svc.Run(ctx)

	// Shutdown order matters: stop the tasks (flushing the open session)
	// before recomputing today's aggregates, so the flushed session is in
	// the rollup a report reads right after exit.
	if hist != nil {
		hist.Stop()
	}
	smp.Stop()
	trk.Stop()
	recomputeOnShutdown(db, time.Now())

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// recomputeOnShutdown refreshes the day's aggregate rows after the
// tracker flushes its final session. Failures are logged, never fatal:
// the raw sessions are already durable and the next report recomputes.
func recomputeOnShutdown(db *store.Store, date time.Time) {
	if _, err := db.RecomputeDaily(date); err != nil {
		log.Printf("track: recomputing daily aggregate on shutdown: %v", err)
	}
	if _, err := db.RecomputeAppUsage(date); err != nil {
		log.Printf("track: recomputing app usage on shutdown: %v", err)
	}
}

func runTrackStatus(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagTrackPIDFile)
	if err != nil {
		fmt.Printf("  Tracker: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Tracker: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := trackerAddr(loadConfig())
	if st, err := readState(statePath(flagTrackPIDFile)); err == nil && st.Addr != "" {
		addr = st.Addr
	}

	fmt.Printf("  Tracker PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status")
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	printDaemonStatus(st)
	return nil
}

func runTrackStop(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagTrackPIDFile)
	if err != nil {
		return errors.New("tracker is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find tracker process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal tracker process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(flagTrackPIDFile)
			_ = os.Remove(statePath(flagTrackPIDFile))
			fmt.Printf("  Stopped tracker (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("tracker (pid %d) did not exit in time", pid)
}

func trackerAddr(cfg config.Config) string {
	if flagTrackAddr != "" {
		return flagTrackAddr
	}
	if cfg.Tracker.Addr != "" {
		return cfg.Tracker.Addr
	}
	return "127.0.0.1:8790"
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureTrackerNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("tracker already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(statePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func statePath(pidFile string) string {
	return pidFile + ".json"
}

func writeState(path string, st trackRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readState(path string) (trackRuntimeState, error) {
	var st trackRuntimeState
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}
