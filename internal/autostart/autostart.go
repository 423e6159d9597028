// Package autostart installs lookout as a login service, using systemd
// user units on Linux and LaunchAgents on macOS.
package autostart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrUnsupported is returned on platforms without a known login-service
// mechanism.
var ErrUnsupported = errors.New("autostart: unsupported platform")

const unitName = "lookout.service"
const agentLabel = "dev.theirongold.lookout"

const systemdUnit = `[Unit]
Description=lookout activity tracker

[Service]
ExecStart=%s track
Restart=on-failure
RestartSec=5

[Install]
WantedBy=default.target
`

const launchAgent = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
		<string>track</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
</dict>
</plist>
`

// Path returns where the login-service definition lives for this
// platform.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "linux":
		return filepath.Join(home, ".config", "systemd", "user", unitName), nil
	case "darwin":
		return filepath.Join(home, "Library", "LaunchAgents", agentLabel+".plist"), nil
	default:
		return "", ErrUnsupported
	}
}

// Install writes the login-service definition pointing at execPath.
// On Linux the unit still needs `systemctl --user enable lookout` to
// take effect; the CLI prints that hint.
func Install(execPath string) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating service dir: %w", err)
	}

	var content string
	switch runtime.GOOS {
	case "linux":
		content = fmt.Sprintf(systemdUnit, execPath)
	case "darwin":
		content = fmt.Sprintf(launchAgent, agentLabel, execPath)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing service file: %w", err)
	}
	return path, nil
}

// Uninstall removes the login-service definition. Missing files are
// not an error.
func Uninstall() (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("removing service file: %w", err)
	}
	return path, nil
}

// Installed reports whether the login-service definition exists.
func Installed() (bool, error) {
	path, err := Path()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}
