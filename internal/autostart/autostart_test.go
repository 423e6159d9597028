package autostart

import (
	"os"
	"runtime"
	"strings"
	"testing"
)

func TestInstallUninstallRoundtrip(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("no login-service mechanism on this platform")
	}
	t.Setenv("HOME", t.TempDir())

	path, err := Install("/usr/local/bin/lookout")
	if err != nil {
		t.Fatalf("Install: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading service file: %v", err)
	}
	if !strings.Contains(string(data), "/usr/local/bin/lookout") {
		t.Fatalf("service file missing exec path:\n%s", data)
	}

	ok, err := Installed()
	if err != nil || !ok {
		t.Fatalf("Installed = %v, %v; want true", ok, err)
	}

	if _, err := Uninstall(); err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	ok, err = Installed()
	if err != nil || ok {
		t.Fatalf("Installed after uninstall = %v, %v; want false", ok, err)
	}

	// Uninstalling twice is fine.
	if _, err := Uninstall(); err != nil {
		t.Fatalf("second Uninstall: %v", err)
	}
}
