package app

import (
	"os"
	"path/filepath"
	"testing"
)

// TestNewApp_InitializesAllServices verifies that NewApp creates an App with
// storage, the NAV client and both services initialized.
func TestNewApp_InitializesAllServices(t *testing.T) {
	configPath := writeTestConfig(t)

	a, err := NewApp(configPath)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	if a.Config == nil {
		t.Error("Config is nil")
	}
	if a.Logger == nil {
		t.Error("Logger is nil")
	}
	if a.Storage == nil {
		t.Error("Storage is nil")
	}
	if a.NAVProvider == nil {
		t.Error("NAVProvider is nil")
	}
	if a.PortfolioService == nil {
		t.Error("PortfolioService is nil")
	}
	if a.MarketService == nil {
		t.Error("MarketService is nil")
	}
	if a.StartupTime.IsZero() {
		t.Error("StartupTime is zero")
	}
	if a.Config.Storage.Versions != 2 {
		t.Errorf("Expected versions=2 from config, got %d", a.Config.Storage.Versions)
	}
}

func TestNewApp_UnknownBackend(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "planlens.toml")
	if err := os.WriteFile(configPath, []byte("[storage]\nbackend = \"badger\"\n[logging]\nlevel = \"disabled\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := NewApp(configPath); err == nil {
		t.Fatal("Expected error for unknown storage backend")
	}
}

func TestClose_Idempotent(t *testing.T) {
	a, err := NewApp(writeTestConfig(t))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	a.Close()
	a.Close()
	if a.Storage != nil {
		t.Error("Storage should be nil after Close")
	}
}

func TestResolveConfigPath_EnvVar(t *testing.T) {
	t.Setenv("PLANLENS_CONFIG", "/etc/planlens/custom.toml")
	if got := ResolveConfigPath(""); got != "/etc/planlens/custom.toml" {
		t.Errorf("Expected env path, got %s", got)
	}
	if got := ResolveConfigPath("explicit.toml"); got != "explicit.toml" {
		t.Errorf("Expected explicit path to win, got %s", got)
	}
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	config := `
[storage]
backend = "file"
path = "` + filepath.ToSlash(filepath.Join(dir, "data")) + `"
versions = 2

[logging]
level = "disabled"
outputs = ["console"]
`
	configPath := filepath.Join(dir, "planlens.toml")
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}
