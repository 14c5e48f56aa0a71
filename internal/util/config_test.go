package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eva.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	t.Setenv("EVA_HOME", "")
	path := writeConfig(t, `
root = "src"
log_level = "debug"
module_paths = ["lib", "/opt/eva"]

[store]
driver = "sqlite3"
dsn = "modules.db"
`)

	config, err := LoadConfiguration(path, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.RootPath != "src" {
		t.Errorf("RootPath wrong. got=%q", config.RootPath)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel wrong. got=%q", config.LogLevel)
	}
	if len(config.ModulePaths) != 2 || config.ModulePaths[1] != "/opt/eva" {
		t.Errorf("ModulePaths wrong. got=%v", config.ModulePaths)
	}
	if config.Store.Driver != "sqlite3" || config.Store.DSN != "modules.db" {
		t.Errorf("Store wrong. got=%+v", config.Store)
	}
	if config.Store.Table != "" {
		t.Errorf("unset table should stay empty. got=%q", config.Store.Table)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	t.Setenv("EVA_HOME", "/usr/local/eva")
	missing := filepath.Join(t.TempDir(), "eva.toml")

	config, err := LoadConfiguration(missing, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.RootPath != "." || config.LogLevel != "error" {
		t.Errorf("defaults not applied. got=%+v", config)
	}
	if config.EvaHome != "/usr/local/eva" {
		t.Errorf("EVA_HOME not applied. got=%q", config.EvaHome)
	}

	if _, err := LoadConfiguration(missing, true); err == nil {
		t.Errorf("expected error for a missing required config")
	}
}

func TestLoadConfigurationRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `rot = "src"`)

	_, err := LoadConfiguration(path, true)
	if err == nil || !strings.Contains(err.Error(), "rot") {
		t.Errorf("expected unknown key error, got %v", err)
	}
}
