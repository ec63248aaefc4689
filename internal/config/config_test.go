package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPathReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "identityPath: /keys/me.txt\nrecipientsPath: /keys/team.txt\nlogLevel: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := LoadFromPath(path)
	if cfg.IdentityPath != "/keys/me.txt" {
		t.Fatalf("identityPath = %q", cfg.IdentityPath)
	}
	if cfg.RecipientsPath != "/keys/team.txt" {
		t.Fatalf("recipientsPath = %q", cfg.RecipientsPath)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("logLevel = %q", cfg.LogLevel)
	}
	if cfg.CoverPath != "" {
		t.Fatalf("coverPath should stay empty, got %q", cfg.CoverPath)
	}
}

func TestLoadFromPathMissingFileFallsBack(t *testing.T) {
	cfg := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if cfg.LogLevel != "warn" {
		t.Fatalf("want default log level, got %q", cfg.LogLevel)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("identityPath: /from/file\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STEGANO_IDENTITY", "/from/env")

	cfg := LoadFromPath(path)
	if cfg.IdentityPath != "/from/env" {
		t.Fatalf("env override lost, got %q", cfg.IdentityPath)
	}
}

func TestMergeIgnoresZeroValues(t *testing.T) {
	dst := Default()
	dst.CoverPath = "/keep/this"
	Merge(&dst, Config{LogLevel: "error"})
	if dst.CoverPath != "/keep/this" {
		t.Fatal("merge clobbered an unset field")
	}
	if dst.LogLevel != "error" {
		t.Fatal("merge dropped a set field")
	}
}
