package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatalf("config %s should not exist", path)
	}
	if cfg.Sync.MinSize != defaultMinSize || cfg.Sync.GiveUp != defaultGiveUp {
		t.Fatalf("defaults not applied: %+v", cfg.Sync)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("logging defaults: %+v", cfg.Logging)
	}
	if cfg.SourceIgnoreRegexp() == nil || cfg.FileIgnoreRegexp() == nil {
		t.Fatal("default ignore patterns not compiled")
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
source_dir = "` + filepath.Join(dir, "src") + `"
dest_dir = "` + filepath.Join(dir, "dest") + `"

[sync]
min_size = 50
give_up = 5

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("config should exist")
	}
	if cfg.Sync.MinSize != 50 || cfg.Sync.GiveUp != 5 {
		t.Fatalf("sync values: %+v", cfg.Sync)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not lowercased: %+v", cfg.Logging)
	}
}

func TestIgnorePatternsAreFullMatch(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	re := cfg.SourceIgnoreRegexp()
	for _, name := range []string{".hidden", "chapter_tmp", "~backup"} {
		if !re.MatchString(name) {
			t.Errorf("%q should be ignored", name)
		}
	}
	// An inner extension dot must not trip the leading-dot rule.
	for _, name := range []string{"Alpha c001.cbz", "notes"} {
		if re.MatchString(name) {
			t.Errorf("%q should not be ignored", name)
		}
	}
}

func TestValidateRejectsNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.SourceDir = dir
	cfg.Paths.DestDir = filepath.Join(dir, "mirror")
	if err := cfg.Validate(); err == nil {
		t.Fatal("nested dest accepted")
	}
	cfg.Paths.SourceDir = filepath.Join(dir, "mirror", "deep")
	cfg.Paths.DestDir = filepath.Join(dir, "mirror")
	if err := cfg.Validate(); err == nil {
		t.Fatal("nested source accepted")
	}
	cfg.Paths.SourceDir = filepath.Join(dir, "a")
	cfg.Paths.DestDir = filepath.Join(dir, "b")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("siblings rejected: %v", err)
	}
}

func TestLoadRejectsBadIgnorePattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[sync]\nsource_ignore = '['\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "source_ignore") {
		t.Fatalf("bad pattern accepted: %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "[sync]") {
		t.Fatal("sample missing [sync] section")
	}
	// The sample must itself load cleanly.
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample does not load: %v", err)
	}
}
