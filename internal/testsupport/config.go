package testsupport

import (
	"path/filepath"
	"testing"

	"seriesync/internal/config"
)

// NewConfig produces a normalized config seeded with unique temp directories
// per test, so nothing leaks into the real home directory.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg, _, _, err := config.Load(filepath.Join(base, "config.toml"))
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	cfg.Paths.SourceDir = filepath.Join(base, "src")
	cfg.Paths.DestDir = filepath.Join(base, "dest")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.JournalPath = filepath.Join(base, "journal.db")
	return cfg
}
