package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and journal location configuration.
type Paths struct {
	SourceDir   string `toml:"source_dir"`
	DestDir     string `toml:"dest_dir"`
	LogDir      string `toml:"log_dir"`
	JournalPath string `toml:"journal_path"`
}

// Sync contains replication behavior settings.
type Sync struct {
	// MinSize is the smallest file, in bytes, worth replicating; anything
	// under it is treated as truncated or junk.
	MinSize       int64 `toml:"min_size"`
	GiveUp        int   `toml:"give_up"`
	CreateMissing bool  `toml:"create_missing"`
	Overwrite     bool  `toml:"overwrite"`
	KeepVolume    bool  `toml:"keep_volume"`

	// SourceIgnore and FileIgnore are full-match regular expressions applied
	// to base names: SourceIgnore filters chapters at sync time, FileIgnore
	// filters files during catalog scans.
	SourceIgnore string `toml:"source_ignore"`
	FileIgnore   string `toml:"file_ignore"`

	sourceIgnore *regexp.Regexp
	fileIgnore   *regexp.Regexp
}

// Rsync contains settings for the external bulk-copy tool.
type Rsync struct {
	Binary  string `toml:"binary"`
	Timeout int    `toml:"timeout"`
}

// Manifests controls persisted series metadata.
type Manifests struct {
	Load bool `toml:"load"`
	Save bool `toml:"save"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for seriesync.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Sync      Sync      `toml:"sync"`
	Rsync     Rsync     `toml:"rsync"`
	Manifests Manifests `toml:"manifests"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/seriesync/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and the ignore patterns compiled.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("seriesync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// SourceIgnoreRegexp returns the compiled sync-time ignore pattern, or nil
// when none is configured.
func (c *Config) SourceIgnoreRegexp() *regexp.Regexp {
	return c.Sync.sourceIgnore
}

// FileIgnoreRegexp returns the compiled scan-time ignore pattern, or nil
// when none is configured.
func (c *Config) FileIgnoreRegexp() *regexp.Regexp {
	return c.Sync.fileIgnore
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if strings.TrimSpace(c.Paths.JournalPath) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.JournalPath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RsyncBinary returns the bulk-copy executable name.
func (c *Config) RsyncBinary() string {
	if strings.TrimSpace(c.Rsync.Binary) == "" {
		return defaultRsyncBinary
	}
	return c.Rsync.Binary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
