package config

import (
	"fmt"
	"regexp"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSync(); err != nil {
		return err
	}
	c.normalizeRsync()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceDir != "" {
		if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
			return fmt.Errorf("paths.source_dir: %w", err)
		}
	}
	if c.Paths.DestDir != "" {
		if c.Paths.DestDir, err = expandPath(c.Paths.DestDir); err != nil {
			return fmt.Errorf("paths.dest_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.JournalPath) == "" {
		c.Paths.JournalPath = defaultJournalPath
	}
	if c.Paths.JournalPath, err = expandPath(c.Paths.JournalPath); err != nil {
		return fmt.Errorf("paths.journal_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSync() error {
	if c.Sync.MinSize < 0 {
		c.Sync.MinSize = 0
	}
	if c.Sync.GiveUp <= 0 {
		c.Sync.GiveUp = defaultGiveUp
	}

	var err error
	c.Sync.SourceIgnore = strings.TrimSpace(c.Sync.SourceIgnore)
	if c.Sync.sourceIgnore, err = compileIgnore(c.Sync.SourceIgnore); err != nil {
		return fmt.Errorf("sync.source_ignore: %w", err)
	}
	c.Sync.FileIgnore = strings.TrimSpace(c.Sync.FileIgnore)
	if c.Sync.fileIgnore, err = compileIgnore(c.Sync.FileIgnore); err != nil {
		return fmt.Errorf("sync.file_ignore: %w", err)
	}
	return nil
}

// compileIgnore anchors the configured pattern so it must match the whole
// base name; an empty pattern disables the filter.
func compileIgnore(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(`\A(?:` + pattern + `)\z`)
}

func (c *Config) normalizeRsync() {
	c.Rsync.Binary = strings.TrimSpace(c.Rsync.Binary)
	if c.Rsync.Binary == "" {
		c.Rsync.Binary = defaultRsyncBinary
	}
	if c.Rsync.Timeout <= 0 {
		c.Rsync.Timeout = defaultRsyncTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
