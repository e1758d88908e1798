package config

import (
	"errors"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable. Source and destination
// directories are optional here because commands may take them as arguments;
// when both are present they must not nest.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if c.Rsync.Timeout <= 0 {
		return errors.New("rsync.timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validatePaths() error {
	src := strings.TrimSpace(c.Paths.SourceDir)
	dest := strings.TrimSpace(c.Paths.DestDir)
	if src == "" || dest == "" {
		return nil
	}
	return ValidatePair(src, dest)
}

// ValidatePair rejects equal or nested source/destination directories.
// Commands that accept the pair as arguments run this on the effective
// values, since those bypass the config-file check above.
func ValidatePair(src, dest string) error {
	if src == dest {
		return errors.New("source and destination directories must differ")
	}
	if nested(src, dest) {
		return errors.New("destination directory must not be inside the source directory")
	}
	if nested(dest, src) {
		return errors.New("source directory must not be inside the destination directory")
	}
	return nil
}

func nested(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "."
}

func (c *Config) validateSync() error {
	if c.Sync.GiveUp <= 0 {
		return errors.New("sync.give_up must be positive")
	}
	return nil
}
