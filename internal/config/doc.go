// Package config loads, normalizes, and validates seriesync configuration.
//
// Configuration is TOML, looked up at an explicit path, then
// ~/.config/seriesync/config.toml, then ./seriesync.toml. Defaults apply for
// anything unset, tilde paths are expanded, and the ignore patterns are
// compiled once at load.
package config
