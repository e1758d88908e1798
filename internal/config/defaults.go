package config

const (
	defaultLogDir       = "~/.local/share/seriesync/logs"
	defaultJournalPath  = "~/.local/share/seriesync/journal.db"
	defaultMinSize      = 100
	defaultGiveUp       = 3
	defaultIgnore       = `\..*|.*_tmp|~.*`
	defaultRsyncBinary  = "rsync"
	defaultRsyncTimeout = 2
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:      defaultLogDir,
			JournalPath: defaultJournalPath,
		},
		Sync: Sync{
			MinSize:      defaultMinSize,
			GiveUp:       defaultGiveUp,
			SourceIgnore: defaultIgnore,
			FileIgnore:   defaultIgnore,
		},
		Rsync: Rsync{
			Binary:  defaultRsyncBinary,
			Timeout: defaultRsyncTimeout,
		},
		Manifests: Manifests{
			Load: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
