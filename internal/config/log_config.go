package config

// LogConfig controls the diagnostic log. The verdict line on stdout is not
// affected by it.
type LogConfig struct {
	LogFile       string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogFormat     string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,logformat"`
	LogLevel      string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,loglevel"`
	MaxLogBackups int    `json:"max_log_backups,omitempty" yaml:"max_log_backups,omitempty" validate:"gte=0"`
	MaxLogSizeMB  int    `json:"max_log_size_mb,omitempty" yaml:"max_log_size_mb,omitempty" validate:"gte=0"`
	// UseRunSubdirs writes each run's log under <dir>/runs/<run-id>/.
	UseRunSubdirs bool `json:"use_run_subdirs" yaml:"use_run_subdirs"`
}

// NewDefaultLogConfig returns a console-only, error-level configuration.
func NewDefaultLogConfig() LogConfig {
	return LogConfig{
		LogFile:       DefaultLogFile,
		LogFormat:     DefaultLogFormat,
		LogLevel:      DefaultLogLevel,
		MaxLogBackups: DefaultMaxLogBackups,
		MaxLogSizeMB:  DefaultMaxLogSizeMB,
	}
}

// FileEnabled reports whether a rotated log file is written.
func (c LogConfig) FileEnabled() bool {
	return c.LogFile != ""
}
