package main

import (
	"flag"
	"io"

	"github.com/aleister1102/checkftplog/internal/config"
)

// AppFlags holds the command line. Check settings given on the command line
// override the config file, but only when the flag was actually passed.
type AppFlags struct {
	GlobalConfigFile string
	Debug            bool
	overrides        []func(*config.GlobalConfig)
}

// ParseFlags parses args (without the program name). Flag names follow the
// plugin's historical --ftp-host style.
func ParseFlags(args []string, output io.Writer) (AppFlags, error) {
	fs := flag.NewFlagSet("checkftplog", flag.ContinueOnError)
	fs.SetOutput(output)

	globalConfigFile := fs.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := fs.String("c", "", "Alias for -config")
	debug := fs.Bool("debug", false, "Log at debug level to stderr")

	ftpHost := fs.String("ftp-host", "", "FTP server hostname")
	ftpPort := fs.Int("ftp-port", 0, "FTP server port")
	ftpTLS := fs.Bool("ftp-tls", false, "Use explicit FTP over TLS")
	ftpPath := fs.String("ftp-path", "", "Remote directory holding the logs or flag entries")
	ftpUsername := fs.String("ftp-username", "", "FTP login")
	ftpPassword := fs.String("ftp-password", "", "FTP password")

	logAge := fs.Int("log-age", 0, "Backup age threshold in hours")
	logfileAge := fs.Int("logfile-age", 0, "Ignore log files older than this many days")
	minLogEntry := fs.Int("min-log-entry", 0, "Minimum number of log bytes required to judge")
	dataSource := fs.String("data-source", "", "Where backups are read from: log or filename")
	bakFilePattern := fs.String("bak-file-pattern", "", "Name fragment identifying the backup job")
	escapePattern := fs.Bool("escape-pattern", false, "Match the backup pattern literally instead of as a regular expression")
	filenamePatternOK := fs.String("filename-pattern-ok", "", "Flag token of a successful backup in filename mode")
	filenamePatternWarn := fs.String("filename-pattern-warn", "", "Flag token of a backup finished with warnings in filename mode")
	timezone := fs.String("timezone", "", "IANA zone the log and flag times are written in")

	cacheDir := fs.String("cache-dir", "", "Directory for cached copies of older log files (empty disables caching)")
	cacheMaxAge := fs.Int("cache-max-age", 0, "Seconds a cached log copy stays valid")
	cacheMinSize := fs.Int64("cache-min-size", 0, "Cached copies must be larger than this many bytes")

	historyDB := fs.String("history-db", "", "SQLite file verdicts are appended to")
	metricsFile := fs.String("metrics-textfile", "", "Prometheus textfile the verdict is exported to")

	if err := fs.Parse(args); err != nil {
		return AppFlags{}, err
	}

	flags := AppFlags{Debug: *debug}
	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	setters := map[string]func(*config.GlobalConfig){
		"ftp-host":              func(c *config.GlobalConfig) { c.FTPConfig.Host = *ftpHost },
		"ftp-port":              func(c *config.GlobalConfig) { c.FTPConfig.Port = *ftpPort },
		"ftp-tls":               func(c *config.GlobalConfig) { c.FTPConfig.UseTLS = *ftpTLS },
		"ftp-path":              func(c *config.GlobalConfig) { c.FTPConfig.Path = *ftpPath },
		"ftp-username":          func(c *config.GlobalConfig) { c.FTPConfig.Username = *ftpUsername },
		"ftp-password":          func(c *config.GlobalConfig) { c.FTPConfig.Password = *ftpPassword },
		"log-age":               func(c *config.GlobalConfig) { c.CheckConfig.LogAgeHours = *logAge },
		"logfile-age":           func(c *config.GlobalConfig) { c.CheckConfig.LogfileAgeDays = *logfileAge },
		"min-log-entry":         func(c *config.GlobalConfig) { c.CheckConfig.MinLogBytes = *minLogEntry },
		"data-source":           func(c *config.GlobalConfig) { c.CheckConfig.DataSource = *dataSource },
		"bak-file-pattern":      func(c *config.GlobalConfig) { c.CheckConfig.BakFilePattern = *bakFilePattern },
		"escape-pattern":        func(c *config.GlobalConfig) { c.CheckConfig.EscapePattern = *escapePattern },
		"filename-pattern-ok":   func(c *config.GlobalConfig) { c.CheckConfig.FilenamePatternOK = *filenamePatternOK },
		"filename-pattern-warn": func(c *config.GlobalConfig) { c.CheckConfig.FilenamePatternWarn = *filenamePatternWarn },
		"timezone":              func(c *config.GlobalConfig) { c.CheckConfig.Timezone = *timezone },
		"cache-dir":             func(c *config.GlobalConfig) { c.CacheConfig.Dir = *cacheDir },
		"cache-max-age":         func(c *config.GlobalConfig) { c.CacheConfig.MaxAgeSeconds = *cacheMaxAge },
		"cache-min-size":        func(c *config.GlobalConfig) { c.CacheConfig.MinExpectedSizeBytes = *cacheMinSize },
		"history-db":            func(c *config.GlobalConfig) { c.HistoryConfig.DBPath = *historyDB },
		"metrics-textfile":      func(c *config.GlobalConfig) { c.MetricsConfig.TextfilePath = *metricsFile },
	}
	fs.Visit(func(f *flag.Flag) {
		if set, ok := setters[f.Name]; ok {
			flags.overrides = append(flags.overrides, set)
		}
	})

	return flags, nil
}

// Apply writes the explicitly passed flags over cfg.
func (f AppFlags) Apply(cfg *config.GlobalConfig) {
	for _, set := range f.overrides {
		set(cfg)
	}
	if f.Debug {
		cfg.LogConfig.LogLevel = "debug"
	}
}
