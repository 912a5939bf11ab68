package config

const (
	// FTP Defaults
	DefaultFTPHost            = "10.0.0.1"
	DefaultFTPPort            = 21
	DefaultFTPTimeoutSeconds  = 30
	DefaultFTPConnectAttempts = 1
	DefaultFTPRetryDelayMs    = 1000

	// Check Defaults
	DefaultDataSource          = DataSourceLog
	DefaultLogAgeHours         = 336
	DefaultLogfileAgeDays      = 16
	DefaultMinLogBytes         = 120
	DefaultFilenamePatternOK   = "OK"
	DefaultFilenamePatternWarn = "WARN"
	DefaultTimezone            = "Europe/Madrid"

	// Cache Defaults
	DefaultCacheMaxAgeSeconds = 86400
	DefaultCacheMinSizeBytes  = 0

	// Log Defaults
	DefaultLogLevel      = "error"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// ConfigPathEnv names the environment variable consulted for the config file.
	ConfigPathEnv = "CHECKFTPLOG_CONFIG_PATH"
)

// Data sources a check can read backups from.
const (
	DataSourceLog      = "log"
	DataSourceFilename = "filename"
)
