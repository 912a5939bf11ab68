package config

// HistoryConfig defines where verdicts of past runs are recorded
type HistoryConfig struct {
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Enabled reports whether a history database is configured
func (c HistoryConfig) Enabled() bool {
	return c.DBPath != ""
}
