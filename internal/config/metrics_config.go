package config

// MetricsConfig defines the Prometheus textfile the verdict is exported to
type MetricsConfig struct {
	TextfilePath string `json:"textfile_path,omitempty" yaml:"textfile_path,omitempty"`
}

// Enabled reports whether a metrics textfile is configured
func (c MetricsConfig) Enabled() bool {
	return c.TextfilePath != ""
}
