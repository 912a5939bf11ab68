package config

import "time"

// CacheConfig defines the local copy kept of remote log files
type CacheConfig struct {
	Dir                  string `json:"dir,omitempty" yaml:"dir,omitempty"`
	MaxAgeSeconds        int    `json:"max_age_seconds,omitempty" yaml:"max_age_seconds,omitempty" validate:"min=0"`
	MinExpectedSizeBytes int64  `json:"min_expected_size_bytes,omitempty" yaml:"min_expected_size_bytes,omitempty" validate:"min=0"`
}

// NewDefaultCacheConfig creates default cache configuration, with caching disabled
func NewDefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxAgeSeconds:        DefaultCacheMaxAgeSeconds,
		MinExpectedSizeBytes: DefaultCacheMinSizeBytes,
	}
}

// Enabled reports whether a cache directory is configured
func (c CacheConfig) Enabled() bool {
	return c.Dir != ""
}

// MaxAge returns how long a cached blob stays trustworthy
func (c CacheConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeSeconds) * time.Second
}
