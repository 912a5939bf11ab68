package config

import (
	"time"
	// Embedded zone database, the default zone must resolve on hosts without one.
	_ "time/tzdata"
)

// CheckConfig defines which backup is checked and how its freshness is judged
type CheckConfig struct {
	DataSource          string `json:"data_source,omitempty" yaml:"data_source,omitempty" validate:"datasource"`
	BakFilePattern      string `json:"bak_file_pattern,omitempty" yaml:"bak_file_pattern,omitempty"`
	EscapePattern       bool   `json:"escape_pattern" yaml:"escape_pattern"`
	LogAgeHours         int    `json:"log_age_hours,omitempty" yaml:"log_age_hours,omitempty" validate:"min=0"`
	LogfileAgeDays      int    `json:"logfile_age_days,omitempty" yaml:"logfile_age_days,omitempty" validate:"min=1"`
	MinLogBytes         int    `json:"min_log_bytes,omitempty" yaml:"min_log_bytes,omitempty" validate:"min=0"`
	FilenamePatternOK   string `json:"filename_pattern_ok,omitempty" yaml:"filename_pattern_ok,omitempty" validate:"required"`
	FilenamePatternWarn string `json:"filename_pattern_warn,omitempty" yaml:"filename_pattern_warn,omitempty" validate:"required"`
	Timezone            string `json:"timezone,omitempty" yaml:"timezone,omitempty" validate:"tzname"`
}

// NewDefaultCheckConfig creates default check configuration
func NewDefaultCheckConfig() CheckConfig {
	return CheckConfig{
		DataSource:          DefaultDataSource,
		LogAgeHours:         DefaultLogAgeHours,
		LogfileAgeDays:      DefaultLogfileAgeDays,
		MinLogBytes:         DefaultMinLogBytes,
		FilenamePatternOK:   DefaultFilenamePatternOK,
		FilenamePatternWarn: DefaultFilenamePatternWarn,
		Timezone:            DefaultTimezone,
	}
}

// Location resolves the configured timezone. An empty value means the local zone.
func (c CheckConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
