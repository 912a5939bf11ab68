package config

import (
	"net"
	"strconv"
	"time"
)

// FTPConfig defines how to reach the backup storage FTP server
type FTPConfig struct {
	Host               string `json:"host,omitempty" yaml:"host,omitempty" validate:"required"`
	Port               int    `json:"port,omitempty" yaml:"port,omitempty" validate:"min=1,max=65535"`
	UseTLS             bool   `json:"use_tls" yaml:"use_tls"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	DisableEPSV        bool   `json:"disable_epsv" yaml:"disable_epsv"`
	Path               string `json:"path,omitempty" yaml:"path,omitempty"`
	Username           string `json:"username,omitempty" yaml:"username,omitempty"`
	Password           string `json:"password,omitempty" yaml:"password,omitempty"`
	TimeoutSeconds     int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"min=1"`
	// ConnectAttempts above 1 retries connect and login only. Listing and fetches are never retried.
	ConnectAttempts int `json:"connect_attempts,omitempty" yaml:"connect_attempts,omitempty" validate:"min=1,max=10"`
	RetryDelayMs    int `json:"retry_delay_ms,omitempty" yaml:"retry_delay_ms,omitempty" validate:"min=0"`
}

// NewDefaultFTPConfig creates default FTP configuration
func NewDefaultFTPConfig() FTPConfig {
	return FTPConfig{
		Host:            DefaultFTPHost,
		Port:            DefaultFTPPort,
		Username:        "username",
		Password:        "secret_password",
		TimeoutSeconds:  DefaultFTPTimeoutSeconds,
		ConnectAttempts: DefaultFTPConnectAttempts,
		RetryDelayMs:    DefaultFTPRetryDelayMs,
	}
}

// Address returns host:port
func (c FTPConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeout returns the dial and command timeout
func (c FTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay returns the pause between connect attempts
func (c FTPConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}
