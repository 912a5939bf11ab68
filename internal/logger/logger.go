// Package logger builds the zerolog logger shared by every component of a run.
package logger

import (
	"io"

	"github.com/aleister1102/checkftplog/internal/config"

	"github.com/rs/zerolog"
)

// Logger represents the main logger
type Logger struct {
	zerolog zerolog.Logger
}

// GetZerolog returns the underlying zerolog instance
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zerolog
}

// NewWithRunID creates a logger whose records carry runID. Console records
// go to console, which keeps stdout free for the verdict.
func NewWithRunID(cfg config.LogConfig, runID string, console io.Writer) (zerolog.Logger, error) {
	logger, err := NewLoggerBuilder().
		WithConfig(cfg).
		WithRunID(runID).
		WithConsoleOutput(console).
		Build()
	if err != nil {
		return zerolog.Logger{}, err
	}
	return *logger.GetZerolog(), nil
}
