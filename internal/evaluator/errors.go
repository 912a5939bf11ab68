package evaluator

import (
	"errors"

	"github.com/aleister1102/checkftplog/internal/common"
	"github.com/aleister1102/checkftplog/internal/models"
)

// Conditions that end a run before any candidate is judged.
var (
	ErrMissingPattern = errors.New("no backup name pattern configured")
	ErrConnection     = errors.New("ftp connection failed")
	ErrEmptyListing   = errors.New("remote directory listing is empty")
	ErrLogTooShort    = errors.New("collected log text is shorter than the minimum")
	ErrInvalidPattern = errors.New("invalid backup name pattern")
)

// PatternError reports a backup pattern that cannot be used in the log
// record grammar.
type PatternError struct {
	Pattern string
	Cause   error
}

func (e *PatternError) Error() string {
	return ErrInvalidPattern.Error() + " " + e.Pattern + ": " + e.Cause.Error()
}

func (e *PatternError) Unwrap() error { return e.Cause }

func (e *PatternError) Is(target error) bool { return target == ErrInvalidPattern }

// VerdictForError maps a run-ending error to its UNKNOWN verdict.
func VerdictForError(err error) models.Verdict {
	var patternErr *PatternError
	switch {
	case errors.Is(err, ErrMissingPattern):
		return models.NewVerdict(models.StateUnknown, "No filename pattern specified. Can't run.")
	case errors.Is(err, ErrConnection):
		return models.NewVerdict(models.StateUnknown, "FTP connection error.")
	case errors.Is(err, ErrEmptyListing):
		return models.NewVerdict(models.StateUnknown, "Logfile directory empty.")
	case errors.Is(err, ErrLogTooShort):
		return models.NewVerdict(models.StateUnknown, "Log file is too short.")
	case errors.As(err, &patternErr):
		return models.NewVerdict(models.StateUnknown, "Invalid backup name pattern: %v", patternErr.Cause)
	case errors.Is(err, common.ErrInvalidConfiguration), errors.Is(err, common.ErrInvalidInput):
		return models.NewVerdict(models.StateUnknown, "Configuration error: %v", err)
	default:
		return models.NewVerdict(models.StateUnknown, "%v", err)
	}
}
