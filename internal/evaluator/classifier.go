package evaluator

import (
	"github.com/aleister1102/checkftplog/internal/models"
)

const verdictTimeLayout = "2006-01-02 15:04:05"

// LogSelection is the outcome of freshness selection in log mode.
type LogSelection struct {
	Found       bool
	AgeHours    int
	Candidate   models.LogCandidate
	Transferred string
}

// FilenameSelection is the outcome of freshness selection in filename mode.
type FilenameSelection struct {
	Found     bool
	AgeHours  int
	Candidate models.FilenameCandidate
}

// Thresholds carries the policy a selection is judged against.
type Thresholds struct {
	MaxAgeHours int
	FlagOK      string
	FlagWarn    string
	Pattern     string
}

func noBackupVerdict(pattern string) models.Verdict {
	return models.NewVerdict(models.StateCritical, "No relevant backup found for pattern %s", pattern)
}

// ClassifyLog judges a log-mode selection. A matched STOR record implies
// success, so only the age decides between OK and WARNING.
func ClassifyLog(sel LogSelection, th Thresholds) models.Verdict {
	if !sel.Found {
		return noBackupVerdict(th.Pattern)
	}
	c := sel.Candidate
	// Supervisors match on this text; the spelling of "Successfull" is kept.
	if sel.AgeHours <= th.MaxAgeHours {
		return models.NewAgedVerdict(models.StateOK, sel.AgeHours,
			"Last backup: %d hours ago (%s)\nSuccessfull STOR: %s by user %s",
			sel.AgeHours, c.RawTimestamp, sel.Transferred, c.ActorLabel)
	}
	return models.NewAgedVerdict(models.StateWarning, sel.AgeHours,
		"Backup expired: newest %d hours ago (%s). Expected %d hours.\nSuccessfull STOR: %s by user %s.",
		sel.AgeHours, c.RawTimestamp, th.MaxAgeHours, sel.Transferred, c.ActorLabel)
}

// ClassifyFilename judges a filename-mode selection by its flag token and age.
// A flag matching neither token is CRITICAL.
func ClassifyFilename(sel FilenameSelection, th Thresholds) models.Verdict {
	if !sel.Found {
		return noBackupVerdict(th.Pattern)
	}
	c := sel.Candidate
	age := sel.AgeHours
	when := c.Timestamp.Format(verdictTimeLayout)
	fresh := age <= th.MaxAgeHours

	switch c.FlagToken {
	case th.FlagOK:
		if fresh {
			return models.NewAgedVerdict(models.StateOK, age,
				"Last backup: %d hours ago (%s)\nCompleted successfully %s.", age, when, c.EntryPath)
		}
		return models.NewAgedVerdict(models.StateWarning, age,
			"Backup expired: newest %d hours ago (%s). Expected %d hours.\nCompleted successfully %s.",
			age, when, th.MaxAgeHours, c.EntryPath)
	case th.FlagWarn:
		if fresh {
			return models.NewAgedVerdict(models.StateWarning, age,
				"Last backup: %d hours ago (%s)\nLast backup completed with Warning %s.", age, when, c.EntryPath)
		}
		return models.NewAgedVerdict(models.StateWarning, age,
			"Last backup: %d hours ago (%s). Expected %d hours.\nExpired. Last backup completed with Warning %s.",
			age, when, th.MaxAgeHours, c.EntryPath)
	default:
		return models.NewAgedVerdict(models.StateCritical, age,
			"Last backup %s finished with unrecognised status flag %q", c.EntryPath, c.FlagToken)
	}
}
