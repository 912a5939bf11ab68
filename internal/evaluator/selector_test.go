package evaluator

import (
	"slices"
	"testing"
	"time"

	"github.com/aleister1102/checkftplog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeHours(t *testing.T) {
	now := time.Date(2022, 9, 20, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, AgeHours(now.Add(-10*time.Hour), now))
	assert.Equal(t, 10, AgeHours(now.Add(-10*time.Hour-29*time.Minute), now))
	assert.Equal(t, 11, AgeHours(now.Add(-10*time.Hour-30*time.Minute), now))
	assert.Equal(t, -2, AgeHours(now.Add(2*time.Hour), now))
}

func TestSelectFreshest(t *testing.T) {
	now := time.Date(2022, 9, 20, 12, 0, 0, 0, time.UTC)
	at := func(hoursAgo time.Duration, path string) models.FilenameCandidate {
		return models.FilenameCandidate{Timestamp: now.Add(-hoursAgo), EntryPath: path, FlagToken: "OK"}
	}

	t.Run("empty", func(t *testing.T) {
		_, _, found := SelectFreshest(slices.Values([]models.FilenameCandidate{}), now)
		assert.False(t, found)
	})

	t.Run("minimum age wins regardless of order", func(t *testing.T) {
		cands := []models.FilenameCandidate{at(30*time.Hour, "a"), at(5*time.Hour, "b"), at(400*time.Hour, "c")}
		age, best, found := SelectFreshest(slices.Values(cands), now)
		require.True(t, found)
		assert.Equal(t, 5, age)
		assert.Equal(t, "b", best.EntryPath)
	})

	t.Run("same rounded hour picks the newer timestamp", func(t *testing.T) {
		cands := []models.FilenameCandidate{
			at(10*time.Hour, "FLAG_20.09.2022_02-00-00_OK"),
			at(9*time.Hour+50*time.Minute, "FLAG_20.09.2022_02-10-00_WARN"),
			at(10*time.Hour+10*time.Minute, "FLAG_20.09.2022_01-50-00_OK"),
		}
		age, best, found := SelectFreshest(slices.Values(cands), now)
		require.True(t, found)
		assert.Equal(t, 10, age)
		assert.Equal(t, "FLAG_20.09.2022_02-10-00_WARN", best.EntryPath)
	})

	t.Run("identical timestamps keep the first seen", func(t *testing.T) {
		cands := []models.FilenameCandidate{
			at(5*time.Hour, "first"),
			at(5*time.Hour, "second"),
		}
		age, best, found := SelectFreshest(slices.Values(cands), now)
		require.True(t, found)
		assert.Equal(t, 5, age)
		assert.Equal(t, "first", best.EntryPath)
	})

	t.Run("future timestamps are freshest", func(t *testing.T) {
		cands := []models.LogCandidate{
			{Timestamp: now.Add(-time.Hour), ActorLabel: "past"},
			{Timestamp: now.Add(3 * time.Hour), ActorLabel: "future"},
		}
		age, best, found := SelectFreshest(slices.Values(cands), now)
		require.True(t, found)
		assert.Equal(t, -3, age)
		assert.Equal(t, "future", best.ActorLabel)
	})
}

func TestClassifyLog(t *testing.T) {
	th := Thresholds{MaxAgeHours: 36, Pattern: "db_"}
	cand := models.LogCandidate{RawTimestamp: "01.09.2022 2:22:55", ActorLabel: "backup"}

	assert.Equal(t, models.StateCritical, ClassifyLog(LogSelection{}, th).State)
	assert.Equal(t, models.StateOK, ClassifyLog(LogSelection{Found: true, AgeHours: 36, Candidate: cand, Transferred: "db_1.bak"}, th).State)

	v := ClassifyLog(LogSelection{Found: true, AgeHours: 37, Candidate: cand, Transferred: "db_1.bak"}, th)
	assert.Equal(t, models.StateWarning, v.State)
	assert.Equal(t, 37, v.AgeHours)
}

func TestClassifyFilename_OKTokenTakesPrecedence(t *testing.T) {
	th := Thresholds{MaxAgeHours: 24, FlagOK: "DONE", FlagWarn: "DONE", Pattern: "x"}
	sel := FilenameSelection{Found: true, AgeHours: 1, Candidate: models.FilenameCandidate{FlagToken: "DONE", EntryPath: "./x"}}

	assert.Equal(t, models.StateOK, ClassifyFilename(sel, th).State)
}

func TestVerdictForError(t *testing.T) {
	assert.Equal(t, "FTP connection error.", VerdictForError(ErrConnection).Message)
	assert.Equal(t, "Log file is too short.", VerdictForError(ErrLogTooShort).Message)

	v := VerdictForError(&PatternError{Pattern: "x(", Cause: assert.AnError})
	assert.Equal(t, models.StateUnknown, v.State)
	assert.Equal(t, "Invalid backup name pattern: "+assert.AnError.Error(), v.Message)
}
