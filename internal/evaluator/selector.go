package evaluator

import (
	"iter"
	"math"
	"time"

	"github.com/aleister1102/checkftplog/internal/models"
)

// AgeHours returns the distance from ts to now in whole hours, rounded to
// the nearest hour. Timestamps in the future give negative ages.
func AgeHours(ts, now time.Time) int {
	return int(math.Round(now.Sub(ts).Hours()))
}

// SelectFreshest returns the candidate closest to now in one pass, compared
// on exact timestamps; ageHours is its rounded age. Only identical timestamps
// tie, and then the first candidate seen is kept. found is false for an
// empty sequence.
func SelectFreshest[T models.Timestamped](candidates iter.Seq[T], now time.Time) (ageHours int, freshest T, found bool) {
	var newest time.Time
	for c := range candidates {
		ts := c.When()
		if !found || ts.After(newest) {
			newest, freshest, found = ts, c, true
		}
	}
	if !found {
		return 0, freshest, false
	}
	return AgeHours(newest, now), freshest, true
}
