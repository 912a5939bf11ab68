package parser

import (
	"math"
	"path"
	"regexp"
	"strconv"
	"time"

	"github.com/aleister1102/checkftplog/internal/models"
)

var (
	// e.g. ./FLAG_16.09.2022_22-13-05_OK
	flagNamePattern = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})_(\d{2})-(\d{2})-(\d{2})_(\w+)`)
	// e.g. ./fzs-2022-09-01.log
	logFileDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

const logFileDateLayout = "2006-01-02"

// NameParser reads completion time and status flag from flag file or folder names.
type NameParser struct {
	pattern  BackupPattern
	location *time.Location
}

// NewNameParser creates a parser for entries belonging to pattern. Times are
// interpreted in loc.
func NewNameParser(pattern BackupPattern, loc *time.Location) *NameParser {
	if loc == nil {
		loc = time.Local
	}
	return &NameParser{pattern: pattern, location: loc}
}

// ParseFilenameCandidate returns the candidate encoded in entryPath. It reports
// false when the path does not belong to the backup pattern or carries no valid
// DD.MM.YYYY_HH-MM-SS_<flag> group. When several groups are present the last
// one wins.
func (p *NameParser) ParseFilenameCandidate(entryPath string) (models.FilenameCandidate, bool) {
	if !p.pattern.Matches(entryPath) {
		return models.FilenameCandidate{}, false
	}

	all := flagNamePattern.FindAllStringSubmatch(entryPath, -1)
	if len(all) == 0 {
		return models.FilenameCandidate{}, false
	}
	m := all[len(all)-1]

	nums := make([]int, 6)
	for i := range nums {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return models.FilenameCandidate{}, false
		}
		nums[i] = n
	}
	day, month, year, hour, minute, second := nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]

	ts, ok := strictDate(year, month, day, hour, minute, second, p.location)
	if !ok || m[7] == "" {
		return models.FilenameCandidate{}, false
	}

	return models.FilenameCandidate{
		Timestamp: ts,
		FlagToken: m[7],
		EntryPath: entryPath,
	}, true
}

// ParseLogFileDate returns midnight of the first YYYY-MM-DD run in the base
// name of entryPath.
func ParseLogFileDate(entryPath string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	raw := logFileDatePattern.FindString(path.Base(entryPath))
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(logFileDateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// LogFileAgeDays returns the age of a log file in whole days, rounded to the
// nearest day. Names without a usable date count as 0 days old so that the
// file is still considered.
func LogFileAgeDays(entryPath string, now time.Time) int {
	fileDate, ok := ParseLogFileDate(entryPath, now.Location())
	if !ok {
		return 0
	}
	return int(math.Round(now.Sub(fileDate).Hours() / 24))
}

// strictDate builds a time and rejects values time.Date would normalise,
// such as 31.02 or 25:00.
func strictDate(year, month, day, hour, minute, second int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}
