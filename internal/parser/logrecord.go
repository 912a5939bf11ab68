package parser

import (
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/aleister1102/checkftplog/internal/common"
	"github.com/aleister1102/checkftplog/internal/models"

	"github.com/rs/zerolog"
)

// A successful STOR record as written by FileZilla Server, e.g.
//
//	(000051) 01.09.2022 2:22:55 - ftp_user (10.0.1.2)> 226 Successfully transferred "/path/to/file/web_storage_2022_09_01_010000_6539791.bak"
//
// The trailing \r\n is required for the lazy groups to stop at the end of the record.
const storRecordGrammar = `\(\d{5,7}\) (.+?) - (.+?) \((.+?)\)> 226 Successfully transferred "(.+?)%s(.+?)"\r\n`

// Submatch indices in storRecordGrammar.
const (
	groupDatetime = 1
	groupActor    = 2
	groupSuffix   = 5
)

var logTimestampLayouts = []string{
	"2.1.2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006 3:04:05 PM",
}

// LogRecordMatcher finds successful transfers of one backup job in transfer log text.
type LogRecordMatcher struct {
	re       *regexp.Regexp
	pattern  BackupPattern
	location *time.Location
	logger   zerolog.Logger
}

// NewLogRecordMatcher compiles the STOR record grammar for pattern. It fails
// when the pattern, spliced into the grammar, is not a valid expression.
func NewLogRecordMatcher(pattern BackupPattern, loc *time.Location, logger zerolog.Logger) (*LogRecordMatcher, error) {
	if pattern.IsEmpty() {
		return nil, common.NewValidationError("bak_file_pattern", pattern.Raw(), "pattern is required")
	}
	re, err := regexp.Compile(fmt.Sprintf(storRecordGrammar, pattern.Fragment()))
	if err != nil {
		return nil, common.WrapError(err, fmt.Sprintf("backup pattern %q does not fit the transfer record grammar", pattern.Raw()))
	}
	if loc == nil {
		loc = time.Local
	}
	return &LogRecordMatcher{
		re:       re,
		pattern:  pattern,
		location: loc,
		logger:   logger.With().Str("component", "LogRecordMatcher").Logger(),
	}, nil
}

// Candidates lazily yields one candidate per matching record, in text order.
// Records whose timestamp cannot be read are skipped.
func (m *LogRecordMatcher) Candidates(rawText string) iter.Seq[models.LogCandidate] {
	return func(yield func(models.LogCandidate) bool) {
		rest := rawText
		for {
			loc := m.re.FindStringSubmatchIndex(rest)
			if loc == nil {
				return
			}
			group := func(i int) string {
				return rest[loc[2*i]:loc[2*i+1]]
			}

			raw := group(groupDatetime)
			ts, err := m.parseTimestamp(raw)
			if err != nil {
				m.logger.Debug().Err(err).Str("datetime", raw).Msg("Skipping transfer record with unreadable timestamp")
			} else if !yield(models.LogCandidate{
				Timestamp:         ts,
				RawTimestamp:      raw,
				ActorLabel:        group(groupActor),
				TransferredSuffix: group(groupSuffix),
			}) {
				return
			}

			rest = rest[loc[1]:]
		}
	}
}

// Extract collects every candidate in rawText.
func (m *LogRecordMatcher) Extract(rawText string) []models.LogCandidate {
	return slices.Collect(m.Candidates(rawText))
}

// TransferredName returns the backup file name of a candidate as pattern plus suffix.
func (m *LogRecordMatcher) TransferredName(c models.LogCandidate) string {
	return m.pattern.Raw() + c.TransferredSuffix
}

func (m *LogRecordMatcher) parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range logTimestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, m.location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, common.NewValidationError("datetime", raw, "unsupported transfer log timestamp")
}

// ExtractLogCandidates is a convenience wrapper around NewLogRecordMatcher and Extract.
func ExtractLogCandidates(rawText string, pattern BackupPattern, loc *time.Location) ([]models.LogCandidate, error) {
	m, err := NewLogRecordMatcher(pattern, loc, zerolog.Nop())
	if err != nil {
		return nil, err
	}
	return m.Extract(rawText), nil
}
