// Package parser extracts backup events from remote entry names and from
// FTP server transfer logs.
package parser

import (
	"regexp"
	"strings"
)

// BackupPattern is the caller-supplied name fragment identifying one backup job.
//
// The raw text is spliced into regular expressions unchanged, so characters
// such as '.' or '+' keep their regex meaning. Set escape to match the text
// literally instead.
type BackupPattern struct {
	raw    string
	escape bool
	re     *regexp.Regexp
}

// NewBackupPattern prepares a pattern for matching entry names.
func NewBackupPattern(raw string, escape bool) BackupPattern {
	p := BackupPattern{raw: raw, escape: escape}
	if re, err := regexp.Compile(p.Fragment()); err == nil {
		p.re = re
	}
	return p
}

// Raw returns the pattern as supplied.
func (p BackupPattern) Raw() string {
	return p.raw
}

// IsEmpty reports whether no pattern was supplied.
func (p BackupPattern) IsEmpty() bool {
	return p.raw == ""
}

// Fragment returns the regex fragment to splice into a larger grammar.
func (p BackupPattern) Fragment() string {
	if p.escape {
		return regexp.QuoteMeta(p.raw)
	}
	return p.raw
}

// Matches reports whether s contains the pattern. A pattern that is not a
// valid regular expression falls back to a plain substring test.
func (p BackupPattern) Matches(s string) bool {
	if p.re != nil {
		return p.re.MatchString(s)
	}
	return strings.Contains(s, p.raw)
}
