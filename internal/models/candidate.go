package models

import "time"

// LogCandidate is a successful STOR record found in a transfer log.
type LogCandidate struct {
	Timestamp         time.Time `json:"timestamp"`
	RawTimestamp      string    `json:"raw_timestamp"`
	ActorLabel        string    `json:"actor_label"`
	TransferredSuffix string    `json:"transferred_suffix"`
}

// FilenameCandidate is a backup flag file or folder whose name carries
// the completion time and status flag.
type FilenameCandidate struct {
	Timestamp time.Time `json:"timestamp"`
	FlagToken string    `json:"flag_token"`
	EntryPath string    `json:"entry_path"`
}

// Timestamped is implemented by every candidate kind the freshness selector accepts.
type Timestamped interface {
	When() time.Time
}

// When returns the time of the STOR record.
func (c LogCandidate) When() time.Time { return c.Timestamp }

// When returns the time embedded in the entry name.
func (c FilenameCandidate) When() time.Time { return c.Timestamp }
