package models

import "path"

// EntryKind tells whether a listed remote entry is a file or a directory.
// Servers that only answer NLST leave it unknown.
type EntryKind int

const (
	EntryKindUnknown EntryKind = iota
	EntryKindFile
	EntryKindDirectory
)

// String returns string representation of EntryKind
func (k EntryKind) String() string {
	switch k {
	case EntryKindFile:
		return "file"
	case EntryKindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// RemoteEntry is one item of a remote directory listing.
type RemoteEntry struct {
	Path string    `json:"path"`
	Kind EntryKind `json:"kind"`
	Size int64     `json:"size,omitempty"`
}

// BaseName returns the last element of the entry path.
func (e RemoteEntry) BaseName() string {
	return path.Base(e.Path)
}

// IsDirectory reports whether the entry is known to be a directory.
func (e RemoteEntry) IsDirectory() bool {
	return e.Kind == EntryKindDirectory
}
