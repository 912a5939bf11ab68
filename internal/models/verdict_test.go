package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_StringAndExitCode(t *testing.T) {
	tests := []struct {
		state    State
		label    string
		exitCode int
	}{
		{StateOK, "OK", 0},
		{StateWarning, "WARNING", 1},
		{StateCritical, "CRITICAL", 2},
		{StateUnknown, "UNKNOWN", 3},
		{State(42), "UNKNOWN", 3},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.label, tt.state.String())
			assert.Equal(t, tt.exitCode, tt.state.ExitCode())
		})
	}
}

func TestNewAgedVerdict(t *testing.T) {
	v := NewAgedVerdict(StateWarning, 400, "Backup expired: newest %d hours ago", 400)
	assert.True(t, v.HasAge)
	assert.Equal(t, 400, v.AgeHours)
	assert.Equal(t, "Backup expired: newest 400 hours ago", v.Message)

	u := NewVerdict(StateUnknown, "Logfile directory empty.")
	assert.False(t, u.HasAge)
	assert.Equal(t, StateUnknown, u.State)
}

func TestRemoteEntry(t *testing.T) {
	e := RemoteEntry{Path: "logs/fzs-2022-09-01.log", Kind: EntryKindFile}
	assert.Equal(t, "fzs-2022-09-01.log", e.BaseName())
	assert.False(t, e.IsDirectory())
	assert.Equal(t, "file", e.Kind.String())

	d := RemoteEntry{Path: "./FLAG_16.09.2022_22-13-05_OK", Kind: EntryKindDirectory}
	assert.True(t, d.IsDirectory())
	assert.Equal(t, "unknown", EntryKindUnknown.String())
}
