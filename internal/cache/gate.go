package cache

import (
	"path"
	"time"

	"github.com/aleister1102/checkftplog/internal/models"

	"github.com/rs/zerolog"
)

// Logs up to this many days old are assumed to still be appended to.
const liveLogMaxAgeDays = 1

// Policy bounds how far a cached blob is trusted.
type Policy struct {
	MaxAge          time.Duration
	MinExpectedSize int64
}

// CacheKeyFor returns the cache key of a remote entry: its base name only.
// Entries with the same base name under different remote directories or hosts
// share a key when they share a cache directory.
func CacheKeyFor(entryPath string) string {
	key := path.Base(entryPath)
	switch key {
	case ".", "..", "/":
		return ""
	}
	return key
}

// ShouldUseCache reports whether a cached blob may stand in for a fetch: the
// log is older than a day, and the blob exists, is recent enough and is
// larger than the minimum expected size.
func ShouldUseCache(exists bool, blob BlobInfo, now time.Time, policy Policy, entryAgeDays int) bool {
	if entryAgeDays <= liveLogMaxAgeDays || !exists {
		return false
	}
	if now.Sub(blob.ModTime) > policy.MaxAge {
		return false
	}
	return blob.Size > policy.MinExpectedSize
}

// ShouldRefreshCache reports whether freshly fetched bytes should be written
// back: when nothing is cached yet, or when the log may still be growing.
func ShouldRefreshCache(exists bool, entryAgeDays int, fetchedNonEmpty bool) bool {
	if !fetchedNonEmpty {
		return false
	}
	return !exists || entryAgeDays <= liveLogMaxAgeDays
}

// Gate applies the cache policy to one evaluation run. A Gate without a
// store never serves nor refreshes anything.
type Gate struct {
	store  Store
	policy Policy
	now    time.Time
	logger zerolog.Logger
}

// NewGate creates a gate for a run started at now. store may be nil.
func NewGate(store Store, policy Policy, now time.Time, logger zerolog.Logger) *Gate {
	return &Gate{
		store:  store,
		policy: policy,
		now:    now,
		logger: logger.With().Str("component", "CacheGate").Logger(),
	}
}

// Enabled reports whether the gate has a backing store.
func (g *Gate) Enabled() bool {
	return g != nil && g.store != nil
}

// ShouldUseCache applies ShouldUseCache to the blob stored for entry.
func (g *Gate) ShouldUseCache(entry models.RemoteEntry, entryAgeDays int) bool {
	if !g.Enabled() {
		return false
	}
	key := CacheKeyFor(entry.Path)
	if key == "" {
		return false
	}
	blob, err := g.store.Stat(key)
	if IsMiss(err) {
		return false
	}
	if err != nil {
		g.logger.Warn().Err(err).Str("key", key).Msg("Failed to stat cache blob")
		return false
	}
	return ShouldUseCache(true, blob, g.now, g.policy, entryAgeDays)
}

// Lookup returns the cached bytes of entry when the policy allows using them.
func (g *Gate) Lookup(entry models.RemoteEntry, entryAgeDays int) ([]byte, bool) {
	if !g.ShouldUseCache(entry, entryAgeDays) {
		return nil, false
	}
	key := CacheKeyFor(entry.Path)
	data, err := g.store.Read(key)
	if err != nil {
		g.logger.Warn().Err(err).Str("key", key).Msg("Failed to read cache blob, fetching instead")
		return nil, false
	}
	g.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Using cached log")
	return data, true
}

// Remember writes fetched bytes back when ShouldRefreshCache allows it and
// reports whether the blob was written.
func (g *Gate) Remember(entry models.RemoteEntry, entryAgeDays int, fetched []byte) bool {
	if !g.Enabled() {
		return false
	}
	key := CacheKeyFor(entry.Path)
	if key == "" {
		return false
	}
	if !ShouldRefreshCache(g.store.Exists(key), entryAgeDays, len(fetched) > 0) {
		return false
	}
	if err := g.store.Write(key, fetched); err != nil {
		g.logger.Warn().Err(err).Str("key", key).Msg("Failed to refresh cache blob")
		return false
	}
	return true
}
