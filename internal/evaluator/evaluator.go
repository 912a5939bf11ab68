// Package evaluator decides how fresh the newest backup of a job is and
// turns that into a single monitoring verdict.
package evaluator

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/aleister1102/checkftplog/internal/cache"
	"github.com/aleister1102/checkftplog/internal/common"
	"github.com/aleister1102/checkftplog/internal/config"
	"github.com/aleister1102/checkftplog/internal/ftpclient"
	"github.com/aleister1102/checkftplog/internal/models"
	"github.com/aleister1102/checkftplog/internal/parser"

	"github.com/rs/zerolog"
)

// Session is a logged-in transport session.
type Session interface {
	ListDirectory(dir string) ([]models.RemoteEntry, error)
	FetchBytes(entryPath string) ([]byte, error)
	Close() error
}

// Connector opens a logged-in Session.
type Connector interface {
	Connect(ctx context.Context) (Session, error)
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context) (Session, error)

func (f ConnectorFunc) Connect(ctx context.Context) (Session, error) { return f(ctx) }

// RunStats counts what one run did. It never influences the verdict.
type RunStats struct {
	EntriesListed  int
	EntriesFetched int
	FetchFailures  int
	CacheHits      int
	CacheWrites    int
	LogBytes       int
	Candidates     int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.clock = now }
}

// WithCacheStore enables the log cache backed by store.
func WithCacheStore(store cache.Store) Option {
	return func(e *Evaluator) { e.store = store }
}

// Evaluator runs one freshness check. Evaluate may be called repeatedly;
// each call is an independent run.
type Evaluator struct {
	check     config.CheckConfig
	remote    string
	policy    cache.Policy
	connector Connector
	store     cache.Store
	clock     func() time.Time
	logger    zerolog.Logger
	stats     RunStats
}

// New creates an evaluator for cfg that reaches the server through connector.
func New(cfg *config.GlobalConfig, connector Connector, logger zerolog.Logger, opts ...Option) *Evaluator {
	e := &Evaluator{
		check:  cfg.CheckConfig,
		remote: cfg.FTPConfig.Path,
		policy: cache.Policy{
			MaxAge:          cfg.CacheConfig.MaxAge(),
			MinExpectedSize: cfg.CacheConfig.MinExpectedSizeBytes,
		},
		connector: connector,
		clock:     time.Now,
		logger:    logger.With().Str("component", "Evaluator").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stats returns the counters of the last run.
func (e *Evaluator) Stats() RunStats {
	return e.stats
}

// Evaluate produces the verdict of one run. Every failure is folded into
// the verdict; the caller only prints it and exits with its code.
func (e *Evaluator) Evaluate(ctx context.Context) models.Verdict {
	e.stats = RunStats{}

	verdict, err := e.run(ctx)
	if err != nil {
		e.logger.Debug().Err(err).Msg("Run ended early")
		return VerdictForError(err)
	}
	e.logger.Debug().
		Str("state", verdict.State.String()).
		Int("age_hours", verdict.AgeHours).
		Interface("stats", e.stats).
		Msg("Run finished")
	return verdict
}

func (e *Evaluator) run(ctx context.Context) (models.Verdict, error) {
	pattern := parser.NewBackupPattern(e.check.BakFilePattern, e.check.EscapePattern)
	if pattern.IsEmpty() {
		return models.Verdict{}, ErrMissingPattern
	}

	loc, err := e.check.Location()
	if err != nil {
		return models.Verdict{}, common.WrapError(common.NewConfigurationError("check_config", "timezone", err.Error()), "cannot resolve timezone")
	}
	now := e.clock().In(loc)

	var matcher *parser.LogRecordMatcher
	switch e.check.DataSource {
	case config.DataSourceLog:
		matcher, err = parser.NewLogRecordMatcher(pattern, loc, e.logger)
		if err != nil {
			return models.Verdict{}, &PatternError{Pattern: pattern.Raw(), Cause: err}
		}
	case config.DataSourceFilename:
	default:
		return models.Verdict{}, common.NewConfigurationError("check_config", "data_source",
			fmt.Sprintf("unsupported data source %q", e.check.DataSource))
	}

	session, err := e.connector.Connect(ctx)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			e.logger.Debug().Err(cerr).Msg("Closing FTP session failed")
		}
	}()

	dir := ftpclient.ListingPath(e.remote)
	entries, err := session.ListDirectory(dir)
	if err != nil {
		e.logger.Warn().Err(err).Str("dir", dir).Msg("Directory listing failed")
		return models.Verdict{}, fmt.Errorf("%w: %w", ErrEmptyListing, err)
	}
	e.stats.EntriesListed = len(entries)
	if len(entries) == 0 {
		return models.Verdict{}, ErrEmptyListing
	}

	th := Thresholds{
		MaxAgeHours: e.check.LogAgeHours,
		FlagOK:      e.check.FilenamePatternOK,
		FlagWarn:    e.check.FilenamePatternWarn,
		Pattern:     pattern.Raw(),
	}

	if matcher != nil {
		return e.evaluateLogs(session, entries, matcher, now, th)
	}
	return e.evaluateFilenames(entries, pattern, loc, now, th), nil
}

func (e *Evaluator) evaluateLogs(session Session, entries []models.RemoteEntry, matcher *parser.LogRecordMatcher, now time.Time, th Thresholds) (models.Verdict, error) {
	text := e.collectLogText(session, entries, now)
	e.stats.LogBytes = len(text)
	if len(text) < e.check.MinLogBytes {
		return models.Verdict{}, ErrLogTooShort
	}

	age, cand, found := SelectFreshest(counting(matcher.Candidates(text), &e.stats.Candidates), now)
	sel := LogSelection{Found: found, AgeHours: age, Candidate: cand}
	if found {
		sel.Transferred = matcher.TransferredName(cand)
	}
	return ClassifyLog(sel, th), nil
}

// collectLogText concatenates the eligible log files in listing order, each
// preceded by a newline. Entries that cannot be fetched are left out.
func (e *Evaluator) collectLogText(session Session, entries []models.RemoteEntry, now time.Time) string {
	gate := cache.NewGate(e.store, e.policy, now, e.logger)

	var b strings.Builder
	for _, entry := range entries {
		if entry.IsDirectory() {
			continue
		}
		ageDays := parser.LogFileAgeDays(entry.Path, now)
		if ageDays >= e.check.LogfileAgeDays {
			e.logger.Debug().Str("entry", entry.Path).Int("age_days", ageDays).Msg("Log file outside age window")
			continue
		}

		data, hit := gate.Lookup(entry, ageDays)
		if hit {
			e.stats.CacheHits++
		} else {
			fetched, err := session.FetchBytes(entry.Path)
			if err != nil {
				e.stats.FetchFailures++
				e.logger.Warn().Err(err).Str("entry", entry.Path).Msg("Failed to fetch log file, skipping")
				continue
			}
			e.stats.EntriesFetched++
			if gate.Remember(entry, ageDays, fetched) {
				e.stats.CacheWrites++
			}
			data = fetched
		}

		b.WriteByte('\n')
		b.Write(data)
	}
	return b.String()
}

func (e *Evaluator) evaluateFilenames(entries []models.RemoteEntry, pattern parser.BackupPattern, loc *time.Location, now time.Time, th Thresholds) models.Verdict {
	names := parser.NewNameParser(pattern, loc)
	candidates := func(yield func(models.FilenameCandidate) bool) {
		for _, entry := range entries {
			c, ok := names.ParseFilenameCandidate(entry.Path)
			if !ok {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}

	age, cand, found := SelectFreshest(counting(iter.Seq[models.FilenameCandidate](candidates), &e.stats.Candidates), now)
	return ClassifyFilename(FilenameSelection{Found: found, AgeHours: age, Candidate: cand}, th)
}

func counting[T any](seq iter.Seq[T], n *int) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			*n++
			if !yield(v) {
				return
			}
		}
	}
}
