// Package metrics exports the outcome of a check run as Prometheus gauges
// in the node_exporter textfile format.
package metrics

import (
	"time"

	"github.com/aleister1102/checkftplog/internal/common"
	"github.com/aleister1102/checkftplog/internal/evaluator"
	"github.com/aleister1102/checkftplog/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var labelNames = []string{"pattern", "data_source"}

// Recorder holds the gauges of one run in a private registry.
type Recorder struct {
	registry *prometheus.Registry
	labels   prometheus.Labels

	state          *prometheus.GaugeVec
	backupAge      *prometheus.GaugeVec
	entriesListed  *prometheus.GaugeVec
	entriesFetched *prometheus.GaugeVec
	cacheHits      *prometheus.GaugeVec
	candidates     *prometheus.GaugeVec
	lastRun        *prometheus.GaugeVec
}

// NewRecorder creates a recorder whose series carry pattern and dataSource.
func NewRecorder(pattern, dataSource string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	gauge := func(name, help string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labelNames)
	}

	return &Recorder{
		registry:       reg,
		labels:         prometheus.Labels{"pattern": pattern, "data_source": dataSource},
		state:          gauge("checkftplog_state", "Check state: 0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN"),
		backupAge:      gauge("checkftplog_backup_age_hours", "Age of the newest matching backup in hours"),
		entriesListed:  gauge("checkftplog_entries_listed", "Entries in the remote directory listing"),
		entriesFetched: gauge("checkftplog_entries_fetched", "Log files downloaded during the run"),
		cacheHits:      gauge("checkftplog_cache_hits", "Log files served from the local cache"),
		candidates:     gauge("checkftplog_candidates", "Backup events considered by the freshness selection"),
		lastRun:        gauge("checkftplog_last_run_timestamp_seconds", "Unix time the run finished"),
	}
}

// Observe records a verdict and the counters of the run that produced it.
// The age series is only present when a backup was found.
func (r *Recorder) Observe(v models.Verdict, stats evaluator.RunStats, finishedAt time.Time) {
	r.state.With(r.labels).Set(float64(v.State.ExitCode()))
	if v.HasAge {
		r.backupAge.With(r.labels).Set(float64(v.AgeHours))
	}
	r.entriesListed.With(r.labels).Set(float64(stats.EntriesListed))
	r.entriesFetched.With(r.labels).Set(float64(stats.EntriesFetched))
	r.cacheHits.With(r.labels).Set(float64(stats.CacheHits))
	r.candidates.With(r.labels).Set(float64(stats.Candidates))
	r.lastRun.With(r.labels).Set(float64(finishedAt.Unix()))
}

// Gatherer exposes the private registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile atomically replaces path with the current gauge values.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return common.WrapError(err, "failed to write metrics textfile")
	}
	return nil
}
