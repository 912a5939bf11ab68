package main

import (
	"database/sql"
	"time"

	"github.com/aleister1102/checkftplog/internal/config"
	"github.com/aleister1102/checkftplog/internal/evaluator"
	"github.com/aleister1102/checkftplog/internal/history"
	"github.com/aleister1102/checkftplog/internal/metrics"
	"github.com/aleister1102/checkftplog/internal/models"

	"github.com/rs/zerolog"
)

// recordHistory appends the verdict to the history database when one is
// configured. Failures are logged and never change the verdict.
func recordHistory(gCfg *config.GlobalConfig, runID string, v models.Verdict, stats evaluator.RunStats, startedAt, finishedAt time.Time, log zerolog.Logger) {
	if !gCfg.HistoryConfig.Enabled() {
		return
	}
	db, err := history.NewDB(gCfg.HistoryConfig.DBPath, log)
	if err != nil {
		log.Warn().Err(err).Msg("History database unavailable")
		return
	}
	defer db.Close()

	_, err = db.RecordVerdict(history.Record{
		RunID:          runID,
		StartedAt:      startedAt,
		FinishedAt:     finishedAt,
		Host:           gCfg.FTPConfig.Address(),
		RemotePath:     gCfg.FTPConfig.Path,
		Pattern:        gCfg.CheckConfig.BakFilePattern,
		DataSource:     gCfg.CheckConfig.DataSource,
		State:          v.State.String(),
		ExitCode:       v.State.ExitCode(),
		AgeHours:       sql.NullInt64{Int64: int64(v.AgeHours), Valid: v.HasAge},
		Message:        v.Message,
		EntriesListed:  stats.EntriesListed,
		EntriesFetched: stats.EntriesFetched,
		CacheHits:      stats.CacheHits,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to record verdict history")
	}
}

// exportMetrics writes the Prometheus textfile when one is configured.
func exportMetrics(gCfg *config.GlobalConfig, v models.Verdict, stats evaluator.RunStats, finishedAt time.Time, log zerolog.Logger) {
	if !gCfg.MetricsConfig.Enabled() {
		return
	}
	recorder := metrics.NewRecorder(gCfg.CheckConfig.BakFilePattern, gCfg.CheckConfig.DataSource)
	recorder.Observe(v, stats, finishedAt)
	if err := recorder.WriteTextfile(gCfg.MetricsConfig.TextfilePath); err != nil {
		log.Warn().Err(err).Str("path", gCfg.MetricsConfig.TextfilePath).Msg("Failed to export metrics")
	}
}
