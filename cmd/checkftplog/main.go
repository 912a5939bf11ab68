package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/checkftplog/internal/cache"
	"github.com/aleister1102/checkftplog/internal/config"
	"github.com/aleister1102/checkftplog/internal/evaluator"
	"github.com/aleister1102/checkftplog/internal/ftpclient"
	"github.com/aleister1102/checkftplog/internal/logger"
	"github.com/aleister1102/checkftplog/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one check and returns the plugin exit code. The verdict
// message is the only thing written to stdout.
func run(args []string, stdout, stderr io.Writer) int {
	flags, err := ParseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return models.StateUnknown.ExitCode()
		}
		return report(stdout, models.NewVerdict(models.StateUnknown, "Configuration error: %v", err))
	}

	bootLogger := zerolog.New(stderr).Level(zerolog.ErrorLevel).With().Timestamp().Logger()
	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, bootLogger)
	if err != nil {
		return report(stdout, models.NewVerdict(models.StateUnknown, "Configuration error: %v", err))
	}
	flags.Apply(gCfg)

	if err := config.ValidateConfig(gCfg); err != nil {
		return report(stdout, models.NewVerdict(models.StateUnknown, "Configuration error: %v", err))
	}

	runID := uuid.NewString()
	appLogger, err := logger.NewWithRunID(gCfg.LogConfig, runID, stderr)
	if err != nil {
		return report(stdout, models.NewVerdict(models.StateUnknown, "Configuration error: %v", err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := ftpclient.NewClient(gCfg.FTPConfig, appLogger)
	connector := evaluator.ConnectorFunc(func(ctx context.Context) (evaluator.Session, error) {
		session, err := client.Connect(ctx)
		if err != nil {
			return nil, err
		}
		return session, nil
	})

	var opts []evaluator.Option
	if gCfg.CacheConfig.Enabled() {
		store, err := cache.NewFileStore(gCfg.CacheConfig.Dir, appLogger)
		if err != nil {
			appLogger.Warn().Err(err).Str("dir", gCfg.CacheConfig.Dir).Msg("Cache unavailable, fetching every log")
		} else {
			opts = append(opts, evaluator.WithCacheStore(store))
		}
	}

	eval := evaluator.New(gCfg, connector, appLogger, opts...)
	startedAt := time.Now()
	verdict := eval.Evaluate(ctx)
	finishedAt := time.Now()

	recordHistory(gCfg, runID, verdict, eval.Stats(), startedAt, finishedAt, appLogger)
	exportMetrics(gCfg, verdict, eval.Stats(), finishedAt, appLogger)

	return report(stdout, verdict)
}

func report(stdout io.Writer, v models.Verdict) int {
	fmt.Fprintln(stdout, v.Message)
	return v.State.ExitCode()
}
