package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gitlab.com/slon/library/client"
	"gitlab.com/slon/library/config"
	"gitlab.com/slon/library/library"
	"gitlab.com/slon/library/metrics"
	"gitlab.com/slon/library/narrator"
	"gitlab.com/slon/library/report"
	"gitlab.com/slon/library/statusserver"
)

func newRootCmd() *cobra.Command {
	var flags *config.Flags

	cmd := &cobra.Command{
		Use:           "library [readers writers]",
		Short:         "Simulate readers and writers sharing a library in arrival order",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.Resolve()
			if err != nil {
				return err
			}
			argsErr := cfg.ApplyArgs(args)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			if argsErr != nil {
				logger.Warn("ignoring positional arguments", "error", argsErr,
					"readers", cfg.Readers, "writers", cfg.Writers)
			}
			return run(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		},
	}
	flags = config.RegisterFlags(cmd.Flags())
	return cmd
}

func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	runID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	return slog.New(handler).With("run_id", runID.String()), nil
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	observers := []library.Observer{metrics.New(reg)}
	if cfg.LogFormat == "console" {
		observers = append(observers, narrator.NewConsole(stdout))
	} else {
		observers = append(observers, narrator.New(logger))
	}
	var recorder *report.Recorder
	if cfg.ReportPath != "" {
		recorder = report.NewRecorder()
		observers = append(observers, recorder)
	}

	lib := library.New(
		library.WithMaxReaders(cfg.MaxReaders),
		library.WithObserver(library.Observers(observers...)),
	)

	logger.Info("setting up the library",
		"max_readers", cfg.MaxReaders,
		"readers", cfg.Readers,
		"writers", cfg.Writers,
	)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.StatusAddr != "" {
		srv := statusserver.New(cfg.StatusAddr, lib, reg, logger)
		g.Go(func() error { return srv.Run(gctx) })
	}

	clock := clockwork.NewRealClock()
	tasks := client.Tasks(lib, client.Options{
		Clock:   clock,
		Logger:  logger,
		MinHold: cfg.MinHold,
		MaxHold: cfg.MaxHold,
		Rest:    cfg.Rest,
	}, cfg.Readers, cfg.Writers)

	g.Go(func() error {
		for _, task := range tasks {
			g.Go(func() error { return task.Run(gctx) })
			select {
			case <-clock.After(cfg.LaunchInterval):
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	err := g.Wait()
	logger.Info("library closed", "state", lib.Snapshot())

	if recorder != nil {
		if saveErr := recorder.Save(cfg.ReportPath); saveErr != nil {
			err = errors.Join(err, saveErr)
		} else {
			logger.Info("timeline saved", "path", cfg.ReportPath, "events", len(recorder.Events()))
		}
	}
	return err
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("library failed", "error", err)
		os.Exit(1)
	}
}
