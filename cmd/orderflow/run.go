package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/MasterOfBinary/orderflow/batch"
	"github.com/MasterOfBinary/orderflow/config"
	"github.com/MasterOfBinary/orderflow/logger"
	"github.com/MasterOfBinary/orderflow/metrics"
	"github.com/MasterOfBinary/orderflow/pipeline"
	"github.com/MasterOfBinary/orderflow/sink"
	"github.com/MasterOfBinary/orderflow/telemetry"
)

func runPipeline(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath, opts.v)
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log := logger.New(cmd.ErrOrStderr(), level, logger.Format(cfg.Log.Format))

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Debug(fmt.Sprintf(format, args...))
	}))
	if err != nil {
		log.Warn("failed to set GOMAXPROCS", "error", err)
	}
	defer undo()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("shutting down tracer provider", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(cfg.Metrics.Namespace, reg)

	if cfg.Metrics.Addr != "" {
		serveCtx, stopServing := context.WithCancel(ctx)
		served := make(chan struct{})
		go func() {
			defer close(served)
			log.Info("serving metrics", "addr", cfg.Metrics.Addr)
			if err := metrics.ListenAndServe(serveCtx, cfg.Metrics.Addr, reg); err != nil {
				log.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			stopServing()
			<-served
		}()
	}

	out := cmd.OutOrStdout()
	stats := batch.NewBasicStatsCollector()

	c, err := pipeline.New(cfg,
		pipeline.WithSink(sink.Multi(
			sink.NewConsole(out),
			&sink.Log{Logger: log, Level: slog.LevelDebug},
		)),
		pipeline.WithLogger(log),
		pipeline.WithMetrics(m),
		pipeline.WithStats(stats),
		pipeline.WithTracerProvider(tp),
	)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Restaurant has started working")

	report, err := c.Run(ctx)

	s := stats.GetStats()
	log.Info("run finished",
		"report", report.String(),
		"average_batch_size", s.AverageBatchSize(),
		"average_batch_time", s.AverageBatchTime(),
	)
	if err != nil {
		return fmt.Errorf("pipeline stopped after %d deliveries: %w", report.Batches, err)
	}

	fmt.Fprintf(out, "\n%d deliveries completed successfully\n", report.Batches)
	return nil
}
