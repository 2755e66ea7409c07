// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/geosparse/cholesky"
	"github.com/katalvlaran/geosparse/config"
	"github.com/katalvlaran/geosparse/logging"
	"github.com/katalvlaran/geosparse/sparse"
)

const tracerName = "geosparse.cli"

// app is the state shared by every subcommand of one invocation.
type app struct {
	cfgPath  string
	logLevel string
	trace    bool

	cfg      config.Config
	log      *slog.Logger
	runID    string
	reg      *prometheus.Registry
	metrics  *cholesky.Metrics
	tracer   trace.Tracer
	shutdown func(context.Context) error
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "geosparse",
		Short:         "Assemble and solve sparse finite-element systems",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.trace, "trace", false, "print OpenTelemetry spans to stderr")

	root.AddCommand(
		a.gridCmd(),
		a.convertCmd(),
		a.solveCmd(),
		a.spyCmd(),
		a.importColsCmd(),
		a.storeCmd(),
	)

	return root
}

// setup loads configuration, then builds the logger, metrics and tracer.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.Default()
	if a.cfgPath != "" {
		cfg, err := config.Load(a.cfgPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.trace {
		a.cfg.Trace.Enabled = true
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(a.cfg.Log.SlogLevel(), a.cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.runID = uuid.NewString()
	a.log = log.With("run", a.runID, "cmd", cmd.Name())

	if a.cfg.Metrics.Enabled {
		a.reg = prometheus.NewRegistry()
		a.metrics = cholesky.NewMetrics(a.reg)
	}

	a.shutdown = func(context.Context) error { return nil }
	if a.cfg.Trace.Enabled {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(cmd.ErrOrStderr()), stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
		otel.SetTracerProvider(tp)
		a.shutdown = tp.Shutdown
	}
	a.tracer = otel.Tracer(tracerName)
	a.log.Debug("configured", "config", a.cfgPath, "symmetry", a.cfg.Assembly.Symmetry,
		"strict", a.cfg.Assembly.Strict, "trace", a.cfg.Trace.Enabled, "metrics", a.cfg.Metrics.Enabled)

	return nil
}

// teardown flushes spans and prints metrics.
func (a *app) teardown(cmd *cobra.Command) error {
	var errs []error
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(context.WithoutCancel(cmd.Context())))
	}
	if a.reg != nil {
		errs = append(errs, writeMetrics(cmd.ErrOrStderr(), a.reg))
	}

	return errors.Join(errs...)
}

// writeMetrics dumps reg in the Prometheus text exposition format.
func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}

// stage runs fn inside a span named name.
func (a *app) stage(ctx context.Context, name string, fn func(ctx context.Context, span trace.Span) error) error {
	ctx, span := a.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("run", a.runID)))
	defer span.End()

	if err := fn(ctx, span); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// matrixOptions are the sparse options from the assembly section.
func (a *app) matrixOptions() []sparse.Option {
	return a.cfg.Assembly.SparseOptions(a.log)
}

// engineOptions are the cholesky options for this run.
func (a *app) engineOptions() []cholesky.Option {
	return []cholesky.Option{cholesky.WithLogger(a.log), cholesky.WithMetrics(a.metrics)}
}
