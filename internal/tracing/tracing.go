// Package tracing sets up optional OpenTelemetry tracing for CLI commands.
//
// Tracing is off by default. When enabled, spans are exported either as
// JSON to a file or stderr (stdout exporter), or to an OTLP collector over
// gRPC.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/lexicon-lang/lexicon/internal/log"
)

// InstrumentationName identifies lexicon's tracer.
const InstrumentationName = "github.com/lexicon-lang/lexicon"

// Exporter names.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Config selects the span exporter.
type Config struct {
	Enabled bool `mapstructure:"enabled"`
	// Exporter is stdout or otlp.
	Exporter string `mapstructure:"exporter"`
	// Endpoint is the OTLP gRPC collector address, host:port.
	Endpoint string `mapstructure:"endpoint"`
	// File receives stdout exporter output. Empty means stderr.
	File string `mapstructure:"file"`
}

// Validate checks the exporter settings of an enabled config.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch strings.ToLower(c.Exporter) {
	case ExporterStdout:
		return nil
	case ExporterOTLP:
		if c.Endpoint == "" {
			return errors.New("endpoint is required for the otlp exporter")
		}
		return nil
	default:
		return fmt.Errorf("unknown exporter %q (want stdout or otlp)", c.Exporter)
	}
}

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(context.Context) error

// Init installs the global tracer provider. A disabled config installs a
// no-op provider so callers can start spans unconditionally.
func Init(ctx context.Context, cfg Config, stderr io.Writer) (ShutdownFunc, error) {
	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		exp     sdktrace.SpanExporter
		closers []io.Closer
		err     error
	)
	switch strings.ToLower(cfg.Exporter) {
	case ExporterOTLP:
		exp, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
	default:
		w := stderr
		if cfg.File != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
				return nil, fmt.Errorf("creating trace directory: %w", err)
			}
			f, ferr := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // path comes from user config
			if ferr != nil {
				return nil, fmt.Errorf("opening trace file: %w", ferr)
			}
			closers = append(closers, f)
			w = f
		}
		exp, err = stdouttrace.New(stdouttrace.WithWriter(w))
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s trace exporter: %w", cfg.Exporter, err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	log.Debug(log.CatConfig, "Tracing enabled", "exporter", cfg.Exporter, "endpoint", cfg.Endpoint, "file", cfg.File)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		for _, c := range closers {
			err = errors.Join(err, c.Close())
		}
		otel.SetTracerProvider(noop.NewTracerProvider())
		return err
	}, nil
}

// Tracer returns lexicon's tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// Start begins a span named name as a child of any span in ctx.
func Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// End records err, if any, on span and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
