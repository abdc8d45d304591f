package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const wizardScopeName = "github.com/steinwurf/wafconf/wizard"

// Fetcher matches manifest.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, project string) ([]string, error)
}

// Runner matches the command executor used by the wizard.
type Runner interface {
	Run(ctx context.Context, command string) error
}

type instruments struct {
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

func newInstruments() *instruments {
	m := Meter(wizardScopeName)
	ops, _ := m.Int64Counter("wafconf.operations",
		metric.WithDescription("Manifest fetches and configure runs"),
	)
	dur, _ := m.Float64Histogram("wafconf.operation.duration",
		metric.WithDescription("Operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("wafconf.errors",
		metric.WithDescription("Failed manifest fetches and configure runs"),
	)
	return &instruments{tracer: Tracer(wizardScopeName), ops: ops, dur: dur, errs: errs}
}

func (in *instruments) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("wafconf.operation", name)}, attrs...)
	ctx, span := in.tracer.Start(ctx, name, trace.WithAttributes(all...))
	in.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

func (in *instruments) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	in.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		in.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

// InstrumentedFetcher wraps a Fetcher with a span and metrics per fetch.
type InstrumentedFetcher struct {
	inner Fetcher
	in    *instruments
}

// WrapFetcher returns f decorated with OTel instrumentation, or f itself
// when telemetry is disabled.
func WrapFetcher(f Fetcher) Fetcher {
	if !Enabled() || f == nil {
		return f
	}
	return &InstrumentedFetcher{inner: f, in: newInstruments()}
}

func (f *InstrumentedFetcher) Fetch(ctx context.Context, project string) ([]string, error) {
	attrs := []attribute.KeyValue{attribute.String("wafconf.project", project)}
	ctx, span, t := f.in.op(ctx, "manifest.fetch", attrs...)
	deps, err := f.inner.Fetch(ctx, project)
	span.SetAttributes(attribute.Int("wafconf.dependency.count", len(deps)))
	f.in.done(ctx, span, t, err, attrs...)
	return deps, err
}

// InstrumentedRunner wraps a Runner with a span and metrics per command.
type InstrumentedRunner struct {
	inner Runner
	in    *instruments
}

// WrapRunner returns r decorated with OTel instrumentation, or r itself
// when telemetry is disabled.
func WrapRunner(r Runner) Runner {
	if !Enabled() || r == nil {
		return r
	}
	return &InstrumentedRunner{inner: r, in: newInstruments()}
}

func (r *InstrumentedRunner) Run(ctx context.Context, command string) error {
	ctx, span, t := r.in.op(ctx, "configure.run")
	span.SetAttributes(attribute.String("wafconf.command", command))
	err := r.inner.Run(ctx, command)
	r.in.done(ctx, span, t, err)
	return err
}
