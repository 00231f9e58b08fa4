// Package telemetry records how long the stages of a ledger run take.
//
// A Collector travels in the context so that instrumented code does not need
// an extra parameter. When no collector is installed, FromContext hands out a
// no-op implementation and timing costs nothing.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "loader.load")
//	tokenize := timer.Child("parser.tokenize")
//	// ... work ...
//	tokenize.End()
//	timer.End()
//
//	collector.Report(os.Stderr, output.NewStyles(os.Stderr))
package telemetry

import (
	"context"
	"io"

	"github.com/robinvdvleuten/ledger/output"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector creates timers and reports what they measured.
type Collector interface {
	// Start begins timing an operation. The timer is nested under the
	// innermost timer started through Start that has not ended yet.
	Start(name string) Timer

	// Report writes the collected timings to w. styles may be nil for plain output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer measures a single operation.
type Timer interface {
	// End stops the timer. Calling End more than once keeps the first end time.
	End()

	// Child starts a timer nested under this one.
	Child(name string) Timer
}

// WithCollector returns a copy of ctx carrying collector.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext returns the collector stored in ctx, or a no-op collector.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// StartTimer is shorthand for FromContext(ctx).Start(name).
func StartTimer(ctx context.Context, name string) Timer {
	return FromContext(ctx).Start(name)
}
