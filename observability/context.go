package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/seqkit/errors"
)

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RunContext holds observability state for one plan run.
type RunContext struct {
	RunID     string
	Terminal  string
	StartTime time.Time
	Metrics   *Metrics
}

// NewRunContext creates a run context.
// If metrics is nil, metric recording is silently skipped.
func NewRunContext(runID, terminal string, metrics *Metrics) *RunContext {
	return &RunContext{
		RunID:     runID,
		Terminal:  terminal,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

type runContextKey struct{}

// WithRunContext stores a RunContext in the context.
func WithRunContext(ctx context.Context, rc *RunContext) context.Context {
	return context.WithValue(ctx, runContextKey{}, rc)
}

// RunContextFromContext retrieves the RunContext from context, or nil.
func RunContextFromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runContextKey{}).(*RunContext); ok {
		return rc
	}
	return nil
}

// StartSpan starts a traced span for the run and records the run start metric.
func (rc *RunContext) StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, spanName)
	span.SetAttributes(
		attribute.String(AttrRunID, rc.RunID),
		attribute.String(AttrTerminal, rc.Terminal),
	)

	if rc.Metrics != nil {
		rc.Metrics.RecordRunStart(ctx)
	}
	return WithRunContext(ctx, rc), span
}

// End ends the span and records run metrics. resultCount is the number of
// values the terminal operation produced; it is ignored when err is set.
func (rc *RunContext) End(ctx context.Context, span trace.Span, resultCount int, err error) {
	duration := time.Since(rc.StartTime)
	status := StatusOK

	if err != nil {
		status = StatusError
		code := string(errors.Wrap(err).Code)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(
			attribute.String(AttrErrorCode, code),
			attribute.String(AttrErrorMessage, err.Error()),
		)
		if rc.Metrics != nil {
			rc.Metrics.RecordError(ctx, code, "plan")
		}
	} else {
		span.SetAttributes(attribute.Int(AttrResultCount, resultCount))
		if rc.Metrics != nil {
			rc.Metrics.RecordResultCount(ctx, rc.Terminal, resultCount)
		}
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if rc.Metrics != nil {
		rc.Metrics.RecordRunEnd(ctx, rc.Terminal, status, duration)
	}
}

// Duration returns the elapsed time since the run started.
func (rc *RunContext) Duration() time.Duration {
	return time.Since(rc.StartTime)
}
