package plan

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
)

// Result holds the outcome of one plan run.
type Result struct {
	Plan     string        `json:"plan"`
	RunID    string        `json:"run_id"`
	Op       string        `json:"op"`
	Value    any           `json:"value,omitempty"`
	Count    int           `json:"count"`
	Duration time.Duration `json:"-"`
	// Error is set by ExecuteAll for failed runs.
	Error *errors.AppError `json:"error,omitempty"`
}

// Runner compiles and executes plans.
type Runner struct {
	compiler    *Compiler
	log         *logger.Logger
	metrics     *observability.Metrics
	maxParallel int
}

// Option configures a Runner.
type Option func(*Runner)

// WithInput sets where lines sources are read from.
func WithInput(in Input) Option {
	return func(r *Runner) { r.compiler.Input = in }
}

// WithRegistry sets the predicates and transforms available to plans.
func WithRegistry(reg *Registry) Option {
	return func(r *Runner) { r.compiler.Registry = reg }
}

// WithLogger sets the runner logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithMetrics enables metric recording.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithMaxParallel limits concurrent runs in ExecuteAll (0 = unlimited).
func WithMaxParallel(n int) Option {
	return func(r *Runner) { r.maxParallel = n }
}

// NewRunner creates a runner using the default registry and the "plan"
// component logger.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		compiler: &Compiler{Registry: DefaultRegistry()},
		log:      logger.Get("plan"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute compiles p and runs its terminal operation.
func (r *Runner) Execute(ctx context.Context, p *Plan) (*Result, error) {
	if p == nil {
		return nil, errors.NullArgument("plan")
	}
	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)
	log := r.log.WithContext(ctx).WithFields(map[string]interface{}{
		logger.FieldPlan:     p.DisplayName(),
		logger.FieldTerminal: p.Terminal.Op,
	})

	rc := observability.NewRunContext(runID, p.Terminal.Op, r.metrics)
	ctx, span := rc.StartSpan(ctx, observability.SpanPlanExecute)

	result, err := r.execute(ctx, p)
	count := 0
	if result != nil {
		result.RunID = runID
		result.Duration = rc.Duration()
		count = result.Count
	}
	rc.End(ctx, span, count, err)

	if err != nil {
		fields := logger.MergeWithError(logger.DurationFields(p.Terminal.Op, rc.Duration()), err)
		fields[logger.FieldErrorCode] = string(errors.Wrap(err).Code)
		log.Error("plan failed", fields)
		return nil, err
	}
	log.Info("plan finished", logger.Fields(
		logger.FieldCount, result.Count,
		logger.FieldDuration, result.Duration.Milliseconds(),
	))
	return result, nil
}

func (r *Runner) execute(ctx context.Context, p *Plan) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compileCtx, span := observability.StartSpan(ctx, observability.SpanPlanCompile)
	observability.SetSpanAttribute(compileCtx, observability.AttrSourceKind, p.Source.Kind)
	observability.SetSpanAttribute(compileCtx, observability.AttrStepCount, len(p.Steps))
	q, err := r.compiler.compile(compileCtx, p)
	if err != nil {
		observability.SetSpanError(compileCtx, err)
	}
	span.End()
	if err != nil {
		return nil, err
	}

	if q.inputCount >= 0 && r.metrics != nil {
		r.metrics.RecordInput(ctx, p.Source.Kind, q.inputCount)
	}
	r.log.WithContext(ctx).Debug("plan compiled", logger.Fields(
		logger.FieldSource, p.Source.Kind,
		"steps", len(p.Steps),
	))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, n, err := evaluate(q.seq, p.Terminal, r.compiler.registry())
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	return &Result{
		Plan:  p.DisplayName(),
		Op:    p.Terminal.Op,
		Value: value,
		Count: n,
	}, nil
}

// ExecuteAll runs plans concurrently and returns one result per plan, in
// order. Failed runs carry their error in Result.Error.
// Plans reading stdin each see the full input, which is read once up front.
func (r *Runner) ExecuteAll(ctx context.Context, plans []*Plan) []*Result {
	results := make([]*Result, len(plans))
	if stdinReaders(plans) > 1 {
		r = r.withBufferedStdin()
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.concurrency(len(plans)))

	for i, p := range plans {
		wg.Add(1)
		go func(i int, p *Plan) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := r.Execute(ctx, p)
			if err != nil {
				res = &Result{Error: errors.Wrap(err)}
				if p != nil {
					res.Plan, res.Op = p.DisplayName(), p.Terminal.Op
				}
			}
			results[i] = res
		}(i, p)
	}

	wg.Wait()
	return results
}

func stdinReaders(plans []*Plan) int {
	n := 0
	for _, p := range plans {
		if p != nil && p.Source.Kind == SourceLines && p.Source.File == StdinFile {
			n++
		}
	}
	return n
}

// withBufferedStdin returns a copy of r whose plans share one read of stdin.
func (r *Runner) withBufferedStdin() *Runner {
	out := *r
	out.compiler = &Compiler{
		Registry: r.compiler.Registry,
		Input:    r.compiler.Input.bufferStdin(),
	}
	return &out
}

func (r *Runner) concurrency(n int) int {
	if n == 0 {
		return 1
	}
	if r.maxParallel <= 0 || r.maxParallel > n {
		return n
	}
	return r.maxParallel
}
