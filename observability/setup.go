package observability

import (
	"context"
	stderrors "errors"
)

// ShutdownFunc flushes and stops the providers installed by Setup.
type ShutdownFunc func(context.Context) error

// Setup installs OTLP tracer and meter providers when cfg.Enabled is set.
// Otherwise it leaves the global no-op providers in place and returns a
// shutdown function that does nothing.
func Setup(ctx context.Context, cfg Config, info ServiceInfo) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := InitTracer(ctx, cfg, info)
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, cfg, info)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
