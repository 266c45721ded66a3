// Package bootstrap runs finite seqkit tasks with a uniform lifecycle.
//
// NewApp applies config defaults, validates the config, and initializes the
// global logger. RunTask runs start hooks, the task, then stop hooks, and
// cancels the task context on SIGINT or SIGTERM.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStart(setupTelemetry)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return runPlans(ctx)
//	})
package bootstrap
