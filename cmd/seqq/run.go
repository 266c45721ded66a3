package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/seqkit/bootstrap"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/plan"
	"github.com/kbukum/seqkit/util"
)

type runOptions struct {
	plans       []string
	planDirs    []string
	configFile  string
	maxSize     string
	maxParallel int
	indent      bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [plan-name...]",
		Short: "Run query plans and print their results as JSON",
		Long: `Run query plans and print their results as JSON.

Plans come from --plan files ("-" reads standard input) or by name from
--plan-dir directories. A lines source with file "-" reads standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlans(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&opts.plans, "plan", "p", nil, "plan file to run (repeatable)")
	flags.StringSliceVar(&opts.planDirs, "plan-dir", []string{"."}, "directories searched for named plans")
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default: seqq.yml, config/config.yml, ...)")
	flags.StringVar(&opts.maxSize, "max-size", "", "cap on bytes read from a lines source (overrides input.max_size)")
	flags.IntVar(&opts.maxParallel, "max-parallel", 0, "plans run at once (0 = all)")
	flags.BoolVar(&opts.indent, "indent", false, "indent JSON output")
	return cmd
}

func runPlans(ctx context.Context, stdin io.Reader, stdout io.Writer, opts *runOptions, names []string) error {
	if len(opts.plans) == 0 && len(names) == 0 {
		return fmt.Errorf("no plans given: use --plan or name a plan")
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}
	if opts.maxSize != "" {
		if util.ParseSize(opts.maxSize, -1) < 0 {
			return fmt.Errorf("invalid --max-size %q", opts.maxSize)
		}
		cfg.Input.MaxSize = opts.maxSize
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	shutdown := observability.ShutdownFunc(func(context.Context) error { return nil })
	app.OnStart(func(ctx context.Context) error {
		var err error
		shutdown, err = observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{
			Name:        cfg.Name,
			Version:     cfg.Version,
			Environment: cfg.Environment,
		})
		return err
	})
	app.OnStop(func(ctx context.Context) error { return shutdown(ctx) })

	return app.RunTask(ctx, func(ctx context.Context) error {
		plans, err := loadPlans(opts, names)
		if err != nil {
			return err
		}

		logger.RegisterDefaults("plan")
		metrics, err := observability.NewMetrics(observability.Meter(appName))
		if err != nil {
			return err
		}
		runner := plan.NewRunner(
			plan.WithInput(plan.Input{Stdin: stdin, MaxSize: cfg.MaxInputBytes()}),
			plan.WithMetrics(metrics),
			plan.WithMaxParallel(opts.maxParallel),
		)

		if len(plans) == 1 {
			res, err := runner.Execute(ctx, plans[0])
			if err != nil {
				return err
			}
			return writeJSON(stdout, res, opts.indent)
		}

		results := runner.ExecuteAll(ctx, plans)
		if err := writeJSON(stdout, results, opts.indent); err != nil {
			return err
		}
		failed := 0
		for _, r := range results {
			if r.Error != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d plans failed", failed, len(results))
		}
		return nil
	})
}

func loadPlans(opts *runOptions, names []string) ([]*plan.Plan, error) {
	plans := make([]*plan.Plan, 0, len(opts.plans)+len(names))
	for _, path := range opts.plans {
		p, err := plan.LoadFile(path)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if len(names) > 0 {
		loader := plan.NewFileLoader(opts.planDirs...)
		for _, name := range names {
			p, err := loader.Load(name)
			if err != nil {
				return nil, err
			}
			plans = append(plans, p)
		}
	}
	return plans, nil
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
