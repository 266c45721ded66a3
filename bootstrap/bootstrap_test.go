package bootstrap

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/kbukum/seqkit/config"
	"github.com/kbukum/seqkit/logger"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(newTestConfig("test-task", "1.0.0"), append([]Option{WithLogger(logger.Nop())}, opts...)...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	defer logger.SetGlobalLogger(nil)
	cfg := newTestConfig("test-svc", "1.0.0")
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Logger == nil || app.Logger != logger.GetGlobalLogger() {
		t.Error("expected the global logger to be initialized from config")
	}
	if app.Cfg.Logging.Level != "info" {
		t.Errorf("expected defaults to be applied, got level %q", app.Cfg.Logging.Level)
	}
	if app.gracefulTimeout != defaultGracefulTimeout {
		t.Errorf("expected default timeout, got %v", app.gracefulTimeout)
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{
		ServiceConfig: config.ServiceConfig{Environment: "development"},
	}
	if _, err := NewApp(cfg); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestNewAppWithOptions(t *testing.T) {
	log := logger.Nop()
	app, err := NewApp(newTestConfig("test", "1.0"),
		WithGracefulTimeout(30*time.Second),
		WithLogger(log),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.gracefulTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", app.gracefulTimeout)
	}
	if app.Logger != log {
		t.Error("expected custom logger")
	}
}

func TestRunTaskSuccess(t *testing.T) {
	app := newTestApp(t)
	ran := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("expected task to run")
	}
}

func TestRunTaskError(t *testing.T) {
	app := newTestApp(t)
	want := errors.New("task failed")
	if err := app.RunTask(context.Background(), func(ctx context.Context) error { return want }); !errors.Is(err, want) {
		t.Errorf("expected task error, got %v", err)
	}
}

func TestRunTaskCancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := app.RunTask(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunTaskSignalCancelsTask(t *testing.T) {
	app := newTestApp(t)
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		if err := syscall.Kill(os.Getpid(), syscall.SIGINT); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return errors.New("task context not canceled by SIGINT")
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunTaskHookOrder(t *testing.T) {
	app := newTestApp(t)
	var order []string
	record := func(name string) Hook {
		return func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}
	}
	app.OnStart(record("start-1"), record("start-2"))
	app.OnStop(record("stop"))

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"start-1", "start-2", "task", "stop"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("step %d: expected %q, got %q", i, want[i], order[i])
		}
	}
}

func TestRunTaskStartHookErrorSkipsTask(t *testing.T) {
	app := newTestApp(t)
	app.OnStart(func(ctx context.Context) error { return errors.New("no telemetry") })

	ran := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err == nil {
		t.Fatal("expected start hook error")
	}
	if ran {
		t.Error("task should not run after a start hook failure")
	}
}

func TestRunTaskStopHooksRunAfterFailure(t *testing.T) {
	app := newTestApp(t)
	stopped := false
	app.OnStop(func(ctx context.Context) error {
		stopped = true
		return nil
	})

	_ = app.RunTask(context.Background(), func(ctx context.Context) error { return errors.New("boom") })
	if !stopped {
		t.Error("expected stop hooks to run after task failure")
	}
}

func TestRunTaskStopHookError(t *testing.T) {
	app := newTestApp(t)
	app.OnStop(func(ctx context.Context) error { return errors.New("flush failed") })

	if err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil }); err == nil {
		t.Error("expected stop hook error")
	}

	taskErr := errors.New("task failed")
	if err := app.RunTask(context.Background(), func(ctx context.Context) error { return taskErr }); !errors.Is(err, taskErr) {
		t.Errorf("expected task error to take precedence, got %v", err)
	}
}

func TestStopHookDeadline(t *testing.T) {
	app := newTestApp(t, WithGracefulTimeout(time.Second))
	var deadline time.Time
	app.OnStop(func(ctx context.Context) error {
		deadline, _ = ctx.Deadline()
		return nil
	})
	if err := app.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if deadline.IsZero() || time.Until(deadline) > time.Second {
		t.Errorf("expected stop hooks to run under the graceful timeout, got %v", deadline)
	}
}

func TestHookErrorStopsExecution(t *testing.T) {
	second := false
	err := runHooks(context.Background(), []Hook{
		func(ctx context.Context) error { return errors.New("first") },
		func(ctx context.Context) error { second = true; return nil },
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if second {
		t.Error("expected second hook to be skipped")
	}
}
