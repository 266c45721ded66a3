package plan

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
)

func linesPlan(file string, terminal Terminal) *Plan {
	return &Plan{Source: Source{Kind: SourceLines, File: file}, Terminal: terminal}
}

func TestExecute_LinesFromStdin(t *testing.T) {
	r := newTestRunner(WithInput(Input{Stdin: strings.NewReader("b\r\n  a  \nc\x07\n")}))
	res, err := r.Execute(context.Background(), linesPlan(StdinFile, term(OpCollect)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, res.Value); diff != "" {
		t.Errorf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestExecute_LinesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "numbers.txt")
	if err := os.WriteFile(path, []byte("1\n2\n3\n4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := newTestRunner().Execute(context.Background(), linesPlan(path, term(OpAverage)))
	if err != nil {
		t.Fatal(err)
	}
	if res.Value != 2.5 {
		t.Errorf("expected 2.5, got %v", res.Value)
	}
}

func TestExecute_LinesCustomOpen(t *testing.T) {
	var opened string
	in := Input{Open: func(name string) (io.ReadCloser, error) {
		opened = name
		return io.NopCloser(strings.NewReader("x\ny\n")), nil
	}}
	res, err := newTestRunner(WithInput(in)).Execute(context.Background(), linesPlan("data.txt", term(OpCount)))
	if err != nil {
		t.Fatal(err)
	}
	if opened != "data.txt" || res.Value != 2 {
		t.Errorf("expected 2 lines from data.txt, got %v from %q", res.Value, opened)
	}
}

func TestExecute_LinesMissingFile(t *testing.T) {
	_, err := newTestRunner().Execute(context.Background(),
		linesPlan(filepath.Join(t.TempDir(), "missing.txt"), term(OpCount)))
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestExecute_LinesMaxSize(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"within limit", "abc\nde\n", false},
		{"exactly at limit", "abcdefg\n", false},
		{"over limit", "abcdefgh\n", true},
		{"long single line", strings.Repeat("z", 20), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner(WithInput(Input{Stdin: strings.NewReader(tt.data), MaxSize: 8}))
			_, err := r.Execute(context.Background(), linesPlan(StdinFile, term(OpCount)))
			if tt.wantErr != (err != nil) {
				t.Errorf("wantErr %v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.IsCode(err, errors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestExecute_NilPlan(t *testing.T) {
	if _, err := newTestRunner().Execute(context.Background(), nil); !errors.IsCode(err, errors.ErrCodeNullArgument) {
		t.Errorf("expected NULL_ARGUMENT, got %v", err)
	}
}

func TestExecute_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRunner().Execute(ctx, &Plan{Source: values("a"), Terminal: term(OpCount)})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExecute_DeadlineStopsLongSource(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	p := &Plan{Source: Source{Kind: SourceGenerate, Step: 1, Limit: 1e15}, Terminal: term(OpCount)}

	done := make(chan error, 1)
	go func() {
		_, err := newTestRunner().Execute(ctx, p)
		done <- err
	}()
	select {
	case err := <-done:
		if !stderrors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("plan kept running after its deadline")
	}
}

func TestExecute_ResultMetadata(t *testing.T) {
	res := run(t, &Plan{Name: "vowels", Source: values("a", "e"), Terminal: term(OpCount)})
	if res.Plan != "vowels" {
		t.Errorf("expected plan name, got %q", res.Plan)
	}
	if _, err := uuid.Parse(res.RunID); err != nil {
		t.Errorf("expected a UUID run id, got %q", res.RunID)
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"value":2`)) {
		t.Errorf("unexpected JSON %s", data)
	}
}

func TestExecute_Logging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "seqq", &buf)
	r := NewRunner(WithLogger(log))

	if _, err := r.Execute(context.Background(), &Plan{Name: "ok", Source: values("a"), Terminal: term(OpCount)}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Execute(context.Background(), &Plan{Name: "bad", Source: values(), Terminal: term(OpFirst)}); err == nil {
		t.Fatal("expected an error")
	}

	var lines []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("decoding %q: %v", line, err)
		}
		lines = append(lines, m)
	}
	last := lines[len(lines)-1]
	if last["message"] != "plan failed" || last[logger.FieldPlan] != "bad" {
		t.Errorf("unexpected failure log %v", last)
	}
	if last[logger.FieldErrorCode] != string(errors.ErrCodeInvalidOperation) {
		t.Errorf("expected error code in log, got %v", last[logger.FieldErrorCode])
	}
	if last[logger.FieldRunID] == nil {
		t.Error("expected run id in log")
	}

	var finished bool
	for _, m := range lines {
		if m["message"] == "plan finished" && m[logger.FieldPlan] == "ok" {
			finished = true
		}
	}
	if !finished {
		t.Errorf("expected a plan finished line, got %v", lines)
	}
}

func TestExecute_Tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	}()

	res := run(t, &Plan{Source: values("a", "b"), Steps: []Step{step(OpDistinct)}, Terminal: term(OpCollect)})

	spans := exporter.GetSpans()
	names := map[string]tracetest.SpanStub{}
	for _, s := range spans {
		names[s.Name] = s
	}
	exec, ok := names[observability.SpanPlanExecute]
	if !ok {
		t.Fatalf("expected %s span, got %v", observability.SpanPlanExecute, spans)
	}
	compile, ok := names[observability.SpanPlanCompile]
	if !ok {
		t.Fatalf("expected %s span", observability.SpanPlanCompile)
	}
	if compile.Parent.SpanID() != exec.SpanContext.SpanID() {
		t.Error("expected compile span to be a child of the execute span")
	}
	for _, kv := range exec.Attributes {
		if string(kv.Key) == observability.AttrRunID && kv.Value.AsString() != res.RunID {
			t.Errorf("span run id %q does not match result %q", kv.Value.AsString(), res.RunID)
		}
	}
}

func TestExecute_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRunner(WithMetrics(metrics))
	ctx := context.Background()
	if _, err := r.Execute(ctx, &Plan{Source: values("a", "b", "c"), Terminal: term(OpCount)}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Execute(ctx, &Plan{Source: values(), Terminal: term(OpFirst)}); err == nil {
		t.Fatal("expected an error")
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}
	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	want := map[string]int64{
		"seqkit.run.total":      2,
		"seqkit.run.active":     0,
		"seqkit.input.elements": 3,
		"seqkit.error.total":    1,
	}
	if diff := cmp.Diff(want, sums); diff != "" {
		t.Errorf("unexpected metrics (-want +got):\n%s", diff)
	}
}

func TestExecuteAll(t *testing.T) {
	plans := []*Plan{
		{Name: "sum", Source: Source{Kind: SourceRange, Start: 1, Count: 10}, Terminal: term(OpSum)},
		{Name: "empty-first", Source: values(), Terminal: term(OpFirst)},
		nil,
		{Name: "count", Source: values("a", "b"), Terminal: term(OpCount)},
	}
	results := newTestRunner(WithMaxParallel(2)).ExecuteAll(context.Background(), plans)
	if len(results) != len(plans) {
		t.Fatalf("expected %d results, got %d", len(plans), len(results))
	}
	if results[0].Value != 55.0 || results[0].Error != nil {
		t.Errorf("unexpected sum result %+v", results[0])
	}
	if results[1].Error == nil || results[1].Error.Code != errors.ErrCodeInvalidOperation {
		t.Errorf("expected INVALID_OPERATION, got %+v", results[1])
	}
	if results[1].Plan != "empty-first" {
		t.Errorf("expected failed result to keep its plan name, got %q", results[1].Plan)
	}
	if results[2].Error == nil || results[2].Error.Code != errors.ErrCodeNullArgument {
		t.Errorf("expected NULL_ARGUMENT for nil plan, got %+v", results[2])
	}
	if results[3].Value != 2 {
		t.Errorf("unexpected count result %+v", results[3])
	}
}

func TestExecuteAll_SharesStdin(t *testing.T) {
	plans := []*Plan{
		linesPlan(StdinFile, term(OpCount)),
		linesPlan(StdinFile, term(OpCollect)),
		linesPlan(StdinFile, term(OpFirst)),
	}
	r := newTestRunner(WithInput(Input{Stdin: strings.NewReader("x\ny\nz\n")}))
	results := r.ExecuteAll(context.Background(), plans)
	for i, res := range results {
		if res.Error != nil {
			t.Fatalf("plan %d failed: %v", i, res.Error)
		}
	}
	if results[0].Value != 3 {
		t.Errorf("expected every plan to see all lines, got count %v", results[0].Value)
	}
	if diff := cmp.Diff([]string{"x", "y", "z"}, results[1].Value); diff != "" {
		t.Errorf("unexpected lines (-want +got):\n%s", diff)
	}
	if results[2].Value != "x" {
		t.Errorf("unexpected first line %v", results[2].Value)
	}
}

func TestExecuteAll_SharedStdinKeepsSizeLimit(t *testing.T) {
	plans := []*Plan{linesPlan(StdinFile, term(OpCount)), linesPlan(StdinFile, term(OpCount))}
	r := newTestRunner(WithInput(Input{Stdin: strings.NewReader("abcdef\n"), MaxSize: 4}))
	for i, res := range r.ExecuteAll(context.Background(), plans) {
		if res.Error == nil || res.Error.Code != errors.ErrCodeInvalidInput {
			t.Errorf("plan %d: expected INVALID_INPUT, got %+v", i, res)
		}
	}
}

func TestExecuteAll_Empty(t *testing.T) {
	if results := newTestRunner().ExecuteAll(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestRunner_Concurrency(t *testing.T) {
	tests := []struct {
		max, n, want int
	}{
		{0, 5, 5},
		{2, 5, 2},
		{10, 5, 5},
		{3, 0, 1},
	}
	for _, tt := range tests {
		r := newTestRunner(WithMaxParallel(tt.max))
		if got := r.concurrency(tt.n); got != tt.want {
			t.Errorf("concurrency(max=%d, n=%d) = %d, want %d", tt.max, tt.n, got, tt.want)
		}
	}
}
