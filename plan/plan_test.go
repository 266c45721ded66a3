package plan

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
)

func values(vs ...string) Source {
	return Source{Kind: SourceValues, Values: vs}
}

func step(op string, args ...string) Step {
	return Step{Op: op, Args: args}
}

func term(op string, args ...string) Terminal {
	return Terminal{Op: op, Args: args}
}

func newTestRunner(opts ...Option) *Runner {
	return NewRunner(append([]Option{WithLogger(logger.Nop())}, opts...)...)
}

func run(t *testing.T, p *Plan) *Result {
	t.Helper()
	res, err := newTestRunner().Execute(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestExecute_Terminals(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
		want any
	}{
		{
			name: "distinct where select collect",
			plan: Plan{
				Source: values("pear", "apple", "fig", "apple", "plum"),
				Steps: []Step{
					step(OpDistinct),
					step(OpWhere, "len_gt", "3"),
					step(OpSelect, "upper"),
				},
				Terminal: term(OpCollect),
			},
			want: []string{"PEAR", "APPLE", "PLUM"},
		},
		{
			name: "range sum",
			plan: Plan{Source: Source{Kind: SourceRange, Start: 1, Count: 100}, Terminal: term(OpSum)},
			want: 5050.0,
		},
		{
			name: "symmetric range sums to zero",
			plan: Plan{Source: Source{Kind: SourceRange, Start: -5, Count: 11}, Terminal: term(OpSum)},
			want: 0.0,
		},
		{
			name: "generate ascending",
			plan: Plan{Source: Source{Kind: SourceGenerate, Seed: 1, Step: 2, Limit: 9}, Terminal: term(OpCollect)},
			want: []string{"1", "3", "5", "7", "9"},
		},
		{
			name: "generate descending",
			plan: Plan{Source: Source{Kind: SourceGenerate, Seed: 10, Step: -3, Limit: 0}, Terminal: term(OpCollect)},
			want: []string{"10", "7", "4", "1"},
		},
		{
			name: "generate past float64 integer precision",
			plan: Plan{Source: Source{Kind: SourceGenerate, Seed: 1 << 53, Step: 2, Limit: 1<<53 + 6}, Terminal: term(OpCollect)},
			want: []string{"9007199254740992", "9007199254740994", "9007199254740996", "9007199254740998"},
		},
		{
			name: "average",
			plan: Plan{Source: values("0.25", "0.5", "1", "1.25"), Terminal: term(OpAverage)},
			want: 0.75,
		},
		{
			name: "scale then sum",
			plan: Plan{
				Source:   values("1", "2", "x"),
				Steps:    []Step{step(OpSelect, "scale", "2.5"), step(OpWhere, "ne", "x")},
				Terminal: term(OpSum),
			},
			want: 7.5,
		},
		{
			name: "except ignore case",
			plan: Plan{
				Source:   values("x", "a", "X", "e", "x", "i", "O", "u"),
				Steps:    []Step{{Op: OpExcept, Args: []string{"x", "o"}, IgnoreCase: true}},
				Terminal: term(OpCollect),
			},
			want: []string{"a", "e", "i", "u"},
		},
		{
			name: "except exact",
			plan: Plan{
				Source:   values("x", "a", "X"),
				Steps:    []Step{step(OpExcept, "x")},
				Terminal: term(OpCollect),
			},
			want: []string{"a", "X"},
		},
		{
			name: "distinct ignore case keeps first spelling",
			plan: Plan{
				Source:   values("Go", "go", "GO", "rust"),
				Steps:    []Step{{Op: OpDistinct, IgnoreCase: true}},
				Terminal: term(OpCollect),
			},
			want: []string{"Go", "rust"},
		},
		{
			name: "concat join",
			plan: Plan{
				Source:   values("Hello", ", "),
				Steps:    []Step{step(OpConcat, "world", "!")},
				Terminal: term(OpJoin, ""),
			},
			want: "Hello, world!",
		},
		{
			name: "join default separator",
			plan: Plan{Source: values("a", "b", "c"), Terminal: term(OpJoin)},
			want: "a,b,c",
		},
		{
			name: "default if empty",
			plan: Plan{
				Source:   values("a", "b"),
				Steps:    []Step{step(OpWhere, "eq", "z"), step(OpDefaultIfEmpty, "none")},
				Terminal: term(OpCollect),
			},
			want: []string{"none"},
		},
		{
			name: "default if empty keeps elements",
			plan: Plan{
				Source:   values("a", "b"),
				Steps:    []Step{step(OpDefaultIfEmpty)},
				Terminal: term(OpCollect),
			},
			want: []string{"a", "b"},
		},
		{
			name: "count",
			plan: Plan{Source: values("1", "5", "10", "50"), Terminal: term(OpCount)},
			want: 4,
		},
		{
			name: "count with numeric predicate",
			plan: Plan{Source: values("1", "5", "10", "50"), Terminal: term(OpCount, "ge", "10")},
			want: 2,
		},
		{
			name: "first",
			plan: Plan{Source: values("b", "a"), Terminal: term(OpFirst)},
			want: "b",
		},
		{
			name: "first where",
			plan: Plan{Source: values("apple", "banana", "blueberry"), Terminal: term(OpFirst, "prefix", "b")},
			want: "banana",
		},
		{
			name: "first or default on no match",
			plan: Plan{Source: values("1", "2", "3"), Terminal: term(OpFirstOrDefault, "-1", "gt", "5")},
			want: "-1",
		},
		{
			name: "first or default on empty",
			plan: Plan{Source: values(), Terminal: term(OpFirstOrDefault, "none")},
			want: "none",
		},
		{
			name: "element at",
			plan: Plan{Source: Source{Kind: SourceRange, Start: 0, Count: 5}, Terminal: term(OpElementAt, "2")},
			want: "2",
		},
		{
			name: "element at or default",
			plan: Plan{Source: values("a"), Terminal: term(OpElementAtOrDefault, "9", "none")},
			want: "none",
		},
		{
			name: "any",
			plan: Plan{Source: values("apple", "banana"), Terminal: term(OpAny, "match", "^b")},
			want: true,
		},
		{
			name: "any on empty",
			plan: Plan{Source: values(), Terminal: term(OpAny)},
			want: false,
		},
		{
			name: "all",
			plan: Plan{Source: values("apple", ""), Terminal: term(OpAll, "not_empty")},
			want: false,
		},
		{
			name: "all on empty",
			plan: Plan{Source: values(), Terminal: term(OpAll, "empty")},
			want: true,
		},
		{
			name: "contains",
			plan: Plan{Source: values("pear", "fig"), Terminal: term(OpContains, "fig")},
			want: true,
		},
		{
			name: "min numeric",
			plan: Plan{Source: values("10", "9", "100"), Terminal: term(OpMin)},
			want: "9",
		},
		{
			name: "max numeric",
			plan: Plan{Source: values("10", "9", "100"), Terminal: term(OpMax)},
			want: "100",
		},
		{
			name: "min strings",
			plan: Plan{Source: values("pear", "apple", "fig"), Terminal: term(OpMin)},
			want: "apple",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, &tt.plan)
			if diff := cmp.Diff(tt.want, res.Value); diff != "" {
				t.Errorf("unexpected value (-want +got):\n%s", diff)
			}
			if res.Op != tt.plan.Terminal.Op {
				t.Errorf("expected op %q, got %q", tt.plan.Terminal.Op, res.Op)
			}
		})
	}
}

func TestExecute_CollectEmptyIsNotNil(t *testing.T) {
	res := run(t, &Plan{Source: values(), Terminal: term(OpCollect)})
	data, err := json.Marshal(res.Value)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("expected empty JSON array, got %s", data)
	}
	if res.Count != 0 {
		t.Errorf("expected count 0, got %d", res.Count)
	}
}

func TestExecute_ToMap(t *testing.T) {
	res := run(t, &Plan{
		Source:   values("pear", "fig", "apple", "kiwi"),
		Terminal: term(OpToMap, "len"),
	})
	raw, ok := res.Value.(json.RawMessage)
	if !ok {
		t.Fatalf("expected raw JSON, got %T", res.Value)
	}
	var got map[string]string
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"3": "fig", "4": "pear", "5": "apple"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected map (-want +got):\n%s", diff)
	}
	if res.Count != 3 {
		t.Errorf("expected 3 keys, got %d", res.Count)
	}
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
		code errors.ErrorCode
	}{
		{
			name: "element at past the end",
			plan: Plan{Source: values("a"), Terminal: term(OpElementAt, "9")},
			code: errors.ErrCodeOutOfRange,
		},
		{
			name: "negative element index",
			plan: Plan{Source: values("a"), Terminal: term(OpElementAt, "-1")},
			code: errors.ErrCodeOutOfRange,
		},
		{
			name: "first of empty",
			plan: Plan{Source: values(), Terminal: term(OpFirst)},
			code: errors.ErrCodeInvalidOperation,
		},
		{
			name: "average of empty",
			plan: Plan{Source: values(), Terminal: term(OpAverage)},
			code: errors.ErrCodeInvalidOperation,
		},
		{
			name: "max of empty",
			plan: Plan{Source: values(), Terminal: term(OpMax)},
			code: errors.ErrCodeInvalidOperation,
		},
		{
			name: "sum of words",
			plan: Plan{Source: values("1", "two"), Terminal: term(OpSum)},
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "negative range count",
			plan: Plan{Source: Source{Kind: SourceRange, Count: -1}, Terminal: term(OpCount)},
			code: errors.ErrCodeInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestRunner().Execute(context.Background(), &tt.plan)
			if !errors.IsCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    Plan
		wantErr []string
	}{
		{
			name: "valid",
			plan: Plan{Source: values("a"), Steps: []Step{step(OpWhere, "eq", "a")}, Terminal: term(OpCount)},
		},
		{
			name:    "missing source kind",
			plan:    Plan{Terminal: term(OpCount)},
			wantErr: []string{"source.kind: is required"},
		},
		{
			name:    "unknown step op",
			plan:    Plan{Source: values(), Steps: []Step{step("sort")}, Terminal: term(OpCount)},
			wantErr: []string{"steps[0].op: must be one of"},
		},
		{
			name:    "unknown terminal",
			plan:    Plan{Source: values(), Terminal: term("reverse")},
			wantErr: []string{"terminal.op: must be one of"},
		},
		{
			name: "several problems at once",
			plan: Plan{
				Source: Source{Kind: SourceLines},
				Steps: []Step{
					step(OpWhere, "between", "1"),
					step(OpSelect, "scale", "lots"),
					step(OpDistinct, "extra"),
					{Op: OpConcat, IgnoreCase: true},
				},
				Terminal: term(OpElementAt, "first"),
			},
			wantErr: []string{
				"source.file: is required",
				"steps[0].args: must be one of",
				"steps[1].args: scale needs a number",
				"steps[2].args: takes exactly 0 argument(s)",
				"steps[3].ignore_case: only applies to distinct and except",
				"terminal.args: index must be an integer",
			},
		},
		{
			name:    "predicate arity",
			plan:    Plan{Source: values(), Terminal: term(OpAll, "eq")},
			wantErr: []string{"terminal.args[eq]: takes exactly 1 argument"},
		},
		{
			name:    "bad pattern",
			plan:    Plan{Source: values(), Terminal: term(OpAny, "match", "(")},
			wantErr: []string{"terminal.args"},
		},
		{
			name:    "zero generate step",
			plan:    Plan{Source: Source{Kind: SourceGenerate, Limit: 3}, Terminal: term(OpCount)},
			wantErr: []string{"source.step: must not be zero"},
		},
		{
			name:    "generate step lost in rounding",
			plan:    Plan{Source: Source{Kind: SourceGenerate, Seed: 1 << 53, Step: 1, Limit: 1<<53 + 8}, Terminal: term(OpCount)},
			wantErr: []string{"source.step: is too small to change seed or limit"},
		},
		{
			name:    "generate limit not finite",
			plan:    Plan{Source: Source{Kind: SourceGenerate, Step: 1, Limit: math.Inf(1)}, Terminal: term(OpCount)},
			wantErr: []string{"source.limit: must be a finite number"},
		},
		{
			name:    "all needs a predicate",
			plan:    Plan{Source: values(), Terminal: term(OpAll)},
			wantErr: []string{"terminal.args: requires a predicate"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.plan, nil)
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected %q in %q", want, err.Error())
				}
			}
		})
	}
}

func TestCompile_Deferred(t *testing.T) {
	s, err := Compile(&Plan{
		Source:   values("a", "b", "c"),
		Steps:    []Step{step(OpSelect, "upper")},
		Terminal: term(OpCollect),
	}, Input{})
	if err != nil {
		t.Fatal(err)
	}
	for run := 0; run < 2; run++ {
		got, err := s.ToSlice()
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"A", "B", "C"}, got); diff != "" {
			t.Errorf("run %d (-want +got):\n%s", run, diff)
		}
	}
}

func TestCompile_NilPlan(t *testing.T) {
	if _, err := Compile(nil, Input{}); !errors.IsCode(err, errors.ErrCodeNullArgument) {
		t.Errorf("expected NULL_ARGUMENT, got %v", err)
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"9", "10", -1},
		{"10", "9", 1},
		{"1.0", "1", 0},
		{" 2 ", "2", 0},
		{"9", "10a", 1},
		{"apple", "banana", -1},
	}
	for _, tt := range tests {
		if got := compareValues(tt.a, tt.b); got != tt.want {
			t.Errorf("compareValues(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
