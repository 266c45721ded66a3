package plan

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/kbukum/seqkit/validation"
)

var terminalOps = []string{
	OpCollect, OpCount, OpFirst, OpFirstOrDefault, OpElementAt, OpElementAtOrDefault,
	OpAny, OpAll, OpContains, OpSum, OpAverage, OpMin, OpMax, OpJoin, OpToMap,
}

// Validate checks a plan against its struct rules and the names and arities
// known to reg. All problems are reported together.
func Validate(p *Plan, reg *Registry) error {
	if err := validation.Validate(p); err != nil {
		return err
	}
	if reg == nil {
		reg = DefaultRegistry()
	}

	v := validation.New()
	validateSource(v, p.Source)
	for i, step := range p.Steps {
		validateStep(v, i, step, reg)
	}
	validateTerminal(v, p.Terminal, reg)
	return v.Err()
}

func validateSource(v *validation.Validator, src Source) {
	switch src.Kind {
	case SourceLines:
		v.Required("source.file", src.File)
	case SourceGenerate:
		v.Custom(finite(src.Seed), "source.seed", "must be a finite number")
		v.Custom(finite(src.Step), "source.step", "must be a finite number")
		v.Custom(finite(src.Limit), "source.limit", "must be a finite number")
		v.Custom(src.Step != 0, "source.step", "must not be zero")
		v.Custom(src.Step == 0 || (src.Seed+src.Step != src.Seed && src.Limit+src.Step != src.Limit),
			"source.step", "is too small to change seed or limit")
	}
}

func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

func stepField(i int, name string) string {
	return fmt.Sprintf("steps[%d].%s", i, name)
}

func validateStep(v *validation.Validator, i int, step Step, reg *Registry) {
	field := stepField(i, "args")
	switch step.Op {
	case OpWhere:
		validatePredicate(v, field, step.Args, reg)
	case OpSelect:
		validateTransform(v, field, step.Args, reg)
	case OpDistinct:
		v.ArgCount(field, step.Args, 0, 0)
	case OpDefaultIfEmpty:
		v.ArgCount(field, step.Args, 0, 1)
	}
	if step.IgnoreCase {
		v.Custom(step.Op == OpDistinct || step.Op == OpExcept, stepField(i, "ignore_case"),
			"only applies to distinct and except")
	}
}

func validateTerminal(v *validation.Validator, t Terminal, reg *Registry) {
	const field = "terminal.args"
	v.OneOf("terminal.op", t.Op, terminalOps)

	switch t.Op {
	case OpCollect, OpSum, OpAverage, OpMin, OpMax:
		v.ArgCount(field, t.Args, 0, 0)
	case OpCount, OpFirst, OpAny:
		if len(t.Args) > 0 {
			validatePredicate(v, field, t.Args, reg)
		}
	case OpAll:
		validatePredicate(v, field, t.Args, reg)
	case OpFirstOrDefault:
		v.ArgCount(field, t.Args, 1, -1)
		if len(t.Args) > 1 {
			validatePredicate(v, field, t.Args[1:], reg)
		}
	case OpElementAt:
		v.ArgCount(field, t.Args, 1, 1)
		validateIndex(v, field, t.Args)
	case OpElementAtOrDefault:
		v.ArgCount(field, t.Args, 2, 2)
		validateIndex(v, field, t.Args)
	case OpContains:
		v.ArgCount(field, t.Args, 1, 1)
	case OpJoin:
		v.ArgCount(field, t.Args, 0, 1)
	case OpToMap:
		if len(t.Args) > 0 {
			validateTransform(v, field, t.Args, reg)
		}
	}
}

func validateIndex(v *validation.Validator, field string, args []string) {
	if len(args) == 0 {
		return
	}
	_, err := cast.ToIntE(strings.TrimSpace(args[0]))
	v.Custom(err == nil, field, "index must be an integer")
}

func validatePredicate(v *validation.Validator, field string, args []string, reg *Registry) {
	if len(args) == 0 {
		v.AddError(field, "requires a predicate")
		return
	}
	name, params := args[0], args[1:]
	p, ok := reg.Predicate(name)
	if !ok {
		v.OneOf(field, name, reg.PredicateNames())
		return
	}
	v.ArgCount(field+"["+name+"]", params, p.Arity, p.Arity)
	if len(params) != p.Arity {
		return
	}
	switch name {
	case "match":
		v.Regexp(field, params[0])
	case "len_eq", "len_lt", "len_gt":
		_, err := cast.ToIntE(params[0])
		v.Custom(err == nil, field, name+" needs an integer")
	}
}

func validateTransform(v *validation.Validator, field string, args []string, reg *Registry) {
	if len(args) == 0 {
		v.AddError(field, "requires a transform")
		return
	}
	name, params := args[0], args[1:]
	t, ok := reg.Transform(name)
	if !ok {
		v.OneOf(field, name, reg.TransformNames())
		return
	}
	v.ArgCount(field+"["+name+"]", params, t.Arity, t.Arity)
	if name == "scale" && len(params) == 1 {
		_, err := cast.ToFloat64E(params[0])
		v.Custom(err == nil, field, "scale needs a number")
	}
}
