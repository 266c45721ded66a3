package plan

import (
	"strings"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/seq"
)

func applyStep(s *seq.Sequence[string], step Step, reg *Registry) (*seq.Sequence[string], error) {
	switch step.Op {
	case OpWhere:
		pred, err := reg.BuildPredicate(step.Args)
		if err != nil {
			return nil, err
		}
		return s.Where(pred), nil
	case OpSelect:
		fn, err := reg.BuildTransform(step.Args)
		if err != nil {
			return nil, err
		}
		return seq.Select(s, fn), nil
	case OpDistinct:
		if step.IgnoreCase {
			return seq.DistinctBy(s, strings.ToLower), nil
		}
		return seq.Distinct(s), nil
	case OpExcept:
		excluded := seq.FromSlice(step.Args)
		if step.IgnoreCase {
			return s.ExceptFunc(excluded, strings.EqualFold), nil
		}
		return seq.Except(s, excluded), nil
	case OpConcat:
		return s.Concat(seq.FromSlice(step.Args)), nil
	case OpDefaultIfEmpty:
		if len(step.Args) == 1 {
			return s.DefaultIfEmptyWith(step.Args[0]), nil
		}
		return s.DefaultIfEmpty(), nil
	default:
		return nil, errors.InvalidInput("op", "unknown step "+step.Op)
	}
}

// withField records the plan field an error came from.
func withField(err error, field string) error {
	return errors.Wrap(err).WithDetail("field", field)
}
