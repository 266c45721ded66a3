package plan

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cast"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/seq"
)

// defaultJoinSeparator is used by join without arguments.
const defaultJoinSeparator = ","

// evaluate runs the terminal operation and returns its value and the number of
// values it produced.
func evaluate(s *seq.Sequence[string], t Terminal, reg *Registry) (any, int, error) {
	switch t.Op {
	case OpCollect:
		values, err := s.ToSlice()
		if err != nil {
			return nil, 0, err
		}
		if values == nil {
			values = []string{}
		}
		return values, len(values), nil

	case OpCount:
		var (
			n   int
			err error
		)
		if len(t.Args) == 0 {
			n, err = s.Count()
		} else {
			pred, perr := reg.BuildPredicate(t.Args)
			if perr != nil {
				return nil, 0, perr
			}
			n, err = s.CountWhere(pred)
		}
		return scalar(n, err)

	case OpFirst:
		if len(t.Args) == 0 {
			return scalar(s.First())
		}
		pred, err := reg.BuildPredicate(t.Args)
		if err != nil {
			return nil, 0, err
		}
		return scalar(s.FirstWhere(pred))

	case OpFirstOrDefault:
		def := t.Args[0]
		if len(t.Args) == 1 {
			return scalar(s.FirstOrDefault(def))
		}
		pred, err := reg.BuildPredicate(t.Args[1:])
		if err != nil {
			return nil, 0, err
		}
		return scalar(s.FirstWhereOrDefault(pred, def))

	case OpElementAt:
		index, err := indexArg(t.Args)
		if err != nil {
			return nil, 0, err
		}
		return scalar(s.ElementAt(index))

	case OpElementAtOrDefault:
		index, err := indexArg(t.Args)
		if err != nil {
			return nil, 0, err
		}
		return scalar(s.ElementAtOrDefault(index, t.Args[1]))

	case OpAny:
		if len(t.Args) == 0 {
			return scalar(s.Any())
		}
		pred, err := reg.BuildPredicate(t.Args)
		if err != nil {
			return nil, 0, err
		}
		return scalar(s.AnyMatch(pred))

	case OpAll:
		pred, err := reg.BuildPredicate(t.Args)
		if err != nil {
			return nil, 0, err
		}
		return scalar(s.All(pred))

	case OpContains:
		return scalar(seq.Contains(s, t.Args[0]))

	case OpSum:
		p := &numberParser{}
		total, err := seq.Sum(s, p.parse)
		return numeric(total, err, p)

	case OpAverage:
		p := &numberParser{}
		avg, err := seq.Average(s, p.parse)
		return numeric(avg, err, p)

	case OpMin:
		return scalar(s.Fold(func(a, b string) string {
			if compareValues(b, a) < 0 {
				return b
			}
			return a
		}))

	case OpMax:
		return scalar(s.Fold(func(a, b string) string {
			if compareValues(b, a) > 0 {
				return b
			}
			return a
		}))

	case OpJoin:
		sep := defaultJoinSeparator
		if len(t.Args) == 1 {
			sep = t.Args[0]
		}
		return scalar(join(s, sep))

	case OpToMap:
		return toMap(s, t.Args, reg)

	default:
		return nil, 0, errors.InvalidInput("terminal.op", "unknown terminal "+t.Op)
	}
}

func scalar[V any](v V, err error) (any, int, error) {
	if err != nil {
		return nil, 0, err
	}
	return v, 1, nil
}

func indexArg(args []string) (int, error) {
	index, err := cast.ToIntE(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, errors.InvalidInput("terminal.args", "index must be an integer").WithCause(err)
	}
	return index, nil
}

// numberParser converts elements for sum and average, keeping the first
// element that is not a number.
type numberParser struct {
	bad   string
	found bool
}

func (p *numberParser) parse(v string) float64 {
	n, ok := parseNumber(v)
	if !ok && !p.found {
		p.bad, p.found = v, true
	}
	return n
}

func numeric(v float64, err error, p *numberParser) (any, int, error) {
	if err != nil {
		return nil, 0, err
	}
	if p.found {
		return nil, 0, errors.InvalidInput("element", "not a number: "+p.bad)
	}
	return v, 1, nil
}

type joinState struct {
	b     strings.Builder
	count int
}

func join(s *seq.Sequence[string], sep string) (string, error) {
	return seq.AggregateSelect(s, &joinState{},
		func(acc *joinState, v string) *joinState {
			if acc.count > 0 {
				acc.b.WriteString(sep)
			}
			acc.b.WriteString(v)
			acc.count++
			return acc
		},
		func(acc *joinState) string { return acc.b.String() },
	)
}

// toMap indexes elements by key, which is the element itself or the result
// of the transform named in args. Keys come out in ascending order.
func toMap(s *seq.Sequence[string], args []string, reg *Registry) (any, int, error) {
	key := func(v string) string { return v }
	if len(args) > 0 {
		fn, err := reg.BuildTransform(args)
		if err != nil {
			return nil, 0, err
		}
		key = fn
	}
	tree, err := seq.ToSortedMap(s, key)
	if err != nil {
		return nil, 0, err
	}
	data, err := tree.ToJSON()
	if err != nil {
		return nil, 0, errors.Internal(err)
	}
	return json.RawMessage(data), tree.Size(), nil
}
