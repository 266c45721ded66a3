package plan

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cast"

	"github.com/kbukum/seqkit/errors"
)

// Predicate builds an element test from its parameters.
type Predicate struct {
	// Arity is the number of parameters after the predicate name.
	Arity int
	Build func(params []string) (func(string) bool, error)
}

// Transform builds an element rewrite from its parameters.
type Transform struct {
	// Arity is the number of parameters after the transform name.
	Arity int
	Build func(params []string) (func(string) string, error)
}

// Registry provides named predicates and transforms for where, select, and
// terminal operations.
type Registry struct {
	mu         sync.RWMutex
	predicates map[string]Predicate
	transforms map[string]Transform
}

// NewRegistry creates a registry holding the built-in predicates and transforms.
func NewRegistry() *Registry {
	r := &Registry{
		predicates: make(map[string]Predicate),
		transforms: make(map[string]Transform),
	}
	registerBuiltins(r)
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry used when none is configured.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() { defaultRegistry = NewRegistry() })
	return defaultRegistry
}

// RegisterPredicate adds or replaces a named predicate.
func (r *Registry) RegisterPredicate(name string, p Predicate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predicates[name] = p
}

// RegisterTransform adds or replaces a named transform.
func (r *Registry) RegisterTransform(name string, t Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[name] = t
}

// Predicate retrieves a predicate by name.
func (r *Registry) Predicate(name string) (Predicate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.predicates[name]
	return p, ok
}

// Transform retrieves a transform by name.
func (r *Registry) Transform(name string) (Transform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transforms[name]
	return t, ok
}

// PredicateNames returns sorted names of all registered predicates.
func (r *Registry) PredicateNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.predicates)
}

// TransformNames returns sorted names of all registered transforms.
func (r *Registry) TransformNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.transforms)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildPredicate resolves args of the form [name, params...].
func (r *Registry) BuildPredicate(args []string) (func(string) bool, error) {
	if len(args) == 0 {
		return nil, errors.MissingField("predicate")
	}
	p, ok := r.Predicate(args[0])
	if !ok {
		return nil, errors.InvalidInput("predicate", "unknown predicate "+args[0])
	}
	if len(args)-1 != p.Arity {
		return nil, errors.InvalidInput("predicate", args[0]+" takes "+cast.ToString(p.Arity)+" parameter(s)")
	}
	return p.Build(args[1:])
}

// BuildTransform resolves args of the form [name, params...].
func (r *Registry) BuildTransform(args []string) (func(string) string, error) {
	if len(args) == 0 {
		return nil, errors.MissingField("transform")
	}
	t, ok := r.Transform(args[0])
	if !ok {
		return nil, errors.InvalidInput("transform", "unknown transform "+args[0])
	}
	if len(args)-1 != t.Arity {
		return nil, errors.InvalidInput("transform", args[0]+" takes "+cast.ToString(t.Arity)+" parameter(s)")
	}
	return t.Build(args[1:])
}

func registerBuiltins(r *Registry) {
	comparisons := map[string]func(int) bool{
		"eq": func(c int) bool { return c == 0 },
		"ne": func(c int) bool { return c != 0 },
		"lt": func(c int) bool { return c < 0 },
		"le": func(c int) bool { return c <= 0 },
		"gt": func(c int) bool { return c > 0 },
		"ge": func(c int) bool { return c >= 0 },
	}
	for name, accept := range comparisons {
		r.RegisterPredicate(name, Predicate{Arity: 1, Build: func(params []string) (func(string) bool, error) {
			operand := params[0]
			return func(v string) bool { return accept(compareValues(v, operand)) }, nil
		}})
	}

	stringTests := map[string]func(string, string) bool{
		"prefix":   strings.HasPrefix,
		"suffix":   strings.HasSuffix,
		"contains": strings.Contains,
	}
	for name, test := range stringTests {
		r.RegisterPredicate(name, Predicate{Arity: 1, Build: func(params []string) (func(string) bool, error) {
			operand := params[0]
			return func(v string) bool { return test(v, operand) }, nil
		}})
	}

	r.RegisterPredicate("match", Predicate{Arity: 1, Build: func(params []string) (func(string) bool, error) {
		re, err := regexp.Compile(params[0])
		if err != nil {
			return nil, errors.InvalidInput("predicate", "invalid pattern").WithCause(err)
		}
		return re.MatchString, nil
	}})

	lengths := map[string]func(n, limit int) bool{
		"len_eq": func(n, limit int) bool { return n == limit },
		"len_lt": func(n, limit int) bool { return n < limit },
		"len_gt": func(n, limit int) bool { return n > limit },
	}
	for name, accept := range lengths {
		r.RegisterPredicate(name, Predicate{Arity: 1, Build: func(params []string) (func(string) bool, error) {
			limit, err := cast.ToIntE(params[0])
			if err != nil {
				return nil, errors.InvalidInput("predicate", name+" needs an integer").WithCause(err)
			}
			return func(v string) bool { return accept(len([]rune(v)), limit) }, nil
		}})
	}

	r.RegisterPredicate("empty", Predicate{Build: func([]string) (func(string) bool, error) {
		return func(v string) bool { return v == "" }, nil
	}})
	r.RegisterPredicate("not_empty", Predicate{Build: func([]string) (func(string) bool, error) {
		return func(v string) bool { return v != "" }, nil
	}})

	simple := map[string]func(string) string{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,
		"len":   func(v string) string { return cast.ToString(len([]rune(v))) },
	}
	for name, fn := range simple {
		r.RegisterTransform(name, Transform{Build: func([]string) (func(string) string, error) {
			return fn, nil
		}})
	}

	r.RegisterTransform("prefix", Transform{Arity: 1, Build: func(params []string) (func(string) string, error) {
		p := params[0]
		return func(v string) string { return p + v }, nil
	}})
	r.RegisterTransform("suffix", Transform{Arity: 1, Build: func(params []string) (func(string) string, error) {
		s := params[0]
		return func(v string) string { return v + s }, nil
	}})
	r.RegisterTransform("replace", Transform{Arity: 2, Build: func(params []string) (func(string) string, error) {
		replacer := strings.NewReplacer(params[0], params[1])
		return replacer.Replace, nil
	}})
	r.RegisterTransform("scale", Transform{Arity: 1, Build: func(params []string) (func(string) string, error) {
		k, err := cast.ToFloat64E(params[0])
		if err != nil {
			return nil, errors.InvalidInput("transform", "scale needs a number").WithCause(err)
		}
		return func(v string) string {
			n, ok := parseNumber(v)
			if !ok {
				return v
			}
			return formatNumber(n * k)
		}, nil
	}})
}
