package plan

// Source kinds.
const (
	SourceValues   = "values"
	SourceLines    = "lines"
	SourceRange    = "range"
	SourceGenerate = "generate"
)

// Step operations.
const (
	OpWhere          = "where"
	OpSelect         = "select"
	OpDistinct       = "distinct"
	OpExcept         = "except"
	OpConcat         = "concat"
	OpDefaultIfEmpty = "default_if_empty"
)

// Terminal operations.
const (
	OpCollect            = "collect"
	OpCount              = "count"
	OpFirst              = "first"
	OpFirstOrDefault     = "first_or_default"
	OpElementAt          = "element_at"
	OpElementAtOrDefault = "element_at_or_default"
	OpAny                = "any"
	OpAll                = "all"
	OpContains           = "contains"
	OpSum                = "sum"
	OpAverage            = "average"
	OpMin                = "min"
	OpMax                = "max"
	OpJoin               = "join"
	OpToMap              = "to_map"
)

// StdinFile selects standard input as a lines source.
const StdinFile = "-"

// Plan is a declarative query definition.
type Plan struct {
	// Name identifies the plan in logs and results.
	Name string `yaml:"name" mapstructure:"name" json:"name,omitempty"`
	// Source produces the initial elements.
	Source Source `yaml:"source" mapstructure:"source" json:"source"`
	// Steps are applied in order.
	Steps []Step `yaml:"steps,omitempty" mapstructure:"steps" json:"steps,omitempty" validate:"dive"`
	// Terminal runs the query.
	Terminal Terminal `yaml:"terminal" mapstructure:"terminal" json:"terminal"`
}

// Source defines where elements come from.
type Source struct {
	Kind string `yaml:"kind" mapstructure:"kind" json:"kind" validate:"required,oneof=values lines range generate"`
	// Values lists the elements of a values source.
	Values []string `yaml:"values,omitempty" mapstructure:"values" json:"values,omitempty"`
	// File is the path of a lines source; "-" reads standard input.
	File string `yaml:"file,omitempty" mapstructure:"file" json:"file,omitempty"`
	// Start and Count define a range source.
	Start int `yaml:"start,omitempty" mapstructure:"start" json:"start,omitempty"`
	Count int `yaml:"count,omitempty" mapstructure:"count" json:"count,omitempty" validate:"gte=0"`
	// Seed, Step and Limit define a generate source: seed, seed+step, ...
	// while values stay within limit.
	Seed  float64 `yaml:"seed,omitempty" mapstructure:"seed" json:"seed,omitempty"`
	Step  float64 `yaml:"step,omitempty" mapstructure:"step" json:"step,omitempty"`
	Limit float64 `yaml:"limit,omitempty" mapstructure:"limit" json:"limit,omitempty"`
}

// Step is one chained operation.
type Step struct {
	Op   string   `yaml:"op" mapstructure:"op" json:"op" validate:"required,oneof=where select distinct except concat default_if_empty"`
	Args []string `yaml:"args,omitempty" mapstructure:"args" json:"args,omitempty"`
	// IgnoreCase compares case-insensitively in distinct and except.
	IgnoreCase bool `yaml:"ignore_case,omitempty" mapstructure:"ignore_case" json:"ignore_case,omitempty"`
}

// Terminal is the operation that runs the query.
type Terminal struct {
	Op   string   `yaml:"op" mapstructure:"op" json:"op" validate:"required"`
	Args []string `yaml:"args,omitempty" mapstructure:"args" json:"args,omitempty"`
}

// DisplayName returns the plan name, or the terminal op for unnamed plans.
func (p *Plan) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Terminal.Op
}
