// Package validation checks configuration files and query plans.
//
// Struct tag validation covers the shape of a decoded document; the
// programmatic Validator collects semantic errors that tags cannot express,
// such as the argument count a plan step needs. Both report an
// errors.AppError with code INVALID_INPUT and per-field details.
//
// # Struct Tag Validation
//
//	type Input struct {
//	    MaxSize string `mapstructure:"max_size" validate:"omitempty,bytesize"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.OneOf("steps[0].op", op, []string{"where", "select"})
//	if err := v.Validate(); err != nil { ... }
package validation
