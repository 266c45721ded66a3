package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldRunID     = "run_id"
	FieldPlan      = "plan"
	FieldSource    = "source"
	FieldStep      = "step"
	FieldTerminal  = "terminal"
	FieldCount     = "count"
	FieldError     = "error"
	FieldErrorCode = "error_code"
	FieldDuration  = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("terminal", "sum", "steps", 3))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for a terminal operation that failed.
func ErrorFields(terminal string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldTerminal: terminal,
		FieldError:    err.Error(),
	}
}

// DurationFields creates fields for a timed terminal operation.
func DurationFields(terminal string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldTerminal: terminal,
		FieldDuration: d.Milliseconds(),
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}
