package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Query errors
const (
	// ErrCodeNullArgument indicates a required function argument was nil.
	ErrCodeNullArgument ErrorCode = "NULL_ARGUMENT"
	// ErrCodeInvalidOperation indicates the operation cannot run on the sequence,
	// e.g. folding or taking the first element of an empty sequence.
	ErrCodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	// ErrCodeOutOfRange indicates an index beyond the sequence length or a value
	// that does not fit the target numeric type.
	ErrCodeOutOfRange ErrorCode = "OUT_OF_RANGE"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var knownCodes = map[ErrorCode]bool{
	ErrCodeNullArgument:     true,
	ErrCodeInvalidOperation: true,
	ErrCodeOutOfRange:       true,
	ErrCodeInvalidInput:     true,
	ErrCodeMissingField:     true,
	ErrCodeInternal:         true,
}

// IsKnownCode returns true if the code is one of the codes defined by this package.
func IsKnownCode(code ErrorCode) bool {
	return knownCodes[code]
}
