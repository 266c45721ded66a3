// Package errors provides the structured error type shared by seqkit packages.
// It implements coded errors for query failures (null arguments, invalid
// operations, out-of-range lookups) with optional details and a wrapped cause.
package errors
