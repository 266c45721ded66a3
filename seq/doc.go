// Package seq provides deferred-execution queries over ordered sequences.
//
// A Sequence is lazy: chaining operations (Where, Select, Concat, Distinct,
// Except, ...) only describe a chain of cursors. No element is produced or
// transformed until a terminal operation (Count, Fold, First, ToSlice, ...)
// pulls the chain.
//
// Every terminal operation builds its own cursor chain, so a Sequence can be
// queried any number of times, from any goroutine, and derived sequences never
// disturb their parents. Cursors obtained from Enumerator belong to the caller
// and must not be shared between goroutines.
//
// # Cursors
//
// Source cursors:
//
//   - buffer: a private copy of a slice (FromSlice, Of)
//   - container: a private copy of a list (FromList, FromSeq, FromMap)
//   - generator: seed + successor + stop predicate (Generate, Range)
//
// Decorator cursors:
//
//   - filter: keeps elements matching a predicate (Where, Distinct, Except)
//   - map: transforms each element (Select, Cast)
//   - combine: splices two sequences end to end (Concat)
//
// # Usage
//
//	words := seq.Of("x", "a", "x", "e", "x", "i")
//	vowels := seq.Except(words, seq.Of("x"))
//	joined, err := seq.Aggregate(vowels, "", func(acc, s string) string {
//	    return acc + s
//	})
//
// # Errors
//
// Operations report failures as *errors.AppError with codes NULL_ARGUMENT,
// INVALID_OPERATION and OUT_OF_RANGE. A chaining operation given a nil function
// returns a sequence carrying that error; every terminal operation on it (or on
// anything derived from it) returns the error.
package seq
