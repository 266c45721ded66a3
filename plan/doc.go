// Package plan runs declarative queries over string elements.
//
// A Plan names a source, a list of steps, and one terminal operation. Compile
// turns it into a lazy seq.Sequence[string]; a Runner compiles it, runs the
// terminal operation, and reports a Result.
//
//	name: long-fruit
//	source:
//	  kind: values
//	  values: [pear, apple, fig, apple, plum]
//	steps:
//	  - op: distinct
//	  - op: where
//	    args: [len_gt, "3"]
//	  - op: select
//	    args: [upper]
//	terminal:
//	  op: collect
//
// Plans are YAML or JSON. Numeric comparisons apply when both sides parse as
// numbers; otherwise strings are compared.
package plan
