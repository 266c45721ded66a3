// Package util holds small helpers shared by the seqq command and the plan
// package: human-readable byte sizes and string cleanup.
package util
