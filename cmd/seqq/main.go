// Command seqq runs declarative sequence query plans.
//
//	seqq run --plan fruit.yml
//	cat words.txt | seqq run --plan distinct-words.yml --config seqq.yml
//	seqq version
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
