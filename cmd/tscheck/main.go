// Command tscheck is the driver for the checker: it loads one or more
// JSON-encoded ASTs (the contract internal/cnode documents for "whatever
// hands the checker its input"), runs them through internal/checker, and
// reports diagnostics as colored text or as a deterministic JSON batch.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
}
