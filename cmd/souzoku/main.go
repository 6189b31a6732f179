// Command souzoku is the command line interface for statutory inheritance
// calculation over local case files.
package main

import (
	"fmt"
	"os"

	"souzoku/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
