// Command cork is a programmer's calculator for signed 64-bit integers.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/cork/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
