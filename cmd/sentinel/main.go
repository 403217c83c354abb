package main

import (
	"os"

	"github.com/sentinelhq/sentinel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		cli.PrintError(os.Stdout, os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}
