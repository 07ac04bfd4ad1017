// Package main is the entry point for the filesbackup CLI.
package main

import (
	"os"

	"github.com/thoreinstein/filesbackup/cmd/filesbackup/commands"
	"github.com/thoreinstein/filesbackup/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
