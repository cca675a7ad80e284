// Package main provides the entry point for the skillreport CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/skillreport/internal/cli"
	"github.com/mrz1836/skillreport/internal/signal"
)

// Set at build time via ldflags.
//
//nolint:gochecknoglobals // ldflags targets
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	h := signal.NewHandler(context.Background())

	err := cli.Execute(h.Context(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	h.Stop()
	cli.CloseLogFile()

	os.Exit(cli.ExitCodeForError(err))
}
