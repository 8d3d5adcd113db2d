package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/casperkit/casperkit/internal/cli"
	"github.com/casperkit/casperkit/internal/scaffold"
	"github.com/casperkit/casperkit/internal/ui"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx, version, commit, date)
	stop()
	if err != nil {
		ui.PrintError(err)
		os.Exit(scaffold.ExitCode(err))
	}
}
