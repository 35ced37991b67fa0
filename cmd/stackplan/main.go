// Package main is the entry point for the stackplan CLI.
//
// stackplan turns a stream stack configuration into an ordered provisioning
// plan: every cloud resource, the boot program of the stream server, the
// least-privilege grants and the output bindings an executor publishes.
//
// Commands: init, validate, plan, graph, bootstrap, outputs.
//
// For detailed usage information, run:
//
//	stackplan --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/stackplan/cmd/stackplan/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
