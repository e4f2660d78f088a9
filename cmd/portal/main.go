package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/smolensk-traffic/portal/internal/cli"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, version)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
