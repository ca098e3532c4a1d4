// Command assetctl scores asset health, estimates remaining life, schedules
// preventive maintenance and classifies sensor liveness.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/assetcare/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand()
	cmd.SilenceErrors = true
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "assetctl:", err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
