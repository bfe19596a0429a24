package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/meeting-flow/internal/cli"
	"github.com/nguyentantai21042004/meeting-flow/internal/errdefs"
	"github.com/nguyentantai21042004/meeting-flow/internal/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := cli.NewRootCmd(&cli.Dependencies{}).ExecuteContext(ctx)
	stop()

	if err != nil {
		output.NewFormatter(os.Stderr).Error(fmt.Sprintf("%s error: %v", errdefs.Kind(err), err))
		os.Exit(errdefs.ExitCode(err))
	}
}
