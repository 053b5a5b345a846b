package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		if a.logger != nil {
			a.logger.Errorf("%v", err)
			_ = a.logger.Sync()
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
