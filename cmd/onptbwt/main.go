package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/forestrie/go-onptbwt/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	argv := os.Args[1:]
	if len(argv) == 0 {
		argv = []string{"-h"}
	}

	code := app.Run(ctx, argv, os.Stdout, os.Stderr)
	// an interrupt wins over whatever the cancelled build reported
	code = app.ExitCode(ctx, code)

	stop()
	os.Exit(code)
}
