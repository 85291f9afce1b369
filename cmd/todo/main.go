package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/idilsaglam/todo/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	code := cli.Run(ctx, os.Args)
	cancel()
	os.Exit(code)
}
