package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ArowuTest/ctrdrbg/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ctrdrbg:", err)
		stop()
		os.Exit(1)
	}
}
