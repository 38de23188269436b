package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dl/grepcore/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extra, err := cli.LoadConfigArgs()
	if err != nil {
		fmt.Fprintln(os.Stderr, "grepcore:", err)
		return cli.ExitError
	}

	cmd := newRootCmd(func(cfg cli.Config) int { return cli.Run(ctx, cfg) })
	cmd.SetArgs(append(extra, os.Args[1:]...))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "grepcore:", err)
		return cli.ExitError
	}
	return exitCode
}
