package main

import (
	"context"
	"os"
	"os/signal"

	"iamkit/pkg/cli"

	_ "iamkit/toolsets/aws"
)

const version = "0.1.0"

var execute = cli.Execute
var exit = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, version, os.Args[1:], cli.Streams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr})
	stop()
	if code != 0 {
		exit(code)
	}
}
