package main

import (
	"context"
	"os"

	"blogreader/cli"
)

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain runs the command line against the process arguments and streams.
func RealMain() {
	runner := &cli.Runner{In: os.Stdin, Out: os.Stdout}
	exit(runner.Run(context.Background(), os.Args[1:]))
}
