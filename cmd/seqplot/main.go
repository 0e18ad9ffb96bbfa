package main

import (
	"os"

	"github.com/voeis/seqplot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
