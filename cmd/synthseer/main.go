package main

import (
	"os"

	"github.com/yjs2001/material-synthesis-seer/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
