package main

import (
	"os"

	"github.com/psantana5/tasktimer/cmd/tasktimer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
