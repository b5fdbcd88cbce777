package main

import (
	"os"

	"github.com/leo-lp/png/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
