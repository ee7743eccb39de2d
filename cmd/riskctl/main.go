package main

import (
	"os"

	"github.com/itsramaa/trading-journal/cmd/riskctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
