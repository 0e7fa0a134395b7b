package main

import (
	"os"

	"github.com/init-pkg/trade-disclosure/cmd/sheet/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
