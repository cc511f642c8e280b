package main

import (
	"os"

	"github.com/okian/nric/cmd/nric/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
