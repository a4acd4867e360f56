package main

import (
	"os"

	"github.com/Bembelbots/BembelSoccer-sub000/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
