package main

import (
	"os"

	"github.com/shipyard-build/shipyard/internal/cli/commands"
)

var Version = "dev"

func main() {
	os.Exit(commands.Execute(Version))
}
