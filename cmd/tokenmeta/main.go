package main

import (
	"os"

	"github.com/roach88/tokenmeta/internal/cli"
)

// Version is set at build time
var Version = "dev"

func main() {
	cmd := cli.NewRootCommand()
	cmd.Version = Version
	os.Exit(cli.Execute(cmd))
}
