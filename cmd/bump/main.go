package main

import (
	"os"

	"github.com/ariel-frischer/bump/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
