package main

import (
	"os"

	"github.com/ppiankov/vocabcheck/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
