package main

import (
	"os"

	"github.com/conneroisu/fpgagen/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
