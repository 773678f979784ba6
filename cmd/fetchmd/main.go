// Package main is the entry point for the fetchmd CLI.
package main

import (
	"os"

	"github.com/jmylchreest/fetchmd/cmd/fetchmd/commands"
)

func main() {
	os.Exit(commands.Execute())
}
