// Package main is the entry point for the discovery-bridge CLI.
package main

import (
	"discoverybridge/cli/cmd"
)

func main() {
	cmd.Execute()
}
