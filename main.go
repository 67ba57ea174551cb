// Package main is the entry point for the pzstats CLI tool, which parses
// Project Zomboid server logs and tracks per-player survival statistics.
package main

import "github.com/travisw1990/spiffo-pz-bot/cmd"

func main() {
	cmd.Execute()
}
