// Package main is the entry point for the passnet CLI tool, which extracts
// soccer pass logs from event data and computes team pass networks.
package main

import "github.com/pable/go-passnet/cmd"

func main() {
	cmd.Execute()
}
