// main package for lazyspec command-line tool
// Package main is the entry point for the Lazyspec CLI.
package main

import "lazyspec.dev/pkg/lazyspec/cmd"

func main() {
	cmd.Execute()
}
