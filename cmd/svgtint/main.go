// svgtint - SVG colour contrast checker
//
// svgtint checks every fill and stroke in an SVG against a light and a dark
// background and rewrites failing colours in place.
package main

import (
	"os"

	"github.com/jmylchreest/svgtint/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
