/*
Package flake generates Koch snowflake curves and renders them as gradient
filled, stroked images or SVG documents.

The curve is produced by a recursive procedure: every edge of an equilateral
triangle is replaced by four edges forming a bump, down to the requested
depth. A flake of depth d is made of 3·4^d segments of equal length.

The package provides a command line interface, supporting various flags for
styling and output. To check the supported commands type:

	$ flake --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"os"

		"github.com/esimov/flake"
	)

	func main() {
		opts := flake.DefaultOptions()
		opts.Depth = 4

		out, err := os.Create("flake.png")
		if err != nil {
			panic(err)
		}
		defer out.Close()

		p := flake.NewProcessor(opts)
		if err := p.Process(out); err != nil {
			fmt.Printf("Error generating the snowflake: %s", err.Error())
		}
	}
*/
package flake
