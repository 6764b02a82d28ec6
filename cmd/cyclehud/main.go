// Command cyclehud drives the hotkey cycle and preset controller from the
// command line.
package main

import "github.com/mesh-intelligence/cyclehud/internal/cli"

func main() {
	cli.Execute()
}
