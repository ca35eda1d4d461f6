package main

import "github.com/flypanel/layout-tools/cmd/fpl/cmd"

func main() {
	cmd.Execute()
}
