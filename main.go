package main

import "github.com/jywlabs/describer/cmd"

func main() {
	cmd.Execute()
}
