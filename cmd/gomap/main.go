package main

import (
	"github.com/philipparndt/gomap/cmd"
)

func main() {
	root := cmd.Root()
	root.AddCommand(newMeasureCommand(), newInfoCommand(), newVersionCommand())
	cmd.Execute()
}
