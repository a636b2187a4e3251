package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gomap/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprintf(c.OutOrStdout(), "gomap %s\n", version.GetFullVersion())
		},
	}
}
