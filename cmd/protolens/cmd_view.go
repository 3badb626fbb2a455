package main

import (
	"github.com/spf13/cobra"

	"github.com/lexcodex/protolens/tui"
)

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view FILE",
		Short: "Browse a proto file's outline interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(args[0])
		},
	}
}
