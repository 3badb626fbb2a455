package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lexcodex/protolens/outline"
)

var (
	outlineNameStyle   = lipgloss.NewStyle().Bold(true)
	outlineDetailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	outlineKindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

func newOutlineCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "outline FILE...",
		Short: "Print the declaration outline of proto files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				nodes, err := outline.ParseText(string(data))
				if err != nil {
					return fmt.Errorf("outline %s: %w", path, err)
				}
				if len(args) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", path)
				}
				printNodes(cmd, nodes, 0, plain)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable styling")
	return cmd
}

func printNodes(cmd *cobra.Command, nodes []*outline.Node, depth int, plain bool) {
	for _, node := range nodes {
		indent := strings.Repeat("  ", depth)
		name, kind, detail := node.Name, node.Kind.String(), node.Detail
		if !plain {
			name = outlineNameStyle.Render(name)
			kind = outlineKindStyle.Render(kind)
			detail = outlineDetailStyle.Render(detail)
		}
		// Lines are 1-based at the CLI boundary.
		if node.Detail != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s %s (%s) :%d\n", indent, name, detail, kind, node.SelectionLine+1)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s (%s) :%d\n", indent, name, kind, node.SelectionLine+1)
		}
		printNodes(cmd, node.Children, depth+1, plain)
	}
}
