package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/lexcodex/protolens/persistence"
)

func newIndexCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build or query the workspace symbol index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := log.New(cmd.ErrOrStderr(), "", 0)
			index, err := persistence.OpenSymbolIndex(cfg.Workspace, cfg.IndexPath, logger)
			if err != nil {
				return err
			}
			defer index.Close()

			if query != "" {
				entries, err := index.Search(query, 50)
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s:%d\n", e.Name, e.Kind, e.Path, e.StartLine+1)
				}
				return nil
			}

			if err := index.Build(cmd.Context()); err != nil {
				return err
			}
			files, symbols, err := index.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d symbols across %d files\n", symbols, files)
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "Search the index instead of rebuilding it")
	return cmd
}
