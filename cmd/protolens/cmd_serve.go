package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lexcodex/protolens/persistence"
	"github.com/lexcodex/protolens/server"
)

func newServeCmd() *cobra.Command {
	var noIndex bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the language server on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// Stdout carries the JSON-RPC stream, so logging goes to a file.
			logger, closeLog, err := fileLogger(cfg.LogPath)
			if err != nil {
				return err
			}
			defer closeLog()

			var index *persistence.SymbolIndex
			if !noIndex {
				index, err = persistence.OpenSymbolIndex(cfg.Workspace, cfg.IndexPath, logger)
				if err != nil {
					logger.Printf("symbol index unavailable: %v", err)
				} else {
					defer index.Close()
				}
			}

			srv := server.New(cfg, index, logger)
			logger.Printf("serving on stdio (workspace=%s)", cfg.Workspace)
			return srv.Serve(cmd.Context(), server.Stdio{})
		},
	}
	cmd.Flags().BoolVar(&noIndex, "no-index", false, "Disable the workspace symbol index")
	return cmd
}

func fileLogger(path string) (*log.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return log.New(f, "", log.LstdFlags), func() { _ = f.Close() }, nil
}
