package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexcodex/protolens/server"
)

var (
	flagWorkspace string
	flagConfig    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "protolens",
		Short:         "Outline tooling and language server for protobuf sources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagWorkspace, "workspace", "", "Workspace root (defaults to the current directory)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a protolens config file")

	root.AddCommand(newOutlineCmd(), newServeCmd(), newIndexCmd(), newViewCmd())
	return root
}

// loadConfig merges the optional config file over defaults and applies
// command-line overrides.
func loadConfig() (server.Config, error) {
	cfg := server.DefaultConfig()
	if flagConfig != "" {
		fileCfg, err := server.LoadConfig(flagConfig)
		if err != nil {
			return server.Config{}, fmt.Errorf("load config %s: %w", flagConfig, err)
		}
		if fileCfg.Workspace != "" {
			cfg.Workspace = fileCfg.Workspace
		}
		if fileCfg.LogPath != "" {
			cfg.LogPath = fileCfg.LogPath
		}
		if fileCfg.IndexPath != "" {
			cfg.IndexPath = fileCfg.IndexPath
		}
	}
	if flagWorkspace != "" {
		cfg.Workspace = flagWorkspace
	}
	if err := cfg.Normalize(); err != nil {
		return server.Config{}, err
	}
	return cfg, nil
}
