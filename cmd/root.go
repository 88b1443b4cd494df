package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nasakg/geoscope/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "geoscope",
	Short: "Geographic scope classification for dataset catalogs",
	Long:  "Fetches dataset metadata records, derives area geometries from their raw spatial descriptors, joins them against administrative boundaries, and assigns each record a geographic scope.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
