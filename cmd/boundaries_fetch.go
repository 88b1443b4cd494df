package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nasakg/geoscope/internal/boundary"
)

var boundariesFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the reference boundary dataset",
	Long:  "Downloads the configured boundary archive over HTTP or FTP, extracts it, and prints the dataset path.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Boundary.URL == "" {
			return eris.New("boundary.url is not configured")
		}

		path, err := boundary.Fetch(ctx, nil, cfg.Boundary.URL, cfg.Boundary.TempDir)
		if err != nil {
			return eris.Wrap(err, "fetch boundaries")
		}

		zap.L().Info("boundary dataset ready", zap.String("path", path))
		fmt.Println(path)
		return nil
	},
}

func init() { boundariesCmd.AddCommand(boundariesFetchCmd) }
