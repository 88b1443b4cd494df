package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nasakg/geoscope/pkg/cmr"
)

var fetchOutput string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch dataset records from the catalog",
	Long:  "Pages through the CMR collections search and writes the raw records to a JSON file for later classification.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		records, err := fetchRecords(ctx)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal records")
		}
		if err := os.WriteFile(fetchOutput, data, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", fetchOutput)
		}

		zap.L().Info("fetch complete",
			zap.Int("records", len(records)),
			zap.String("output", fetchOutput))
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOutput, "output", "records.json", "records output file")
	rootCmd.AddCommand(fetchCmd)
}

// fetchRecords pages through the catalog with the configured search.
func fetchRecords(ctx context.Context) ([]cmr.Collection, error) {
	client := cmr.NewClient(
		cmr.WithBaseURL(cfg.CMR.BaseURL),
		cmr.WithPageSize(cfg.CMR.PageSize),
		cmr.WithMaxPages(cfg.CMR.MaxPages),
		cmr.WithTimeout(time.Duration(cfg.CMR.TimeoutSecs)*time.Second),
	)

	var opts []cmr.SearchOption
	if cfg.CMR.Keyword != "" {
		opts = append(opts, cmr.WithKeyword(cfg.CMR.Keyword))
	}
	if cfg.CMR.Platform != "" {
		opts = append(opts, cmr.WithPlatform(cfg.CMR.Platform))
	}

	records, err := client.SearchAll(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "search collections")
	}
	return records, nil
}
