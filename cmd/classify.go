package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nasakg/geoscope/internal/boundary"
	"github.com/nasakg/geoscope/internal/model"
	"github.com/nasakg/geoscope/internal/pipeline"
	"github.com/nasakg/geoscope/internal/report"
	"github.com/nasakg/geoscope/internal/store"
	"github.com/nasakg/geoscope/pkg/cmr"
)

var (
	classifyInput  string
	classifyOutput string
	classifyFormat string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify dataset records by geographic scope",
	Long:  "Normalizes each record's spatial descriptors, joins the derived geometries against the reference boundaries, and writes the six classified output tables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		records, source, err := loadRecords(ctx)
		if err != nil {
			return err
		}

		boundaries, err := boundary.Load(cfg.Boundary.Path, boundary.FieldMapping{
			City:      cfg.Boundary.CityField,
			Country:   cfg.Boundary.CountryField,
			Continent: cfg.Boundary.ContinentField,
		}, cfg.Boundary.Encoding)
		if err != nil {
			return eris.Wrap(err, "load boundaries")
		}

		p, err := pipeline.New(cfg, boundaries)
		if err != nil {
			return err
		}

		// Run-store trouble is never fatal to classification.
		st, run := openRun(ctx, source)
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		res, err := p.Run(ctx, records)
		if err != nil {
			failRun(ctx, st, run, err)
			return eris.Wrap(err, "classify")
		}

		outputPath := cfg.Output.Path
		if classifyOutput != "" {
			outputPath = classifyOutput
		}
		format := cfg.Output.Format
		if classifyFormat != "" {
			format = classifyFormat
		}

		if err := report.Write(res.Output, outputPath, format); err != nil {
			failRun(ctx, st, run, err)
			return err
		}

		closeRun(ctx, st, run, res, outputPath)

		zap.L().Info("classification complete",
			zap.String("source", source),
			zap.Int("records", res.Records),
			zap.Int("failures", res.Failures),
			zap.Any("scopes", res.ScopeCounts),
			zap.String("output", outputPath))
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyInput, "input", "", "records JSON file (fetches from the catalog when empty)")
	classifyCmd.Flags().StringVar(&classifyOutput, "output", "", "output file (defaults to output.path)")
	classifyCmd.Flags().StringVar(&classifyFormat, "format", "", "output format: json or yaml (defaults to output.format)")
	rootCmd.AddCommand(classifyCmd)
}

// loadRecords reads the input file when given, otherwise fetches live.
func loadRecords(ctx context.Context) ([]cmr.Collection, string, error) {
	if classifyInput == "" {
		records, err := fetchRecords(ctx)
		return records, "cmr", err
	}

	data, err := os.ReadFile(classifyInput)
	if err != nil {
		return nil, "", eris.Wrapf(err, "read records %s", classifyInput)
	}
	var records []cmr.Collection
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, "", eris.Wrapf(err, "parse records %s", classifyInput)
	}
	return records, classifyInput, nil
}

// openRun starts a run record, degrading to nil on store trouble.
func openRun(ctx context.Context, source string) (store.Store, *model.Run) {
	st, err := initStore(ctx)
	if err != nil {
		zap.L().Warn("run store unavailable, skipping run record", zap.Error(err))
		return nil, nil
	}
	if err := st.Migrate(ctx); err != nil {
		zap.L().Warn("run store migration failed, skipping run record", zap.Error(err))
		st.Close() //nolint:errcheck
		return nil, nil
	}
	run, err := st.CreateRun(ctx, source)
	if err != nil {
		zap.L().Warn("create run failed, skipping run record", zap.Error(err))
		return st, nil
	}
	return st, run
}

func failRun(ctx context.Context, st store.Store, run *model.Run, cause error) {
	if st == nil || run == nil {
		return
	}
	if err := st.FailRun(ctx, run.ID, cause.Error()); err != nil {
		zap.L().Warn("record run failure", zap.Error(err))
	}
}

func closeRun(ctx context.Context, st store.Store, run *model.Run, res *pipeline.Result, outputPath string) {
	if st == nil || run == nil {
		return
	}
	err := st.CompleteRun(ctx, run.ID, model.RunSummary{
		Records:     res.Records,
		Failures:    res.Failures,
		ScopeCounts: res.ScopeCounts,
		OutputPath:  outputPath,
	})
	if err != nil {
		zap.L().Warn("record run completion", zap.Error(err))
	}
}
