package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/nasakg/geoscope/internal/boundary"
)

var boundariesInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize the loaded boundary dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := boundary.Load(cfg.Boundary.Path, boundary.FieldMapping{
			City:      cfg.Boundary.CityField,
			Country:   cfg.Boundary.CountryField,
			Continent: cfg.Boundary.ContinentField,
		}, cfg.Boundary.Encoding)
		if err != nil {
			return eris.Wrap(err, "load boundaries")
		}

		formatBoundaryInfo(os.Stdout, cfg.Boundary.Path, set)
		return nil
	},
}

func init() { boundariesCmd.AddCommand(boundariesInfoCmd) }

// formatBoundaryInfo writes dataset summary statistics to w.
func formatBoundaryInfo(w io.Writer, path string, set *boundary.Set) {
	cities := make(map[string]struct{})
	countries := make(map[string]struct{})
	continents := make(map[string]struct{})
	for _, f := range set.Features {
		if f.City != "" {
			cities[f.City] = struct{}{}
		}
		if f.Country != "" {
			countries[f.Country] = struct{}{}
		}
		if f.Continent != "" {
			continents[f.Continent] = struct{}{}
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Path:\t%s\n", path)
	_, _ = fmt.Fprintf(tw, "CRS:\t%s\n", set.CRS)
	_, _ = fmt.Fprintf(tw, "Features:\t%d\n", len(set.Features))
	_, _ = fmt.Fprintf(tw, "Cities:\t%d\n", len(cities))
	_, _ = fmt.Fprintf(tw, "Countries:\t%d\n", len(countries))
	_, _ = fmt.Fprintf(tw, "Continents:\t%d\n", len(continents))
	_ = tw.Flush()
}
