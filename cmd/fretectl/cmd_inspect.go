package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInspectCmd(c *cli) *cobra.Command {
	var showCatalog bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the loaded reference data and its warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := c.application(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer application.Shutdown()

			snap := application.Reference.Snapshot()
			stats := snap.Stats()
			w := cmd.OutOrStdout()

			if c.format == "json" {
				report := struct {
					Stats    any      `json:"stats"`
					Warnings []string `json:"warnings"`
					Catalog  any      `json:"catalog,omitempty"`
				}{Stats: stats, Warnings: snap.Warnings}
				if showCatalog {
					report.Catalog = snap.Catalog.Entries()
				}
				return writeJSON(w, report)
			}

			fmt.Fprintf(w, "Source:        %s\n", stats.WorkbookSource)
			fmt.Fprintf(w, "Price per km:  %.2f\n", stats.PricePerKm)
			fmt.Fprintf(w, "Truck length:  %.2f\n", stats.TruckLength)
			fmt.Fprintf(w, "Products:      %d (%d skipped)\n", stats.Products, stats.ProductsSkip)
			fmt.Fprintf(w, "Ranges:        %d (%d skipped)\n", stats.Ranges, stats.RangesSkip)
			fmt.Fprintf(w, "Destinations:  %d\n", stats.Destinations)
			fmt.Fprintf(w, "Product rules: %d\n", stats.ProductRules)
			fmt.Fprintf(w, "Services:      %d\n", stats.Services)
			for _, warning := range snap.Warnings {
				fmt.Fprintf(w, "warning: %s\n", warning)
			}
			if showCatalog {
				for _, e := range snap.Catalog.Entries() {
					fmt.Fprintf(w, "%s\t%.3f\t%s\n", e.Name, e.ControlSize, e.Category)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showCatalog, "catalog", false, "List every catalog entry")
	return cmd
}
