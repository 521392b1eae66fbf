package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"frete.bakoflog.com.br/internal/distance"
)

func newDistanceCmd(c *cli) *cobra.Command {
	var origin string

	cmd := &cobra.Command{
		Use:   "distance CEP...",
		Short: "Show how destination CEPs resolve to a distance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := c.application(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer application.Shutdown()

			resolver := application.Reference.Snapshot().Resolver
			results := make([]distance.Resolution, 0, len(args))
			for _, cep := range args {
				results = append(results, resolver.Resolve(cmd.Context(), distance.Query{Destination: cep, Origin: origin}))
			}

			w := cmd.OutOrStdout()
			if c.format == "json" {
				return writeJSON(w, results)
			}
			for i, res := range results {
				fmt.Fprintf(w, "%s\t%.1f km\t%s", args[i], res.Km, res.Source)
				if res.Region != "" {
					fmt.Fprintf(w, "\t%s", res.Region)
				}
				if res.Detail != "" {
					fmt.Fprintf(w, "\t%s", res.Detail)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&origin, "origem", "", "Origin CEP")
	return cmd
}
