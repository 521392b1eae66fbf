package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"frete.bakoflog.com.br/internal/quote"
)

func newQuoteCmd(c *cli) *cobra.Command {
	var req quote.Request
	var out string

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a list of items to a destination CEP",
		Long: `Prices the items exactly as the /frete endpoint would.

Items use the platform format: length;width;height;volume;quantity;weight;code;value
separated by '/'.`,
		Example: `  fretectl quote --destino 90010000 --prods "2;1;1;0;2;50;PROD1;0"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.HasKm = req.Km > 0

			application, err := c.application(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer application.Shutdown()

			result, err := application.Quotes.Quote(cmd.Context(), req)
			if err != nil {
				return err
			}

			return withOutput(out, cmd.OutOrStdout(), application.Logger, func(w io.Writer) error {
				if c.format == "json" {
					return writeJSON(w, result)
				}
				return writeQuoteText(w, result)
			})
		},
	}

	cmd.Flags().StringVar(&req.Destination, "destino", "", "Destination CEP")
	cmd.Flags().StringVar(&req.Origin, "origem", "", "Origin CEP (selects origin-specific ranges)")
	cmd.Flags().StringVar(&req.Items, "prods", "", "Items in the platform format")
	cmd.Flags().Float64Var(&req.Km, "km", 0, "Distance override in km")
	cmd.Flags().Float64Var(&req.PricePerKm, "valor-km", 0, "Price per km override")
	cmd.Flags().Float64Var(&req.TruckLength, "tamanho-caminhao", 0, "Truck length override in meters")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the result to a file instead of stdout")
	_ = cmd.MarkFlagRequired("destino")
	_ = cmd.MarkFlagRequired("prods")
	return cmd
}

func writeQuoteText(w io.Writer, result quote.Result) error {
	fmt.Fprintf(w, "Distance: %.1f km (%s)\n", result.Distance.Km, result.Distance.Source)
	fmt.Fprintf(w, "Price per km: %.2f  Truck length: %.2f m\n\n", result.Constants.PricePerKm, result.Constants.TruckLength)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tQTY\tCATEGORY\tSIZE\tSOURCE\tUNIT\tTOTAL")
	for _, item := range result.Items {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.3f\t%s\t%.2f\t%.2f\n",
			item.ProductCode, item.Quantity, item.Category, item.ControlSize, item.SizeSource, item.UnitPrice, item.Total)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, s := range result.Skipped {
		fmt.Fprintf(w, "skipped %s\n", s)
	}

	fmt.Fprintf(w, "\nSubtotal: %.2f  Total: %.2f\n", result.Subtotal, result.Total)
	for _, s := range result.Services {
		fmt.Fprintf(w, "%s %-10s %10.2f  %d-%d days\n", s.Code, s.Name, s.Price, s.LeadTimeMin, s.LeadTimeMax)
	}
	return nil
}
