// Command fretectl runs the quote engine offline against a workbook and rule
// file, for checking a new price table before it goes live.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"frete.bakoflog.com.br/internal/app"
	"frete.bakoflog.com.br/internal/appconf"
	"frete.bakoflog.com.br/internal/logging"
)

// cli carries the state shared by the subcommands.
type cli struct {
	cfg    appconf.Config
	format string
}

func main() {
	if err := appconf.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "fretectl",
		Short:         "Freight quote tooling",
		Long:          `Runs the freight quote engine against local reference data without starting the server.`,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.format != "text" && c.format != "json" {
				return fmt.Errorf("unknown format %q (text|json)", c.format)
			}
			return c.cfg.Validate()
		},
	}

	// Same settings, names and environment variables as the server.
	goFlags := flag.NewFlagSet("fretectl", flag.ContinueOnError)
	appconf.RegisterFlags(goFlags, &c.cfg)
	rootCmd.PersistentFlags().AddGoFlagSet(goFlags)
	rootCmd.PersistentFlags().StringVar(&c.format, "format", "text", "Output format (text|json)")

	rootCmd.AddCommand(newQuoteCmd(c))
	rootCmd.AddCommand(newDistanceCmd(c))
	rootCmd.AddCommand(newInspectCmd(c))
	return rootCmd
}

// application loads the reference data. Logs go to stderr so stdout stays
// machine-readable.
func (c *cli) application(stderr io.Writer) (*app.Application, error) {
	level, err := appconf.ParseLogLevel(c.cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewStructuredLogger(stderr, level)
	return app.New(c.cfg, logger), nil
}
