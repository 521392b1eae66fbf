package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"frete.bakoflog.com.br/internal/app"
	"frete.bakoflog.com.br/internal/appconf"
	"frete.bakoflog.com.br/internal/logging"
)

func main() {
	// The .env file has to be loaded before the flags read their defaults
	// from the environment.
	if err := appconf.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var cfg appconf.Config
	appconf.RegisterFlags(flag.CommandLine, &cfg)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration:\n%v\n", err)
		os.Exit(2)
	}

	level, err := appconf.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.NewStructuredLogger(os.Stdout, level)
	slog.SetDefault(logger)

	application := app.New(cfg, logger)
	defer application.Shutdown()

	if cfg.Watch {
		if err := application.Reference.Watch(watchDebounce); err != nil {
			logging.LogError(logger, "hot reload disabled", err, slog.String("component", "main"))
		}
	}

	if err := serve(application); err != nil {
		logging.LogError(logger, "server stopped", err, slog.String("component", "main"))
		application.Shutdown()
		os.Exit(1)
	}
}
