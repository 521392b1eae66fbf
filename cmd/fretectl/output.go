package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"frete.bakoflog.com.br/internal/logging"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// withOutput runs write against the file at path, or against stdout when
// path is empty. A failed close is reported as the command's error.
func withOutput(path string, stdout io.Writer, logger *slog.Logger, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer logging.HandleDeferredError(&err, f.Close, logger, "close_output_file")
	return write(f)
}
