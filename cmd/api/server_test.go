package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frete.bakoflog.com.br/internal/app"
	"frete.bakoflog.com.br/internal/appconf"
	"frete.bakoflog.com.br/internal/logging"
)

func TestRoutes(t *testing.T) {
	cfg := appconf.Defaults()
	cfg.Token = "TEST"
	application := app.New(cfg, logging.NewStructuredLogger(io.Discard, slog.LevelError))
	defer application.Shutdown()

	handler, stop := routes(application)
	defer stop()

	server := httptest.NewServer(handler)
	defer server.Close()

	tests := []struct {
		path   string
		status int
	}{
		{"/health", http.StatusOK},
		{"/debug/?dataType=stats&token=TEST", http.StatusOK},
		{"/debug/?dataType=stats", http.StatusForbidden},
		{"/frete?token=TEST&destino=01001000&prods=2;1;1;0;2;50;PROD1;0&km=150", http.StatusOK},
		{"/distancia/01001000", http.StatusForbidden},
		{"/nao-existe", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(server.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		})
	}
}
