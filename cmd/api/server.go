package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"frete.bakoflog.com.br/internal/app"
	"frete.bakoflog.com.br/internal/logging"
	"frete.bakoflog.com.br/internal/restapi"
	"frete.bakoflog.com.br/internal/webui"
)

const (
	watchDebounce   = 2 * time.Second
	shutdownTimeout = 15 * time.Second
)

// routes wires the API and the debug page into one handler. The returned
// stop function releases the middleware's background work.
func routes(application *app.Application) (http.Handler, func()) {
	router := httprouter.New()

	api := restapi.NewRestAPI(application)
	api.SetRoutes(router)
	webui.New(application).SetWebUIRoutes(router)

	return api.Handler(router), api.Stop
}

// serve runs the HTTP server until SIGINT or SIGTERM, then drains in-flight
// requests.
func serve(application *app.Application) error {
	handler, stop := routes(application)
	defer stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", application.Config.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(application.Logger.Handler(), slog.LevelError),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logging.LogOperation(application.Logger, "starting server",
			slog.String("addr", srv.Addr),
			slog.String("env", application.Config.Env.String()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.LogOperation(application.Logger, "shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
