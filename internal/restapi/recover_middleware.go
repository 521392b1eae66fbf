package restapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"frete.bakoflog.com.br/internal/logging"
)

// recoverPanic turns a handler panic into the endpoint's error document
// instead of a dropped connection.
func (api *RestAPI) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err := fmt.Errorf("panic: %v", rec)
			logging.LogError(logging.FromContext(r.Context()), "handler panicked", err,
				slog.String("path", r.URL.Path),
				slog.String("stack", string(debug.Stack())),
				slog.String("component", "http_server"))

			w.Header().Set("Connection", "close")
			switch {
			case strings.HasPrefix(r.URL.Path, "/frete"):
				api.freteErrorResponse(w, r, http.StatusInternalServerError, msgInternalError)
			case strings.HasPrefix(r.URL.Path, "/cotacao"):
				plainTextError(w, http.StatusInternalServerError, msgInternalError)
			default:
				api.serverErrorResponse(w, r, err)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
