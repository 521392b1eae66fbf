package app

import (
	"crypto/subtle"
	"net/http"

	"frete.bakoflog.com.br/internal/utils"
)

// RequestHasInvalidToken checks the token query or form parameter.
func (app *Application) RequestHasInvalidToken(r *http.Request) bool {
	return app.IsInvalidToken(utils.FormValue(r, "token"))
}

// IsInvalidToken compares in constant time. With no token configured every
// value is invalid.
func (app *Application) IsInvalidToken(token string) bool {
	if token == "" || app.Config.Token == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(app.Config.Token)) != 1
}
