package utils

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// ParamFromRequest retrieves a route parameter set by httprouter and removes
// format suffixes like ".json" or ".xml".
func ParamFromRequest(r *http.Request, paramName string) string {
	params := httprouter.ParamsFromContext(r.Context())
	raw := params.ByName(paramName)
	for _, ext := range []string{".json", ".xml"} {
		raw = strings.TrimSuffix(raw, ext)
	}
	return raw
}

// FormValue reads a query or form parameter, trying each alias in order.
// The platform and older integrations spell some parameters differently.
func FormValue(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(r.FormValue(name)); v != "" {
			return v
		}
	}
	return ""
}
