package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"frete.bakoflog.com.br/internal/models"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateToken(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidToken(r) {
			api.invalidTokenResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// SetRoutes registers the API endpoints. The quote endpoints check the token
// themselves because each renders its own error format.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		router.HandlerFunc(method, "/frete", api.freteHandler)
		router.HandlerFunc(method, "/cotacao", api.cotacaoHandler)
	}
	router.HandlerFunc(http.MethodGet, "/health", api.healthHandler)
	router.Handler(http.MethodGet, "/distancia/:cep", validateToken(api, api.distanceHandler))
	router.Handler(http.MethodPost, "/admin/reload", validateToken(api, api.reloadHandler))

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}

// Handler wraps the router in the middleware stack, outermost first:
// request logging, panic recovery, security headers, compression, query
// fix-up and the per-token rate limit.
func (api *RestAPI) Handler(router http.Handler) http.Handler {
	var h http.Handler = router
	h = api.rateLimiter.Handler(h)
	h = preserveSemicolons(h)
	h = CompressionMiddleware(h)
	h = api.WithSecurityHeaders(h)
	h = api.recoverPanic(h)
	h = NewRequestLoggingMiddleware(api.Logger)(h)
	return h
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	api.sendResponseStatus(w, r, http.StatusNotFound,
		models.NewResponse(http.StatusNotFound, nil, "resource not found"))
}
