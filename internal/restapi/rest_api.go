package restapi

import (
	"net/http"
	"time"

	"frete.bakoflog.com.br/internal/app"
	"frete.bakoflog.com.br/internal/utils"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter.
// Stop must be called to release the limiter's cleanup goroutine.
func NewRestAPI(app *app.Application) *RestAPI {
	api := &RestAPI{Application: app}
	api.rateLimiter = NewRateLimitMiddleware(app.Config.RateLimit, time.Second, tokenKey, api.rateLimitedResponse)
	return api
}

// Stop releases background resources of the API layer.
func (api *RestAPI) Stop() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}

func tokenKey(r *http.Request) string {
	return utils.FormValue(r, "token")
}
