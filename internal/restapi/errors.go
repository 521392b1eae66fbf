package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"frete.bakoflog.com.br/internal/logging"
	"frete.bakoflog.com.br/internal/models"
)

// Messages shown to the platform in msg_erro.
const (
	msgInvalidToken   = "Token inválido"
	msgMissingParams  = "Parâmetros insuficientes"
	msgNoValidItems   = "Nenhum produto válido"
	msgInternalError  = "Erro interno ao calcular o frete"
	msgTooManyRequest = "Muitas requisições, tente novamente"
)

// invalidTokenResponse sends a 403 Forbidden response for the JSON endpoints.
func (api *RestAPI) invalidTokenResponse(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Code        int    `json:"code"`
		CurrentTime int64  `json:"currentTime"`
		Text        string `json:"text"`
		Version     int    `json:"version"`
	}{
		Code:        http.StatusForbidden,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        "permission denied",
		Version:     1,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.Logger.Error("failed to encode invalid token response", "error", err)
	}
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "request failed", err,
		slog.String("path", r.URL.Path),
		slog.String("component", "http_server"))

	response := struct {
		Code        int    `json:"code"`
		CurrentTime int64  `json:"currentTime"`
		Text        string `json:"text"`
		Version     int    `json:"version"`
	}{
		Code:        http.StatusInternalServerError,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        "internal server error",
		Version:     1,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	encoderErr := json.NewEncoder(w).Encode(response)
	if encoderErr != nil {
		api.Logger.Error("failed to encode server error response", "error", encoderErr)
	}
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.Logger.Error("failed to encode validation error response", "error", err)
	}
}

// freteErrorResponse renders the platform error document. The platform
// expects XML even when the request failed.
func (api *RestAPI) freteErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	api.sendXML(w, r, status, models.NewFreteError(message))
}

// plainTextError is used by the detailed quote endpoint.
func plainTextError(w http.ResponseWriter, status int, message string) {
	http.Error(w, message, status)
}

// rateLimitedResponse renders a 429 in the format of the endpoint that was hit.
func (api *RestAPI) rateLimitedResponse(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/frete"):
		api.freteErrorResponse(w, r, http.StatusTooManyRequests, msgTooManyRequest)
	case strings.HasPrefix(r.URL.Path, "/cotacao"):
		plainTextError(w, http.StatusTooManyRequests, msgTooManyRequest)
	default:
		api.sendResponseStatus(w, r, http.StatusTooManyRequests,
			models.NewResponse(http.StatusTooManyRequests, nil, "rate limit exceeded"))
	}
}
