package restapi

import (
	"errors"
	"log/slog"
	"net/http"

	"frete.bakoflog.com.br/internal/logging"
	"frete.bakoflog.com.br/internal/models"
	"frete.bakoflog.com.br/internal/quote"
)

// freteHandler answers the e-commerce platform. Every response, including
// failures, is a <frete> document.
func (api *RestAPI) freteHandler(w http.ResponseWriter, r *http.Request) {
	if api.RequestHasInvalidToken(r) {
		api.freteErrorResponse(w, r, http.StatusForbidden, msgInvalidToken)
		return
	}

	req, missing, fieldErrors := parseQuoteRequest(r)
	if len(missing) > 0 {
		api.freteErrorResponse(w, r, http.StatusBadRequest, msgMissingParams)
		return
	}
	if len(fieldErrors) > 0 {
		api.freteErrorResponse(w, r, http.StatusBadRequest, describeFieldErrors(fieldErrors))
		return
	}

	result, err := api.Quotes.Quote(r.Context(), req)
	if err != nil {
		if errors.Is(err, quote.ErrNoValidItems) {
			logging.Component(logging.FromContext(r.Context()), "frete_handler").Info("quote rejected",
				slog.String("reason", err.Error()))
			api.freteErrorResponse(w, r, http.StatusOK, msgNoValidItems)
			return
		}
		logging.LogError(logging.Component(logging.FromContext(r.Context()), "frete_handler"), "quote failed", err)
		api.freteErrorResponse(w, r, http.StatusInternalServerError, msgInternalError)
		return
	}

	api.sendXML(w, r, http.StatusOK, newFreteResponse(result))
}

func newFreteResponse(result quote.Result) models.FreteResponse {
	doc := models.FreteResponse{Servicos: make([]models.Servico, 0, len(result.Services))}
	for _, s := range result.Services {
		doc.Servicos = append(doc.Servicos, models.Servico{
			Codigo: s.Code,
			Valor:  models.Money(s.Price),
			Prazo:  s.LeadTimeMax,
		})
	}
	return doc
}
