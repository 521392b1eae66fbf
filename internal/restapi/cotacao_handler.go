package restapi

import (
	"errors"
	"net/http"

	"frete.bakoflog.com.br/internal/logging"
	"frete.bakoflog.com.br/internal/models"
	"frete.bakoflog.com.br/internal/quote"
)

// cotacaoHandler returns the detailed quote with the per-item breakdown.
// Errors are plain text.
func (api *RestAPI) cotacaoHandler(w http.ResponseWriter, r *http.Request) {
	if api.RequestHasInvalidToken(r) {
		plainTextError(w, http.StatusForbidden, msgInvalidToken)
		return
	}

	req, missing, fieldErrors := parseQuoteRequest(r)
	if len(missing) > 0 {
		plainTextError(w, http.StatusBadRequest, msgMissingParams)
		return
	}
	if len(fieldErrors) > 0 {
		plainTextError(w, http.StatusBadRequest, describeFieldErrors(fieldErrors))
		return
	}

	result, err := api.Quotes.Quote(r.Context(), req)
	if err != nil {
		if errors.Is(err, quote.ErrNoValidItems) {
			plainTextError(w, http.StatusBadRequest, msgNoValidItems)
			return
		}
		logging.LogError(logging.Component(logging.FromContext(r.Context()), "cotacao_handler"), "quote failed", err)
		plainTextError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	api.sendXML(w, r, http.StatusOK, newCotacao(result))
}

func newCotacao(result quote.Result) models.Cotacao {
	detalhes := make([]models.ItemDetalhe, 0, len(result.Items))
	for _, item := range result.Items {
		detalhes = append(detalhes, models.ItemDetalhe{
			Codigo:          item.ProductCode,
			Quantidade:      item.Quantity,
			Categoria:       item.Category,
			TamanhoControle: models.Meters(item.ControlSize),
			OrigemTamanho:   item.SizeSource,
			Km:              models.Kilometers(item.Km),
			ValorUnitario:   models.Money(item.UnitPrice),
			Valor:           models.Money(item.Total),
		})
	}

	doc := models.Cotacao{
		Resultados: make([]models.Resultado, 0, len(result.Services)),
		Distancia: &models.Distancia{
			Km:     models.Kilometers(result.Distance.Km),
			Origem: string(result.Distance.Source),
			CEP:    result.Distance.PostalCode,
			UF:     result.Distance.Region,
		},
	}
	for _, s := range result.Services {
		doc.Resultados = append(doc.Resultados, models.Resultado{
			Codigo:            s.Code,
			Transportadora:    models.DefaultCarrier,
			Servico:           s.Name,
			Transporte:        models.DefaultTransport,
			Valor:             models.Money(s.Price),
			PrazoMin:          s.LeadTimeMin,
			PrazoMax:          s.LeadTimeMax,
			EntregaDomiciliar: 1,
			Detalhes:          detalhes,
		})
	}
	for _, s := range result.Skipped {
		doc.AddIgnorado(s.Index, s.Reason)
	}
	return doc
}
