package restapi

import (
	"net/http"
	"strings"

	"frete.bakoflog.com.br/internal/quote"
	"frete.bakoflog.com.br/internal/utils"
)

// Bounds of the optional overrides. They exist for testing from a browser,
// so anything outside a believable range is a typo.
const (
	maxKmOverride    = 10000
	maxPricePerKm    = 1000
	maxTruckLength   = 100
	minTruckLength   = 0.5
	minPricePerKmArg = 0.01
)

// parseQuoteRequest reads the platform parameters shared by /frete and
// /cotacao. Missing parameters are reported separately from invalid ones.
func parseQuoteRequest(r *http.Request) (req quote.Request, missing []string, fieldErrors map[string][]string) {
	fieldErrors = make(map[string][]string)

	req.Destination = utils.FormValue(r, "cep_destino", "destino")
	req.Origin = utils.FormValue(r, "cep", "cep_origem")
	req.Items = utils.FormValue(r, "prods")

	if req.Destination == "" {
		missing = append(missing, "cep_destino")
	} else if err := utils.ValidatePostalCode(req.Destination); err != nil {
		fieldErrors["cep_destino"] = append(fieldErrors["cep_destino"], err.Error())
	}
	if req.Items == "" {
		missing = append(missing, "prods")
	} else if err := utils.ValidateItemsParam(req.Items); err != nil {
		fieldErrors["prods"] = append(fieldErrors["prods"], err.Error())
	}
	if req.Origin != "" {
		if err := utils.ValidatePostalCode(req.Origin); err != nil {
			fieldErrors["cep"] = append(fieldErrors["cep"], err.Error())
		}
	}

	// FormValue above already parsed the query and body into r.Form.
	var ok bool
	var v float64
	if v, ok, fieldErrors = utils.ParseFloatParam(r.Form, "km", fieldErrors); ok {
		if err := utils.ValidateOverride(v, 0, maxKmOverride); err != nil {
			fieldErrors["km"] = append(fieldErrors["km"], err.Error())
		} else {
			req.Km, req.HasKm = v, v > 0
		}
	}
	if v, ok, fieldErrors = utils.ParseFloatParam(r.Form, "valor_km", fieldErrors); ok {
		if err := utils.ValidateOverride(v, minPricePerKmArg, maxPricePerKm); err != nil {
			fieldErrors["valor_km"] = append(fieldErrors["valor_km"], err.Error())
		} else {
			req.PricePerKm = v
		}
	}
	if v, ok, fieldErrors = utils.ParseFloatParam(r.Form, "tamanho_caminhao", fieldErrors); ok {
		if err := utils.ValidateOverride(v, minTruckLength, maxTruckLength); err != nil {
			fieldErrors["tamanho_caminhao"] = append(fieldErrors["tamanho_caminhao"], err.Error())
		} else {
			req.TruckLength = v
		}
	}

	return req, missing, fieldErrors
}

// describeFieldErrors flattens validation errors into one line for the
// plain-text and XML error bodies.
func describeFieldErrors(fieldErrors map[string][]string) string {
	keys := []string{"cep_destino", "cep", "prods", "km", "valor_km", "tamanho_caminhao"}
	var parts []string
	for _, k := range keys {
		for _, msg := range fieldErrors[k] {
			parts = append(parts, k+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}
