package restapi

import (
	"net/http"

	"frete.bakoflog.com.br/internal/distance"
	"frete.bakoflog.com.br/internal/models"
	"frete.bakoflog.com.br/internal/utils"
)

// distanceHandler shows how a CEP resolves, for support staff checking the
// range table.
func (api *RestAPI) distanceHandler(w http.ResponseWriter, r *http.Request) {
	cep := utils.ParamFromRequest(r, "cep")
	origin := utils.FormValue(r, "origem", "cep")

	fieldErrors := make(map[string][]string)
	if err := utils.ValidatePostalCode(cep); err != nil {
		fieldErrors["cep"] = append(fieldErrors["cep"], err.Error())
	}
	if origin != "" {
		if err := utils.ValidatePostalCode(origin); err != nil {
			fieldErrors["origem"] = append(fieldErrors["origem"], err.Error())
		}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	snap := api.Reference.Snapshot()
	resolution := snap.Resolver.Resolve(r.Context(), distance.Query{Destination: cep, Origin: origin})
	api.sendResponse(w, r, models.NewOKResponse(resolution))
}
