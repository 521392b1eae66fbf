package restapi

import (
	"net/http"

	"frete.bakoflog.com.br/internal/models"
	"frete.bakoflog.com.br/internal/reference"
)

type healthData struct {
	Status    string          `json:"status"`
	Env       string          `json:"env"`
	Reference reference.Stats `json:"reference"`
}

// healthHandler needs no token: load balancers call it.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	snap := api.Reference.Snapshot()
	status := "ok"
	if snap.Catalog.Len() == 0 {
		status = "degraded"
	}
	api.sendResponse(w, r, models.NewOKResponse(healthData{
		Status:    status,
		Env:       api.Config.Env.String(),
		Reference: snap.Stats(),
	}))
}
