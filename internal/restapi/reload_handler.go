package restapi

import (
	"net/http"

	"frete.bakoflog.com.br/internal/logging"
	"frete.bakoflog.com.br/internal/models"
)

// reloadHandler re-reads the workbook and rules. On failure the previous
// data stays active and the response says so.
func (api *RestAPI) reloadHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := api.Reference.Reload(r.Context())
	if err != nil {
		logging.LogError(logging.Component(logging.FromContext(r.Context()), "reload_handler"),
			"reload failed, keeping previous reference data", err)
		api.sendResponseStatus(w, r, http.StatusInternalServerError,
			models.NewResponse(http.StatusInternalServerError, snap.Stats(), "reload failed: "+err.Error()))
		return
	}
	api.sendResponse(w, r, models.NewOKResponse(snap.Stats()))
}
