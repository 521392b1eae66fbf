package restapi

import (
	"encoding/json"
	"encoding/xml"
	"log/slog"
	"net/http"

	"frete.bakoflog.com.br/internal/logging"
	"frete.bakoflog.com.br/internal/models"
)

const xmlContentType = "application/xml; charset=utf-8"

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	api.sendResponseStatus(w, r, http.StatusOK, response)
}

func (api *RestAPI) sendResponseStatus(w http.ResponseWriter, r *http.Request, status int, response models.ResponseModel) {
	setJSONResponseType(&w)
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to encode response", err,
			slog.String("component", "http_server"))
	}
}

// sendXML writes an XML document with its declaration. Encoding happens
// before the status is written so a failure can still become a 500.
func (api *RestAPI) sendXML(w http.ResponseWriter, r *http.Request, status int, doc any) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to encode xml response", err,
			slog.String("component", "http_server"))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xmlContentType)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(body)
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}
