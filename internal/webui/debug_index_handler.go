package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

// dataTypes lists the sections the page can show, in menu order.
var dataTypes = []string{"stats", "constants", "catalog", "ranges", "rules", "warnings"}

type debugData struct {
	Title     string
	Pre       string
	Token     string
	DataTypes []string
}

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func writeDebugData(w http.ResponseWriter, title, token string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	dataStruct := debugData{
		Title:     title,
		Pre:       spewConfig.Sdump(data),
		Token:     token,
		DataTypes: dataTypes,
	}

	err := debugTemplate.Execute(w, dataStruct)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.RequestHasInvalidToken(r) {
		http.Error(w, "Token inválido", http.StatusForbidden)
		return
	}

	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	snap := webUI.Reference.Snapshot()

	switch dataType {
	case "stats":
		data = snap.Stats()
		title = "Reference Data - Summary"
	case "constants":
		data = snap.Constants
		title = "Reference Data - Constants"
	case "catalog":
		data = snap.Catalog.Entries()
		title = "Reference Data - Product Catalog"
	case "ranges":
		data = snap.Ranges
		title = "Reference Data - Postal Code Ranges"
	case "rules":
		data = snap.Rules
		title = "Reference Data - Rules"
	case "warnings":
		data = snap.Warnings
		title = "Reference Data - Load Warnings"
	default:
		data = map[string]string{
			"error": "Please use one of the following: stats, constants, catalog, ranges, rules, warnings.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, r.URL.Query().Get("token"), data)
}
