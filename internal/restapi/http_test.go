package restapi

import (
	"bytes"
	"encoding/xml"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"frete.bakoflog.com.br/internal/app"
	"frete.bakoflog.com.br/internal/appconf"
	"frete.bakoflog.com.br/internal/logging"
	"frete.bakoflog.com.br/internal/models"
)

const testToken = "TEST"

// testRules gives the end-to-end destination a fixed distance.
const testRules = `
destinations:
  - name: PORTO ALEGRE
    cep: "90010000"
    km: 150
`

// createTestApi builds the API over reference data made only of defaults and
// the given rule file. Rate limiting is off unless the config says otherwise.
func createTestApi(t *testing.T, rules string, mutate ...func(*appconf.Config)) (*RestAPI, *bytes.Buffer) {
	t.Helper()

	cfg := appconf.Defaults()
	cfg.Env = appconf.Test
	cfg.Token = testToken
	cfg.RateLimit = -1
	if rules != "" {
		path := filepath.Join(t.TempDir(), "regras.yaml")
		require.NoError(t, os.WriteFile(path, []byte(rules), 0o644))
		cfg.RulesPath = path
	}
	for _, m := range mutate {
		m(&cfg)
	}

	var buf bytes.Buffer
	logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)
	application := app.New(cfg, logger)
	api := NewRestAPI(application)
	t.Cleanup(func() {
		api.Stop()
		application.Shutdown()
	})
	return api, &buf
}

func testHandler(api *RestAPI) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	return api.Handler(router)
}

func serve(t *testing.T, api *RestAPI, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	testHandler(api).ServeHTTP(rec, req)
	return rec
}

func freteQuery(params map[string]string) string {
	v := url.Values{}
	for k, val := range params {
		v.Set(k, val)
	}
	return v.Encode()
}

func decodeFrete(t *testing.T, body io.Reader) models.FreteResponse {
	t.Helper()
	var doc models.FreteResponse
	require.NoError(t, xml.NewDecoder(body).Decode(&doc))
	return doc
}

func formRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
