package restapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreserveSemicolons(t *testing.T) {
	var prods, token string
	handler := preserveSemicolons(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prods = r.FormValue("prods")
		token = r.FormValue("token")
	}))

	req := httptest.NewRequest("GET", "/frete?token=TEST&prods=2;1;1;0;2;50;PROD1;0/1;1;1;0;1;5;X;0", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "TEST", token)
	assert.Equal(t, "2;1;1;0;2;50;PROD1;0/1;1;1;0;1;5;X;0", prods)
	assert.Equal(t, "token=TEST&prods=2;1;1;0;2;50;PROD1;0/1;1;1;0;1;5;X;0", req.URL.RawQuery, "the caller's request is not modified")
}

func TestFreteHandlerRawSemicolons(t *testing.T) {
	api, _ := createTestApi(t, testRules)

	rec := serve(t, api, httptest.NewRequest(http.MethodGet, "/frete?token=TEST&destino=90010000&prods=2;1;1;0;2;50;PROD1;0", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decodeFrete(t, rec.Body)
	require.Len(t, doc.Servicos, 2)
	assert.InDelta(t, 494.12, float64(doc.Servicos[0].Valor), 1e-9)
}

func TestPreserveSemicolonsInFormBody(t *testing.T) {
	var prods, destino string
	handler := preserveSemicolons(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prods = r.FormValue("prods")
		destino = r.FormValue("destino")
	}))

	req := httptest.NewRequest(http.MethodPost, "/frete", strings.NewReader("destino=90010000&prods=2;1;1;0;2;50;PROD1;0"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "90010000", destino)
	assert.Equal(t, "2;1;1;0;2;50;PROD1;0", prods)
}

func TestPreserveSemicolonsLeavesOtherBodiesAlone(t *testing.T) {
	var body string
	handler := preserveSemicolons(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(b)
	}))

	req := httptest.NewRequest(http.MethodPost, "/frete", strings.NewReader(`{"prods":"1;1;1;0;1;1;X;0"}`))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, `{"prods":"1;1;1;0;1;1;X;0"}`, body)
}

func TestFreteHandlerRawSemicolonsInPostBody(t *testing.T) {
	api, _ := createTestApi(t, testRules)

	req := httptest.NewRequest(http.MethodPost, "/frete", strings.NewReader("token=TEST&destino=90010000&prods=2;1;1;0;2;50;PROD1;0"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(t, api, req)
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decodeFrete(t, rec.Body)
	require.Len(t, doc.Servicos, 2)
	assert.Zero(t, doc.Servicos[0].Erro, doc.Servicos[0].MsgErro)
	assert.InDelta(t, 494.12, float64(doc.Servicos[0].Valor), 1e-9)
	assert.InDelta(t, 592.94, float64(doc.Servicos[1].Valor), 1e-9)
}
