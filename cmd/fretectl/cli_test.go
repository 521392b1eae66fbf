package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRules = `
destinations:
  - name: PORTO ALEGRE
    cep: "90010000"
    km: 150
`

func writeRules(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regras.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testRules), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestQuoteCommand(t *testing.T) {
	rules := writeRules(t)

	out, _, err := execute(t, "quote", "--rules", rules,
		"--destino", "90010000", "--prods", "2;1;1;0;2;50;PROD1;0")
	require.NoError(t, err)

	assert.Contains(t, out, "Distance: 150.0 km (municipio)")
	assert.Contains(t, out, "PROD1")
	assert.Contains(t, out, "247.06")
	assert.Contains(t, out, "Total: 494.12")
	assert.Contains(t, out, "592.94")
}

func TestQuoteCommandJSONToFile(t *testing.T) {
	rules := writeRules(t)
	target := filepath.Join(t.TempDir(), "cotacao.json")

	out, _, err := execute(t, "quote", "--rules", rules, "--format", "json", "--out", target,
		"--destino", "90010000", "--prods", "2;1;1;0;2;50;PROD1;0")
	require.NoError(t, err)
	assert.Empty(t, out)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	var result struct {
		Total    float64 `json:"total"`
		Services []struct {
			Code  string  `json:"code"`
			Price float64 `json:"price"`
		} `json:"services"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, 494.12, result.Total)
	require.Len(t, result.Services, 2)
	assert.Equal(t, "EXPR", result.Services[1].Code)
	assert.Equal(t, 592.94, result.Services[1].Price)
}

func TestQuoteCommandErrors(t *testing.T) {
	_, _, err := execute(t, "quote", "--destino", "90010000")
	assert.Error(t, err, "prods is required")

	_, _, err = execute(t, "quote", "--destino", "90010000", "--prods", "quebrado")
	assert.Error(t, err)

	_, _, err = execute(t, "quote", "--format", "yaml", "--destino", "90010000", "--prods", "2;1;1;0;2;50;PROD1;0")
	assert.Error(t, err)
}

func TestDistanceCommand(t *testing.T) {
	rules := writeRules(t)

	out, _, err := execute(t, "distance", "--rules", rules, "90010000", "01001-000", "123")
	require.NoError(t, err)

	assert.Contains(t, out, "90010000\t150.0 km\tmunicipio")
	assert.Contains(t, out, "01001-000\t1100.0 km\tuf_fallback\tSP")
	assert.Contains(t, out, "123\t100.0 km\tdefault")
}

func TestInspectCommand(t *testing.T) {
	rules := writeRules(t)

	out, _, err := execute(t, "inspect", "--rules", rules, "--format", "json")
	require.NoError(t, err)

	var report struct {
		Stats struct {
			Destinations int     `json:"destinations"`
			PricePerKm   float64 `json:"pricePerKm"`
			Services     int     `json:"services"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Stats.Destinations)
	assert.Equal(t, 7.0, report.Stats.PricePerKm)
	assert.Equal(t, 2, report.Stats.Services)
}
