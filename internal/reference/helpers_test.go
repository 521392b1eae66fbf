package reference

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// testSheets maps sheet names to rows written from A1.
type testSheets map[string][][]any

func writeWorkbook(t *testing.T, path string, sheets testSheets) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(name, cell, &r))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func sampleSheets() testSheets {
	return testSheets{
		"D": {
			{"Parâmetros de frete"},
			{"Valor KM (R$) vigente desde", 2024},
			{"VALOR KM", 7.5},
			{"Tamanho caminhão", "", 9.2},
		},
		"CADASTRO_PRODUTO": {
			{"", "", "NOME", "ALTURA", "LARGURA"},
			{"", "", "Tanque Vertical 5000L", 2.5, 1.8},
			{"", "", "TC ATE 10.000 L", 3.0, 4.2},
			{"", "", "  tanque   vertical 5000l ", 9, 9},
			{"", "", "OBS: medidas em metros", 0, 0},
			{"", "", "Caixa d'água 1000L", 1.1, 1.5},
			{"", "", "Fossa séptica 1500L", 1.6, 1.4},
		},
		"FAIXAS_CEP": {
			{"INICIO", "FIM", "KM"},
			{89999999, 91999999, 150},
			{"1310100", "1399999", 1100},
			{"95000000", "94000000", 10},
			{"abc", "", ""},
			{90000000, 91999999, 40, 90200000},
		},
	}
}

func sampleWorkbook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tabela.xlsx")
	writeWorkbook(t, path, sampleSheets())
	return path
}
