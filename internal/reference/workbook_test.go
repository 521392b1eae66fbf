package reference

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frete.bakoflog.com.br/internal/distance"
	"frete.bakoflog.com.br/internal/sizing"
)

func TestLoadWorkbook(t *testing.T) {
	wb, warnings := LoadWorkbook(sampleWorkbook(t), DefaultWorkbookOptions())
	assert.Empty(t, warnings)

	t.Run("constants skip implausible values", func(t *testing.T) {
		assert.Equal(t, Constants{PricePerKm: 7.5, TruckLength: 9.2}, wb.Constants)
	})

	t.Run("catalog", func(t *testing.T) {
		require.Equal(t, 4, wb.Catalog.Len())
		assert.Equal(t, 3, wb.CatalogDropped, "header, duplicate and note rows")

		vertical, ok := wb.Catalog.Lookup("TANQUE VERTICAL 5000L")
		require.True(t, ok)
		assert.Equal(t, 2.5, vertical.ControlSize, "first occurrence wins")
		assert.Equal(t, sizing.Vertical, vertical.Category)
		assert.Equal(t, "Tanque Vertical 5000L", vertical.Name)

		tc, ok := wb.Catalog.Lookup("tc ate 10.000 l")
		require.True(t, ok)
		assert.Equal(t, 4.2, tc.ControlSize)

		water, ok := wb.Catalog.Lookup("CAIXA D'AGUA 1000L")
		require.True(t, ok)
		assert.Equal(t, 1.5, water.ControlSize)

		fossa, ok := wb.Catalog.Lookup("fossa septica 1500l")
		require.True(t, ok)
		assert.Equal(t, 1.6, fossa.ControlSize)

		_, ok = wb.Catalog.Lookup("OBS: medidas em metros")
		assert.False(t, ok)
	})

	t.Run("ranges", func(t *testing.T) {
		want := []distance.Range{
			{Start: 89999999, End: 91999999, Km: 150},
			{Start: 1310100, End: 1399999, Km: 1100},
			{Start: 90000000, End: 91999999, Km: 40, Origin: "90200000"},
		}
		if diff := cmp.Diff(want, wb.Ranges); diff != "" {
			t.Errorf("ranges mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 3, wb.RangesSkipped)
	})
}

func TestLoadWorkbookDegrades(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		wb, warnings := LoadWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"), DefaultWorkbookOptions())
		require.Len(t, warnings, 1)
		assert.True(t, errors.Is(warnings[0], ErrWorkbookUnreadable))
		assert.Equal(t, DefaultConstants(), wb.Constants)
		assert.Equal(t, 0, wb.Catalog.Len())
		assert.Empty(t, wb.Ranges)
	})

	t.Run("not a spreadsheet", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o600))

		wb, warnings := LoadWorkbook(path, DefaultWorkbookOptions())
		require.NotEmpty(t, warnings)
		assert.ErrorIs(t, warnings[0], ErrWorkbookUnreadable)
		assert.Equal(t, DefaultConstants(), wb.Constants)
	})

	t.Run("missing sheets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.xlsx")
		writeWorkbook(t, path, testSheets{"Outra": {{"nada"}}})

		wb, warnings := LoadWorkbook(path, DefaultWorkbookOptions())
		require.Len(t, warnings, 3)
		for _, w := range warnings {
			assert.ErrorIs(t, w, ErrSheetMissing)
		}
		assert.Equal(t, DefaultConstants(), wb.Constants)
		assert.Equal(t, 0, wb.Catalog.Len())
	})

	t.Run("constant row without plausible value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "noconst.xlsx")
		writeWorkbook(t, path, testSheets{
			"d":                {{"VALOR KM", 120}},
			"CADASTRO_PRODUTO": {},
			"FAIXAS_CEP":       {},
		})

		wb, warnings := LoadWorkbook(path, WorkbookOptions{Defaults: Constants{PricePerKm: 6}})
		assert.Equal(t, Constants{PricePerKm: 6, TruckLength: DefaultTruckLength}, wb.Constants)
		require.Len(t, warnings, 2)
		assert.ErrorIs(t, warnings[0], ErrConstantMissing)
		assert.ErrorIs(t, warnings[1], ErrConstantMissing)
	})
}

func TestLoadWorkbookCustomColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cols.xlsx")
	writeWorkbook(t, path, testSheets{
		"Produtos": {{"Tanque horizontal 15000L", 2.8, 2.4}},
	})

	opts := DefaultWorkbookOptions()
	opts.CatalogSheet = "produtos"
	opts.NameColumn, opts.Dim1Column, opts.Dim2Column = "A", "B", "C"

	wb, _ := LoadWorkbook(path, opts)
	entry, ok := wb.Catalog.Lookup("TANQUE HORIZONTAL 15000L")
	require.True(t, ok)
	assert.Equal(t, 2.4, entry.ControlSize)
}

func TestExtractConstant(t *testing.T) {
	rows := [][]string{
		{"Preço por km", "R$ 8,40"},
		{"Comprimento do caminhão", "abc", "14"},
	}
	v, ok := extractConstant(rows, pricePerKmSpec)
	require.True(t, ok)
	assert.Equal(t, 8.4, v)

	v, ok = extractConstant(rows, truckLengthSpec)
	require.True(t, ok)
	assert.Equal(t, 14.0, v)

	_, ok = extractConstant(nil, truckLengthSpec)
	assert.False(t, ok)
}
