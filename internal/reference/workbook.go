package reference

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"frete.bakoflog.com.br/internal/distance"
	"frete.bakoflog.com.br/internal/utils"
)

var (
	// ErrWorkbookUnreadable is returned when the workbook cannot be opened at all.
	ErrWorkbookUnreadable = errors.New("workbook unreadable")
	ErrSheetMissing       = errors.New("sheet not found")
	ErrConstantMissing    = errors.New("constant not found")
)

// WorkbookOptions names the sheets and columns the loader reads. Columns are
// spreadsheet letters.
type WorkbookOptions struct {
	ConstantsSheet string
	CatalogSheet   string
	RangesSheet    string

	NameColumn string
	Dim1Column string
	Dim2Column string

	Defaults Constants
}

func DefaultWorkbookOptions() WorkbookOptions {
	return WorkbookOptions{
		ConstantsSheet: "D",
		CatalogSheet:   "CADASTRO_PRODUTO",
		RangesSheet:    "FAIXAS_CEP",
		NameColumn:     "C",
		Dim1Column:     "D",
		Dim2Column:     "E",
		Defaults:       DefaultConstants(),
	}
}

// withDefaults fills every unset option from DefaultWorkbookOptions.
func (o WorkbookOptions) withDefaults() WorkbookOptions {
	d := DefaultWorkbookOptions()
	if o.ConstantsSheet == "" {
		o.ConstantsSheet = d.ConstantsSheet
	}
	if o.CatalogSheet == "" {
		o.CatalogSheet = d.CatalogSheet
	}
	if o.RangesSheet == "" {
		o.RangesSheet = d.RangesSheet
	}
	if o.NameColumn == "" {
		o.NameColumn = d.NameColumn
	}
	if o.Dim1Column == "" {
		o.Dim1Column = d.Dim1Column
	}
	if o.Dim2Column == "" {
		o.Dim2Column = d.Dim2Column
	}
	if o.Defaults.PricePerKm <= 0 {
		o.Defaults.PricePerKm = d.Defaults.PricePerKm
	}
	if o.Defaults.TruckLength <= 0 {
		o.Defaults.TruckLength = d.Defaults.TruckLength
	}
	return o
}

// Workbook is the data extracted from the spreadsheet.
type Workbook struct {
	Constants Constants
	Catalog   *Catalog
	Ranges    []distance.Range

	// CatalogDropped and RangesSkipped count rows that did not make it in.
	CatalogDropped int
	RangesSkipped  int
}

func emptyWorkbook(defaults Constants) Workbook {
	catalog, _ := NewCatalog(nil)
	return Workbook{Constants: defaults, Catalog: catalog}
}

// LoadWorkbook reads constants, catalog and postal code ranges from an xlsx
// file. It never fails: every problem degrades to defaults or empty tables
// and is reported in the returned slice. An error wrapping
// ErrWorkbookUnreadable means nothing at all could be read.
func LoadWorkbook(path string, opts WorkbookOptions) (Workbook, []error) {
	opts = opts.withDefaults()
	wb := emptyWorkbook(opts.Defaults)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return wb, []error{fmt.Errorf("%w: %s: %v", ErrWorkbookUnreadable, path, err)}
	}
	defer func() { _ = f.Close() }()

	var warnings []error

	rows, err := sheetRows(f, opts.ConstantsSheet)
	if err != nil {
		warnings = append(warnings, err)
	}
	wb.Constants, warnings = readConstants(rows, opts.Defaults, warnings)

	if rows, err := sheetRows(f, opts.CatalogSheet); err != nil {
		warnings = append(warnings, err)
	} else if catalog, dropped, err := readCatalog(rows, opts); err != nil {
		warnings = append(warnings, err)
	} else {
		wb.Catalog, wb.CatalogDropped = catalog, dropped
	}

	if rows, err := sheetRows(f, opts.RangesSheet); err != nil {
		warnings = append(warnings, err)
	} else {
		wb.Ranges, wb.RangesSkipped = readRanges(rows)
	}

	return wb, warnings
}

// sheetRows returns the raw cell values of a sheet, matching its name
// case-insensitively.
func sheetRows(f *excelize.File, name string) ([][]string, error) {
	for _, sheet := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(sheet), strings.TrimSpace(name)) {
			rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
			if err != nil {
				return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
			}
			return rows, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSheetMissing, name)
}

func readConstants(rows [][]string, defaults Constants, warnings []error) (Constants, []error) {
	c := defaults
	if v, ok := extractConstant(rows, pricePerKmSpec); ok {
		c.PricePerKm = v
	} else if rows != nil {
		warnings = append(warnings, fmt.Errorf("%w: %s, using %.2f", ErrConstantMissing, pricePerKmSpec.name, defaults.PricePerKm))
	}
	if v, ok := extractConstant(rows, truckLengthSpec); ok {
		c.TruckLength = v
	} else if rows != nil {
		warnings = append(warnings, fmt.Errorf("%w: %s, using %.2f", ErrConstantMissing, truckLengthSpec.name, defaults.TruckLength))
	}
	return c, warnings
}

func readCatalog(rows [][]string, opts WorkbookOptions) (*Catalog, int, error) {
	nameCol, err := columnIndex(opts.NameColumn)
	if err != nil {
		return nil, 0, err
	}
	dim1Col, err := columnIndex(opts.Dim1Column)
	if err != nil {
		return nil, 0, err
	}
	dim2Col, err := columnIndex(opts.Dim2Column)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]CatalogEntry, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		name := cellAt(row, nameCol)
		if strings.TrimSpace(name) == "" {
			continue
		}
		dim1, ok1 := cellNumber(cellAt(row, dim1Col))
		dim2, ok2 := cellNumber(cellAt(row, dim2Col))
		if !ok1 && !ok2 {
			skipped++
			continue
		}
		entries = append(entries, NewCatalogEntry(name, dim1, dim2))
	}
	catalog, dropped := NewCatalog(entries)
	return catalog, skipped + dropped, nil
}

// readRanges parses rows of start CEP, end CEP, km and an optional origin
// CEP. Header and malformed rows are skipped and counted.
func readRanges(rows [][]string) ([]distance.Range, int) {
	ranges := make([]distance.Range, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		start, ok := utils.PadPostalCode(cellAt(row, 0))
		if !ok {
			skipped++
			continue
		}
		end, ok := utils.PadPostalCode(cellAt(row, 1))
		if !ok {
			skipped++
			continue
		}
		km, ok := cellNumber(cellAt(row, 2))
		if !ok || km <= 0 {
			skipped++
			continue
		}
		origin := ""
		if raw := strings.TrimSpace(cellAt(row, 3)); raw != "" {
			if origin, ok = utils.PadPostalCode(raw); !ok {
				skipped++
				continue
			}
		}

		s, _ := utils.PostalCodeNumber(start)
		e, _ := utils.PostalCodeNumber(end)
		if s > e {
			skipped++
			continue
		}
		ranges = append(ranges, distance.Range{Start: s, End: e, Km: km, Origin: origin})
	}
	return ranges, skipped
}

func columnIndex(letters string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(letters))
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", letters, err)
	}
	return n - 1, nil
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
