package reference

import (
	"strings"

	"frete.bakoflog.com.br/internal/sizing"
	"frete.bakoflog.com.br/internal/utils"
)

// CatalogEntry is one product of the catalog sheet.
type CatalogEntry struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Dim1        float64         `json:"dim1"`
	Dim2        float64         `json:"dim2"`
	Category    sizing.Category `json:"-"`
	ControlSize float64         `json:"controlSize"`
}

// Catalog maps normalized product names to entries. It is read-only once
// built.
type Catalog struct {
	entries map[string]CatalogEntry
	order   []string
}

// Header and note rows that share the name column with real products.
var ignoredNames = map[string]struct{}{
	"NOME":        {},
	"PRODUTO":     {},
	"PRODUTOS":    {},
	"DESCRICAO":   {},
	"MODELO":      {},
	"ITEM":        {},
	"CODIGO":      {},
	"OBS":         {},
	"OBSERVACAO":  {},
	"OBSERVACOES": {},
	"TOTAL":       {},
	"SUBTOTAL":    {},
}

// ProductKey is the form product names are compared in.
func ProductKey(name string) string {
	return utils.NormalizeText(name)
}

func isIgnoredName(key string) bool {
	if key == "" {
		return true
	}
	if _, ok := ignoredNames[key]; ok {
		return true
	}
	first := strings.TrimRight(strings.Fields(key)[0], ":.-")
	switch first {
	case "OBS", "OBSERVACAO", "OBSERVACOES", "TOTAL":
		return true
	}
	return false
}

// NewCatalogEntry classifies a product and computes its control size.
func NewCatalogEntry(name string, dim1, dim2 float64) CatalogEntry {
	cleaned := strings.Join(strings.Fields(name), " ")
	category := sizing.Classify(cleaned)
	return CatalogEntry{
		Key:         ProductKey(cleaned),
		Name:        cleaned,
		Dim1:        dim1,
		Dim2:        dim2,
		Category:    category,
		ControlSize: sizing.ForCategory(category, dim1, dim2),
	}
}

// NewCatalog keeps the first entry for every key and drops ignored names and
// entries without any positive dimension. It returns the number of entries
// dropped.
func NewCatalog(entries []CatalogEntry) (*Catalog, int) {
	c := &Catalog{entries: make(map[string]CatalogEntry, len(entries))}
	dropped := 0
	for _, e := range entries {
		if isIgnoredName(e.Key) || (e.Dim1 <= 0 && e.Dim2 <= 0) {
			dropped++
			continue
		}
		if _, dup := c.entries[e.Key]; dup {
			dropped++
			continue
		}
		c.entries[e.Key] = e
		c.order = append(c.order, e.Key)
	}
	return c, dropped
}

// Lookup finds a product by name or code in any spelling that normalizes to
// the same key.
func (c *Catalog) Lookup(name string) (CatalogEntry, bool) {
	if c == nil {
		return CatalogEntry{}, false
	}
	e, ok := c.entries[ProductKey(name)]
	return e, ok
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Entries returns the products in sheet order.
func (c *Catalog) Entries() []CatalogEntry {
	if c == nil {
		return nil
	}
	out := make([]CatalogEntry, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.entries[k])
	}
	return out
}
