package distance

import "sort"

// RegionTable maps a UF code to an approximate distance in km.
type RegionTable map[string]float64

type ufRange struct {
	start, end uint32
	uf         string
}

// Official CEP allocation per state. AM and DF/GO own more than one block.
var ufRanges = []ufRange{
	{1000000, 19999999, "SP"},
	{20000000, 28999999, "RJ"},
	{29000000, 29999999, "ES"},
	{30000000, 39999999, "MG"},
	{40000000, 48999999, "BA"},
	{49000000, 49999999, "SE"},
	{50000000, 56999999, "PE"},
	{57000000, 57999999, "AL"},
	{58000000, 58999999, "PB"},
	{59000000, 59999999, "RN"},
	{60000000, 63999999, "CE"},
	{64000000, 64999999, "PI"},
	{65000000, 65999999, "MA"},
	{66000000, 68899999, "PA"},
	{68900000, 68999999, "AP"},
	{69000000, 69299999, "AM"},
	{69300000, 69399999, "RR"},
	{69400000, 69899999, "AM"},
	{69900000, 69999999, "AC"},
	{70000000, 72799999, "DF"},
	{72800000, 72999999, "GO"},
	{73000000, 73699999, "DF"},
	{73700000, 76799999, "GO"},
	{76800000, 76999999, "RO"},
	{77000000, 77999999, "TO"},
	{78000000, 78899999, "MT"},
	{79000000, 79999999, "MS"},
	{80000000, 87999999, "PR"},
	{88000000, 89999999, "SC"},
	{90000000, 99999999, "RS"},
}

// DefaultRegionTable holds road distances from the factory in the RS
// interior to a typical destination in each state.
func DefaultRegionTable() RegionTable {
	return RegionTable{
		"RS": 350,
		"SC": 550,
		"PR": 800,
		"SP": 1100,
		"MS": 1300,
		"RJ": 1500,
		"MG": 1600,
		"GO": 1900,
		"ES": 2000,
		"DF": 2100,
		"MT": 2100,
		"TO": 2600,
		"BA": 2700,
		"RO": 3000,
		"SE": 3200,
		"AL": 3400,
		"PI": 3500,
		"MA": 3600,
		"PE": 3600,
		"PB": 3700,
		"PA": 3700,
		"RN": 3800,
		"AC": 3800,
		"CE": 3900,
		"AP": 4200,
		"AM": 4300,
		"RR": 4900,
	}
}

// Merge returns a copy of t with the entries of overrides applied on top.
func (t RegionTable) Merge(overrides map[string]float64) RegionTable {
	merged := make(RegionTable, len(t)+len(overrides))
	for uf, km := range t {
		merged[uf] = km
	}
	for uf, km := range overrides {
		if km > 0 {
			merged[uf] = km
		}
	}
	return merged
}

// RegionForPostalCode returns the UF that owns a numeric CEP, or "" when the
// code falls outside every allocated block.
func RegionForPostalCode(code uint32) string {
	i := sort.Search(len(ufRanges), func(i int) bool { return ufRanges[i].end >= code })
	if i < len(ufRanges) && ufRanges[i].start <= code {
		return ufRanges[i].uf
	}
	return ""
}
