package distance

import (
	"sort"
)

// Range maps an inclusive CEP interval to a distance in km. Origin, when set,
// restricts the range to quotes leaving from that CEP.
type Range struct {
	Start  uint32
	End    uint32
	Km     float64
	Origin string
}

// Contains reports whether code lies inside the range.
func (r Range) Contains(code uint32) bool {
	return r.Start <= code && code <= r.End
}

// RangeTable is an immutable, sorted set of ranges.
//
// Ranges are ordered by (Start, End). When ranges overlap, the first one in
// that order that contains the code wins, i.e. the range with the lowest
// start. maxEnd[i] is the largest End among ranges[0..i], which makes that
// rule answerable with two binary searches.
type RangeTable struct {
	ranges   []Range
	maxEnd   []uint32
	maxIdx   []int
	overlaps int
}

// NewRangeTable sorts and de-duplicates ranges. Entries with Start > End or a
// non-positive distance are dropped. For duplicate intervals the first
// occurrence in the input wins.
func NewRangeTable(ranges []Range) *RangeTable {
	valid := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Start > r.End || r.Km <= 0 {
			continue
		}
		valid = append(valid, r)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].Start != valid[j].Start {
			return valid[i].Start < valid[j].Start
		}
		return valid[i].End < valid[j].End
	})

	deduped := valid[:0]
	for i, r := range valid {
		if i > 0 && r.Start == valid[i-1].Start && r.End == valid[i-1].End {
			continue
		}
		deduped = append(deduped, r)
	}

	t := &RangeTable{
		ranges: deduped,
		maxEnd: make([]uint32, len(deduped)),
		maxIdx: make([]int, len(deduped)),
	}
	for i, r := range deduped {
		if i == 0 || r.End > t.maxEnd[i-1] {
			t.maxEnd[i] = r.End
			t.maxIdx[i] = i
		} else {
			t.maxEnd[i] = t.maxEnd[i-1]
			t.maxIdx[i] = t.maxIdx[i-1]
		}
		if i > 0 && r.Start <= t.maxEnd[i-1] {
			t.overlaps++
		}
	}
	return t
}

// Len returns the number of ranges kept.
func (t *RangeTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ranges)
}

// Overlaps returns how many ranges start inside an earlier one.
func (t *RangeTable) Overlaps() int {
	if t == nil {
		return 0
	}
	return t.overlaps
}

// Ranges returns a copy of the sorted ranges.
func (t *RangeTable) Ranges() []Range {
	if t == nil {
		return nil
	}
	out := make([]Range, len(t.ranges))
	copy(out, t.ranges)
	return out
}

// lastStartingAtOrBefore returns the index of the last range with Start <= code, or -1.
func (t *RangeTable) lastStartingAtOrBefore(code uint32) int {
	return sort.Search(len(t.ranges), func(i int) bool { return t.ranges[i].Start > code }) - 1
}

// Lookup finds the range containing code.
func (t *RangeTable) Lookup(code uint32) (Range, bool) {
	if t.Len() == 0 {
		return Range{}, false
	}
	idx := t.lastStartingAtOrBefore(code)
	if idx < 0 {
		return Range{}, false
	}
	j := sort.Search(idx+1, func(i int) bool { return t.maxEnd[i] >= code })
	if j > idx {
		return Range{}, false
	}
	return t.ranges[j], true
}

// Nearest returns the range whose boundary is numerically closest to code,
// together with the gap. Ties go to the range below the code. Ranges further
// than maxGap away are not returned; a zero maxGap disables the search.
func (t *RangeTable) Nearest(code uint32, maxGap uint32) (Range, uint32, bool) {
	if t.Len() == 0 || maxGap == 0 {
		return Range{}, 0, false
	}
	if r, ok := t.Lookup(code); ok {
		return r, 0, true
	}

	idx := t.lastStartingAtOrBefore(code)

	best := -1
	var bestGap uint32
	if idx >= 0 {
		best = t.maxIdx[idx]
		bestGap = code - t.maxEnd[idx]
	}
	if next := idx + 1; next < len(t.ranges) {
		gap := t.ranges[next].Start - code
		if best < 0 || gap < bestGap {
			best, bestGap = next, gap
		}
	}

	if best < 0 || bestGap > maxGap {
		return Range{}, 0, false
	}
	return t.ranges[best], bestGap, true
}
