package analysis

import (
	"sort"
	"strings"
	"unicode"
)

// codepointRanges lists the emoji/pictographic codepoint ranges stripped
// before analysis: emoticons, symbols & pictographs, transport & map
// symbols, flags, dingbats, variation selectors, ZWJ, and the
// supplementary planes that host the extended pictographic blocks.
var codepointRanges = [][2]rune{
	{0x1F600, 0x1F64F},
	{0x1F300, 0x1F5FF},
	{0x1F680, 0x1F6FF},
	{0x1F1E0, 0x1F1FF},
	{0x2702, 0x27B0},
	{0x24C2, 0x1F251},
	{0x1F926, 0x1F937},
	{0x10000, 0x10FFFF},
	{0x2640, 0x2642},
	{0x2600, 0x2B55},
	{0x200D, 0x200D},
	{0x23CF, 0x23CF},
	{0x23E9, 0x23E9},
	{0x231A, 0x231A},
	{0xFE0F, 0xFE0F},
	{0x3030, 0x3030},
}

// CodepointFilter strips characters whose codepoints fall in the
// configured emoji ranges. Immutable after construction and safe for
// concurrent use.
type CodepointFilter struct {
	table *unicode.RangeTable
}

// NewCodepointFilter builds the filter from the built-in ranges
func NewCodepointFilter() *CodepointFilter {
	return &CodepointFilter{table: buildRangeTable(codepointRanges)}
}

// Strip returns text with every filtered codepoint removed. Returns the
// input unchanged (no allocation) when nothing matches, which also makes
// Strip idempotent.
func (f *CodepointFilter) Strip(text string) string {
	if !strings.ContainsFunc(text, f.matches) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !f.matches(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (f *CodepointFilter) matches(r rune) bool {
	return unicode.Is(f.table, r)
}

// buildRangeTable sorts and merges the raw ranges into a RangeTable,
// splitting at the 16-bit boundary as the unicode package requires.
func buildRangeTable(ranges [][2]rune) *unicode.RangeTable {
	merged := make([][2]rune, len(ranges))
	copy(merged, ranges)
	sort.Slice(merged, func(i, j int) bool { return merged[i][0] < merged[j][0] })

	out := merged[:0]
	for _, r := range merged {
		if len(out) > 0 && r[0] <= out[len(out)-1][1]+1 {
			if r[1] > out[len(out)-1][1] {
				out[len(out)-1][1] = r[1]
			}
			continue
		}
		out = append(out, r)
	}

	table := &unicode.RangeTable{}
	for _, r := range out {
		lo, hi := r[0], r[1]
		if lo <= 0xFFFF {
			upper := hi
			if upper > 0xFFFF {
				upper = 0xFFFF
			}
			table.R16 = append(table.R16, unicode.Range16{Lo: uint16(lo), Hi: uint16(upper), Stride: 1})
			if hi <= 0xFFFF {
				continue
			}
			lo = 0x10000
		}
		table.R32 = append(table.R32, unicode.Range32{Lo: uint32(lo), Hi: uint32(hi), Stride: 1})
	}
	return table
}
