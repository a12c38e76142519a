package event

import "unicode"

// wideGlyphs is the static pictographic range table. Anything in these
// ranges, or in Unicode general category So, renders double width on
// the displays this feed targets.
var wideGlyphs = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1}, // misc symbols and dingbats, includes ⚽
	},
	R32: []unicode.Range32{
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // misc symbols and pictographs
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // emoticons
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // transport and map symbols
		{Lo: 0x1F700, Hi: 0x1F77F, Stride: 1}, // alchemical symbols
		{Lo: 0x1F780, Hi: 0x1F7FF, Stride: 1}, // geometric shapes extended
		{Lo: 0x1F800, Hi: 0x1F8FF, Stride: 1}, // supplemental arrows C
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1}, // supplemental symbols and pictographs
		{Lo: 0x1FA00, Hi: 0x1FA6F, Stride: 1}, // chess symbols
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1}, // symbols and pictographs extended A
	},
}

// DisplayWidth measures the rendered width of text in display units:
// ordinary characters count 1, wide pictographic glyphs count 2, and a
// whole flag sequence (a regional-indicator pair or a tag sequence)
// counts 2 regardless of how many codepoints build it. Always 0 for
// the empty string.
func DisplayWidth(text string) int {
	runes := []rune(text)
	width := 0
	for i := 0; i < len(runes); {
		r := runes[i]

		// Country flags are two paired regional indicators.
		if isRegionalIndicator(r) && i+1 < len(runes) && isRegionalIndicator(runes[i+1]) {
			width += 2
			i += 2
			continue
		}

		// Subdivision flags are a waving black flag followed by tag
		// characters and a cancel tag.
		if r == 0x1F3F4 && i+1 < len(runes) && isTagCharacter(runes[i+1]) {
			i++
			for i < len(runes) && isTagCharacter(runes[i]) {
				i++
			}
			width += 2
			continue
		}

		if unicode.Is(wideGlyphs, r) || unicode.Is(unicode.So, r) {
			width += 2
		} else {
			width++
		}
		i++
	}
	return width
}

// FitsWithGlyph reports whether a label plus its glyph fits within a
// display budget. When it does not, policy is to omit the glyph rather
// than truncate the label.
func FitsWithGlyph(label, glyph string, budget int) bool {
	return DisplayWidth(label+glyph) <= budget
}

func isRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

func isTagCharacter(r rune) bool {
	return r >= 0xE0020 && r <= 0xE007F
}
