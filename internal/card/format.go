package card

import (
	"strings"
	"unicode/utf8"
)

// groupSizes returns the display group widths for a brand. Amex uses the
// 4-6-5 layout; every other brand groups by four.
func groupSizes(brand Brand) []int {
	if brand == BrandAmex {
		return []int{4, 6, 5}
	}
	return []int{4, 4, 4, 4}
}

// FormatForDisplay inserts single space separators between digit groups.
// The output never ends with a separator; a trailing partial group is
// left as-is.
func FormatForDisplay(digits string, brand Brand) string {
	if digits == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(digits) + 4)
	rest := digits
	for _, size := range groupSizes(brand) {
		if rest == "" {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		if len(rest) <= size {
			b.WriteString(rest)
			rest = ""
			break
		}
		b.WriteString(rest[:size])
		rest = rest[size:]
	}
	// Digits beyond the brand's group layout are appended ungrouped.
	if rest != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(rest)
	}
	return b.String()
}

// ExtractDigits strips every non-digit rune, recovering the underlying
// digit sequence from a formatted or masked display value.
func ExtractDigits(display string) string {
	var b strings.Builder
	b.Grow(len(display))
	for i := 0; i < len(display); i++ {
		if display[i] >= '0' && display[i] <= '9' {
			b.WriteByte(display[i])
		}
	}
	return b.String()
}

// placeholderDigits supplies per-segment ghost characters; a segment of
// capacity n uses the first n characters.
const placeholderDigits = "123456789"

// SegmentPlaceholder returns the unfilled ghost tail for a keypad segment
// that already holds filled digits.
func SegmentPlaceholder(filled, capacity int) string {
	if capacity > len(placeholderDigits) {
		capacity = len(placeholderDigits)
	}
	if filled >= capacity {
		return ""
	}
	if filled < 0 {
		filled = 0
	}
	return placeholderDigits[filled:capacity]
}

// GhostTemplate returns the fixed placeholder string matching the brand's
// display grouping.
func GhostTemplate(brand Brand) string {
	var b strings.Builder
	for i, size := range groupSizes(brand) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(placeholderDigits[:size])
	}
	return b.String()
}

// GhostSuffix returns the tail of the brand's ghost template beyond the
// length already consumed by the current display value. Lengths are
// compared in runes since masked displays contain multi-byte characters.
func GhostSuffix(currentDisplay string, brand Brand) string {
	template := []rune(GhostTemplate(brand))
	used := utf8.RuneCountInString(currentDisplay)
	if used >= len(template) {
		return ""
	}
	return string(template[used:])
}
