package entry

import (
	"strings"

	"github.com/Dan9191/card-entry-service/internal/card"
)

// DisplayValue renders the widget's text-field content: the front
// segment formatted normally, then each non-empty keypad segment as one
// mask rune per entered digit followed by the unfilled part of that
// segment's placeholder, joined with single spaces.
func (s State) DisplayValue() string {
	parts := make([]string, 0, 3)
	if s.Front != "" {
		parts = append(parts, card.FormatForDisplay(s.Front, s.Brand))
	}
	if s.SegmentA != "" {
		parts = append(parts, maskedSegment(len(s.SegmentA), card.SegmentACapacity(s.Brand)))
	}
	if s.SegmentB != "" {
		parts = append(parts, maskedSegment(len(s.SegmentB), card.SegmentBCapacity(s.Brand)))
	}
	return strings.Join(parts, " ")
}

// GhostOverlay returns the dimmed placeholder tail rendered after the
// display value, showing the remaining shape of the number.
func (s State) GhostOverlay() string {
	return card.GhostSuffix(s.DisplayValue(), s.Brand)
}

// Validity reports the Luhn outcome for the full digit sequence.
// computed is false while fewer than 13 digits are present; the host
// must display no validity state in that case.
func (s State) Validity() (valid, computed bool) {
	digits := s.Digits()
	if len(digits) < 13 {
		return false, false
	}
	return card.ValidateLuhn(digits), true
}

func maskedSegment(filled, capacity int) string {
	return strings.Repeat(string(MaskRune), filled) + card.SegmentPlaceholder(filled, capacity)
}
