package entry

import (
	"strings"

	"github.com/Dan9191/card-entry-service/internal/card"
)

// FrontResult reports the outcome of a front-segment edit.
type FrontResult struct {
	// Caret is the position (in runes) the host must move the text
	// cursor to, sitting immediately after the same digit it followed
	// before reformatting.
	Caret int
	// Changed is true when the committed front value or brand differs
	// from the previous state.
	Changed bool
	// Reset is true when the edit cleared the keypad segments.
	Reset bool
	// Rejected is true when the edit was an over-type and was ignored.
	Rejected bool
	// NeedsVerification is true when the front segment just became
	// eligible for a BIN verification request.
	NeedsVerification bool
}

// FrontInput applies a raw text-field edit to the state. raw is the full
// field content after the edit (formatted front digits, possibly followed
// by masked keypad segments); caret is the rune offset of the cursor
// within raw.
func (s State) FrontInput(opts Options, raw string, caret int) (State, FrontResult) {
	digits := card.ExtractDigits(frontRegion(raw))
	brand := card.DetectBrand(digits)

	if brand != s.Brand {
		// Brand switch: excess digits are truncated to the new brand's
		// front capacity, never wrapped into the keypad segments.
		if capacity := card.FrontCapacity(brand); len(digits) > capacity {
			digits = digits[:capacity]
		}
	} else if len(digits) > card.FrontCapacity(brand) {
		// Over-typing past a full front segment is ignored outright.
		res := FrontResult{Rejected: true}
		n := digitsBefore(raw, caret)
		if n > len(s.Front) {
			n = len(s.Front)
		}
		res.Caret = caretAfterDigits(s.DisplayValue(), n)
		return s, res
	}

	next := s
	res := FrontResult{Changed: digits != s.Front || brand != s.Brand}

	if digits != s.Front {
		// Any front-value change invalidates the verification outcome;
		// a still-pending request becomes stale and its response is
		// discarded by token.
		next.Phase = PhaseNotRequested
	}
	if res.Changed && opts.ResetBackOnFrontEdit && len(s.SegmentA)+len(s.SegmentB) > 0 {
		next.SegmentA = ""
		next.SegmentB = ""
		next.Active = SegmentA
		next.KeypadVisible = false
		next.Phase = PhaseNotRequested
		res.Reset = true
	}

	next.Front = digits
	next.Brand = brand

	atCapacity := brand != card.BrandUnknown && len(digits) == card.FrontCapacity(brand)
	if atCapacity && !res.Reset {
		next.KeypadVisible = true
	}
	res.NeedsVerification = atCapacity && next.Phase == PhaseNotRequested

	n := digitsBefore(raw, caret)
	if n > len(next.Front) {
		n = len(next.Front)
	}
	res.Caret = caretAfterDigits(next.DisplayValue(), n)
	return next, res
}

// frontRegion cuts the raw field content at the first mask rune, leaving
// only the editable front portion. Keypad segments always render their
// masks first, so everything from the first mask on belongs to them.
func frontRegion(raw string) string {
	if i := strings.IndexRune(raw, MaskRune); i >= 0 {
		return raw[:i]
	}
	return raw
}

// digitsBefore counts the digits among the first caret runes of raw.
func digitsBefore(raw string, caret int) int {
	n := 0
	for i, r := range []rune(raw) {
		if i >= caret {
			break
		}
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// caretAfterDigits maps a digit count onto a formatted display string,
// returning the rune offset immediately after the nth digit.
func caretAfterDigits(display string, n int) int {
	if n <= 0 {
		return 0
	}
	seen := 0
	for i, r := range []rune(display) {
		if r >= '0' && r <= '9' {
			seen++
			if seen == n {
				return i + 1
			}
		}
	}
	return len([]rune(display))
}
