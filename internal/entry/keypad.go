package entry

import "github.com/Dan9191/card-entry-service/internal/card"

// KeypadDigit appends one digit to the active keypad segment. Appending
// to a disabled segment or past a segment's capacity is a no-op. Filling
// segment A advances the active segment to B.
func (s State) KeypadDigit(d rune) State {
	if d < '0' || d > '9' {
		return s
	}
	switch s.Active {
	case SegmentA:
		if !s.segmentAEnabled() {
			return s
		}
		capA := card.SegmentACapacity(s.Brand)
		if len(s.SegmentA) >= capA {
			return s
		}
		s.SegmentA += string(d)
		if len(s.SegmentA) == capA {
			s.Active = SegmentB
		}
	case SegmentB:
		if !s.segmentBEnabled() {
			return s
		}
		if len(s.SegmentB) >= card.SegmentBCapacity(s.Brand) {
			return s
		}
		s.SegmentB += string(d)
	}
	return s
}

// KeypadDelete removes the last digit of the active segment. Deleting
// from an already-empty segment B switches the active segment back to A
// without removing anything on that call.
func (s State) KeypadDelete() State {
	switch s.Active {
	case SegmentA:
		if s.SegmentA != "" {
			s.SegmentA = s.SegmentA[:len(s.SegmentA)-1]
		}
	case SegmentB:
		if s.SegmentB == "" {
			s.Active = SegmentA
			return s
		}
		s.SegmentB = s.SegmentB[:len(s.SegmentB)-1]
	}
	return s
}

// ToggleKeypad flips keypad visibility.
func (s State) ToggleKeypad() State {
	s.KeypadVisible = !s.KeypadVisible
	return s
}

// SetActiveSegment selects which keypad segment receives digits. The
// target must currently be enabled; otherwise the call is a no-op.
func (s State) SetActiveSegment(which Segment) State {
	if which != SegmentA && which != SegmentB {
		return s
	}
	if !s.SegmentEnabled(which) {
		return s
	}
	s.Active = which
	return s
}
