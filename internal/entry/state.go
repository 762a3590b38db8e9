// Package entry implements the block-sequencing state machine behind the
// card entry widget: a freely-edited front segment plus two keypad-only
// segments whose availability is gated by an external BIN verification.
//
// State is a value type; every operation returns a complete new State so
// consumers never observe a partially-applied transition.
package entry

import "github.com/Dan9191/card-entry-service/internal/card"

// Phase tracks the BIN verification lifecycle for the current front value.
type Phase string

const (
	PhaseNotRequested Phase = "not_requested"
	PhasePending      Phase = "pending"
	PhaseComplete     Phase = "complete"
)

// Segment names one of the two keypad-only blocks.
type Segment string

const (
	SegmentA Segment = "a"
	SegmentB Segment = "b"
)

// MaskRune is the character rendered in place of each keypad-entered
// digit. It also delimits the editable front region of the display value.
const MaskRune = '•'

// Options configures widget behavior at session creation.
type Options struct {
	// ResetBackOnFrontEdit clears both keypad segments, the active
	// segment, keypad visibility and the verification phase whenever the
	// committed front value or brand changes.
	ResetBackOnFrontEdit bool
}

// DefaultOptions matches the documented integration default.
func DefaultOptions() Options {
	return Options{ResetBackOnFrontEdit: true}
}

// State holds the three logical segments of a card number and the
// verification/keypad flags derived from them.
type State struct {
	Front    string
	SegmentA string
	SegmentB string
	Brand    card.Brand
	Active   Segment
	Phase    Phase
	// KeypadVisible is independent of Phase: the user may collapse and
	// re-expand the keypad after verification completes.
	KeypadVisible bool
}

// NewState returns the empty state a widget mounts with.
func NewState() State {
	return State{
		Brand:  card.BrandUnknown,
		Active: SegmentA,
		Phase:  PhaseNotRequested,
	}
}

// Digits returns the transient full digit sequence. It exists only for
// checksum display and is never persisted or transmitted.
func (s State) Digits() string {
	return s.Front + s.SegmentA + s.SegmentB
}

// segmentAEnabled reports whether keypad segment A accepts digits.
func (s State) segmentAEnabled() bool {
	return s.Phase == PhaseComplete
}

// segmentBEnabled reports whether keypad segment B accepts digits.
func (s State) segmentBEnabled() bool {
	return len(s.SegmentA) == card.SegmentACapacity(s.Brand)
}

// SegmentEnabled reports whether the named keypad segment accepts digits.
func (s State) SegmentEnabled(which Segment) bool {
	switch which {
	case SegmentA:
		return s.segmentAEnabled()
	case SegmentB:
		return s.segmentBEnabled()
	}
	return false
}
