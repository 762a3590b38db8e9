package models

// SessionSnapshot is everything a thin rendering client needs to draw
// the widget after an event. The full digit sequence never appears here;
// keypad digits are represented only by mask characters.
type SessionSnapshot struct {
	ID            string `json:"id"`
	Display       string `json:"display"`
	Ghost         string `json:"ghost"`
	Caret         int    `json:"caret"`
	Brand         string `json:"brand"`
	ActiveSegment string `json:"active_segment"`
	Verification  string `json:"verification"`
	KeypadVisible bool   `json:"keypad_visible"`
	KeypadEnabled bool   `json:"keypad_enabled"`
	ValidKnown    bool   `json:"valid_known"`
	Valid         bool   `json:"valid"`
}
// CreateSessionRequest configures a new widget session
type CreateSessionRequest struct {
	ResetBackOnFrontEdit *bool `json:"reset_back_on_front_edit,omitempty"`
}

// FrontInputRequest carries a raw text-field change event
type FrontInputRequest struct {
	Value string `json:"value"`
	Caret int    `json:"caret"`
}

// KeypadDigitRequest carries one keypad button activation
type KeypadDigitRequest struct {
	Digit string `json:"digit"`
}

// SetSegmentRequest selects the active keypad segment ("a" or "b")
type SetSegmentRequest struct {
	Segment string `json:"segment"`
}
