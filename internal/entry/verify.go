package entry

import "github.com/Dan9191/card-entry-service/internal/card"

// VerificationToken tags an in-flight BIN verification with the front
// value it was issued for, so a response that arrives after the front
// segment changed can be recognized as stale and discarded.
type VerificationToken struct {
	Front string
}

// BeginVerification transitions the verification phase to Pending and
// issues a token for the request. It refuses when a request is already
// pending or complete, when the brand is unknown, or when the front
// segment has not reached capacity, so at most one request is ever in
// flight per completed front value.
func (s State) BeginVerification() (State, VerificationToken, bool) {
	if s.Phase != PhaseNotRequested {
		return s, VerificationToken{}, false
	}
	if s.Brand == card.BrandUnknown || len(s.Front) != card.FrontCapacity(s.Brand) {
		return s, VerificationToken{}, false
	}
	s.Phase = PhasePending
	return s, VerificationToken{Front: s.Front}, true
}

// CompleteVerification applies the outcome of a verification request.
// Responses whose token no longer matches the current front value, or
// that arrive when no request is pending, are dropped. Failure returns
// the phase to NotRequested, leaving the front value eligible for retry.
func (s State) CompleteVerification(tok VerificationToken, ok bool) State {
	if tok.Front != s.Front || s.Phase != PhasePending {
		return s
	}
	if ok {
		s.Phase = PhaseComplete
	} else {
		s.Phase = PhaseNotRequested
	}
	return s
}
