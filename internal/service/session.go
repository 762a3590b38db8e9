package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Dan9191/card-entry-service/internal/card"
	"github.com/Dan9191/card-entry-service/internal/entry"
	"github.com/Dan9191/card-entry-service/internal/models"
)

// ErrSessionNotFound is returned for operations on unknown or expired
// session IDs.
var ErrSessionNotFound = errors.New("session not found")

// session is one live widget instance. Its mutex serializes all events
// for the instance, matching the single-threaded widget model; the
// verification goroutine is the only other writer.
type session struct {
	mu      sync.Mutex
	id      string
	opts    entry.Options
	state   entry.State
	caret   int
	touched time.Time
}

// CreateSession mounts a new, empty widget session
func (s *Service) CreateSession(resetBackOnFrontEdit *bool) (*models.SessionSnapshot, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	opts := entry.DefaultOptions()
	if resetBackOnFrontEdit != nil {
		opts.ResetBackOnFrontEdit = *resetBackOnFrontEdit
	}

	sess := &session{
		id:      id,
		opts:    opts,
		state:   entry.NewState(),
		touched: time.Now(),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.log.Infof("Session created: %s", id)
	return snapshot(sess), nil
}

// DeleteSession unmounts a widget session and discards its state
func (s *Service) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.log.Infof("Session deleted: %s", id)
	return nil
}

// Snapshot returns the current renderable view of a session
func (s *Service) Snapshot(id string) (*models.SessionSnapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return snapshot(sess), nil
}

// FrontInput applies a raw text-field change event. When the edit brings
// the front segment to capacity with a known brand, a BIN verification
// request is started in the background; at most one request is in
// flight per completed front value.
func (s *Service) FrontInput(id, value string, caret int) (*models.SessionSnapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	state, res := sess.state.FrontInput(sess.opts, value, caret)
	sess.state = state
	sess.caret = res.Caret
	sess.touched = time.Now()

	if res.NeedsVerification {
		if next, tok, ok := sess.state.BeginVerification(); ok {
			sess.state = next
			s.log.Infof("Verification requested for session %s (bin %s)", sess.id, card.MaskNumber(tok.Front))
			go s.runVerification(sess, tok)
		}
	}
	return snapshot(sess), nil
}

// KeypadDigit appends one digit via the on-screen keypad. Disabled
// segments and over-capacity presses are silent no-ops.
func (s *Service) KeypadDigit(id, digit string) (*models.SessionSnapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(digit) == 1 {
		sess.state = sess.state.KeypadDigit(rune(digit[0]))
	}
	sess.touched = time.Now()
	return snapshot(sess), nil
}

// KeypadDelete removes the last digit of the active keypad segment
func (s *Service) KeypadDelete(id string) (*models.SessionSnapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state = sess.state.KeypadDelete()
	sess.touched = time.Now()
	return snapshot(sess), nil
}

// ToggleKeypad flips keypad visibility for a session
func (s *Service) ToggleKeypad(id string) (*models.SessionSnapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state = sess.state.ToggleKeypad()
	sess.touched = time.Now()
	return snapshot(sess), nil
}

// SetActiveSegment selects the keypad segment receiving digits
func (s *Service) SetActiveSegment(id, segment string) (*models.SessionSnapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state = sess.state.SetActiveSegment(entry.Segment(segment))
	sess.touched = time.Now()
	return snapshot(sess), nil
}

// SweepIdleSessions drops sessions without activity for maxAge and
// returns how many were removed
func (s *Service) SweepIdleSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.touched.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Infof("Swept %d idle sessions", removed)
	}
	return removed
}

// runVerification drives one BIN verification request to completion. A
// failure is logged and counted toward the ops alert streak; the session
// returns to a retry-eligible state. A response for a front value the
// user has since edited away is discarded by the token check.
func (s *Service) runVerification(sess *session, tok entry.VerificationToken) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.VerifyTimeout)
	defer cancel()

	err := s.verifier.Verify(ctx, tok.Front)

	sess.mu.Lock()
	next := sess.state.CompleteVerification(tok, err == nil)
	applied := next != sess.state
	sess.state = next
	sess.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failStreak++
		s.log.Errorf("Verification failed for session %s (bin %s, attempt streak %d): %v", sess.id, card.MaskNumber(tok.Front), s.failStreak, err)
		if s.failStreak >= s.config.AlertThreshold && !s.alerted && s.alerts != nil {
			s.alerted = true
			if alertErr := s.alerts.SendVerificationOutageAlert(s.failStreak, err); alertErr != nil {
				s.log.Errorf("Failed to alert operators: %v", alertErr)
			}
		}
		return
	}
	s.failStreak = 0
	s.alerted = false
	if applied {
		s.log.Infof("Verification complete for session %s", sess.id)
	} else {
		s.log.Debugf("Discarded stale verification response for session %s", sess.id)
	}
}

func (s *Service) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// snapshot builds the client view. Caller holds the session lock.
func snapshot(sess *session) *models.SessionSnapshot {
	st := sess.state
	valid, known := st.Validity()
	return &models.SessionSnapshot{
		ID:            sess.id,
		Display:       st.DisplayValue(),
		Ghost:         st.GhostOverlay(),
		Caret:         sess.caret,
		Brand:         string(st.Brand),
		ActiveSegment: string(st.Active),
		Verification:  string(st.Phase),
		KeypadVisible: st.KeypadVisible,
		KeypadEnabled: st.SegmentEnabled(entry.SegmentA),
		ValidKnown:    known,
		Valid:         valid,
	}
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
