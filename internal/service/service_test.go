package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Dan9191/card-entry-service/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVerifier answers verification requests with a fixed error. A BIN
// listed in gates blocks until its channel is released, simulating an
// in-flight request.
type stubVerifier struct {
	mu    sync.Mutex
	calls []string
	err   error
	gates map[string]chan struct{}
}

func (v *stubVerifier) Verify(ctx context.Context, bin string) error {
	if gate, ok := v.gates[bin]; ok {
		<-gate
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, bin)
	return v.err
}

func (v *stubVerifier) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.calls)
}

type stubAlerter struct {
	mu    sync.Mutex
	count int
}

func (a *stubAlerter) SendVerificationOutageAlert(failures int, lastErr error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.count++
	return nil
}

func (a *stubAlerter) alertCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

func newNoopLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(verifier *stubVerifier, alerts Alerter) *Service {
	cfg := &config.Config{
		JWTSecret:      "secret",
		VerifyTimeout:  time.Second,
		SessionTTL:     30 * time.Minute,
		AlertThreshold: 3,
	}
	return NewService(nil, verifier, alerts, newNoopLogger(), cfg)
}

func TestCreateSessionStartsEmpty(t *testing.T) {
	svc := newTestService(&stubVerifier{}, nil)
	snap, err := svc.CreateSession(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, "", snap.Display)
	assert.Equal(t, "unknown", snap.Brand)
	assert.Equal(t, "not_requested", snap.Verification)
	assert.False(t, snap.KeypadEnabled)
	assert.False(t, snap.ValidKnown)
}

func TestSessionNotFound(t *testing.T) {
	svc := newTestService(&stubVerifier{}, nil)
	_, err := svc.Snapshot("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.FrontInput("missing", "4", 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	err = svc.DeleteSession("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFrontInputTriggersVerificationOnce(t *testing.T) {
	verifier := &stubVerifier{}
	svc := newTestService(verifier, nil)
	snap, err := svc.CreateSession(nil)
	require.NoError(t, err)

	snap, err = svc.FrontInput(snap.ID, "4111 1111", 9)
	require.NoError(t, err)
	assert.Equal(t, "visa", snap.Brand)

	require.Eventually(t, func() bool {
		s, err := svc.Snapshot(snap.ID)
		return err == nil && s.Verification == "complete"
	}, time.Second, 10*time.Millisecond)

	// Re-committing the same completed front value must not re-request.
	_, err = svc.FrontInput(snap.ID, "4111 1111", 9)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, verifier.callCount())
}

func TestKeypadUnlocksAfterVerification(t *testing.T) {
	verifier := &stubVerifier{}
	svc := newTestService(verifier, nil)
	snap, _ := svc.CreateSession(nil)

	// Before verification completes the keypad must swallow digits.
	snap, err := svc.KeypadDigit(snap.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, "", snap.Display)

	_, err = svc.FrontInput(snap.ID, "4111 1111", 9)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		s, _ := svc.Snapshot(snap.ID)
		return s != nil && s.KeypadEnabled
	}, time.Second, 10*time.Millisecond)

	snap, err = svc.KeypadDigit(snap.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, "4111 1111 •234", snap.Display)
}

func TestVerificationFailureRetriesAndAlerts(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("directory down")}
	alerts := &stubAlerter{}
	svc := newTestService(verifier, alerts)
	snap, _ := svc.CreateSession(nil)

	fronts := []string{"4111 1111", "4111 1112", "4111 1113"}
	for _, front := range fronts {
		_, err := svc.FrontInput(snap.ID, front, 9)
		require.NoError(t, err)
		require.Eventually(t, func() bool {
			s, _ := svc.Snapshot(snap.ID)
			return s != nil && s.Verification == "not_requested"
		}, time.Second, 10*time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return verifier.callCount() == len(fronts)
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, alerts.alertCount())
}

func TestStaleVerificationResponseDiscarded(t *testing.T) {
	staleGate := make(chan struct{})
	freshGate := make(chan struct{})
	verifier := &stubVerifier{gates: map[string]chan struct{}{
		"41111111": staleGate,
		"41111119": freshGate,
	}}
	svc := newTestService(verifier, nil)
	snap, _ := svc.CreateSession(nil)

	_, err := svc.FrontInput(snap.ID, "4111 1111", 9)
	require.NoError(t, err)
	s, _ := svc.Snapshot(snap.ID)
	require.Equal(t, "pending", s.Verification)

	// The user edits the front value while the request is in flight.
	_, err = svc.FrontInput(snap.ID, "4111 1119", 9)
	require.NoError(t, err)

	// The stale response resolves late; it must not complete the new
	// front value, whose own request is still in flight.
	close(staleGate)
	time.Sleep(50 * time.Millisecond)
	s, _ = svc.Snapshot(snap.ID)
	assert.Equal(t, "pending", s.Verification)

	close(freshGate)
	require.Eventually(t, func() bool {
		s, _ := svc.Snapshot(snap.ID)
		return s != nil && s.Verification == "complete"
	}, time.Second, 10*time.Millisecond)
}

func TestSweepIdleSessions(t *testing.T) {
	svc := newTestService(&stubVerifier{}, nil)
	snap, _ := svc.CreateSession(nil)

	assert.Equal(t, 0, svc.SweepIdleSessions(time.Minute))

	assert.Equal(t, 1, svc.SweepIdleSessions(0))
	_, err := svc.Snapshot(snap.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResetBackOnFrontEditDisabled(t *testing.T) {
	verifier := &stubVerifier{}
	svc := newTestService(verifier, nil)
	noReset := false
	snap, err := svc.CreateSession(&noReset)
	require.NoError(t, err)

	_, err = svc.FrontInput(snap.ID, "4111 1111", 9)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		s, _ := svc.Snapshot(snap.ID)
		return s != nil && s.KeypadEnabled
	}, time.Second, 10*time.Millisecond)

	_, err = svc.KeypadDigit(snap.ID, "7")
	require.NoError(t, err)

	snap, err = svc.FrontInput(snap.ID, "4111 1112 •234", 8)
	require.NoError(t, err)
	assert.Equal(t, "4111 1112 •234", snap.Display)
}
