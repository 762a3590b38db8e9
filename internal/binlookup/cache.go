package binlookup

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// BINStore is the cache the verifier consults before hitting upstream
type BINStore interface {
	LookupBIN(bin string) (valid bool, found bool, err error)
	SaveBIN(bin string, valid bool) error
}

// CachedVerifier wraps a Verifier with a persistent cache of definitive
// outcomes. Transient upstream failures are never cached.
type CachedVerifier struct {
	store    BINStore
	upstream Verifier
	log      *logrus.Logger
}

// NewCachedVerifier initializes a cache-backed verifier
func NewCachedVerifier(store BINStore, upstream Verifier, log *logrus.Logger) *CachedVerifier {
	return &CachedVerifier{store: store, upstream: upstream, log: log}
}

// Verify answers from the cache when possible, otherwise asks upstream
// and records definitive verdicts.
func (v *CachedVerifier) Verify(ctx context.Context, bin string) error {
	valid, found, err := v.store.LookupBIN(bin)
	if err != nil {
		// Cache trouble is not a verification verdict; fall through to
		// the directory.
		v.log.Warnf("BIN cache lookup failed: %v", err)
	} else if found {
		if valid {
			return nil
		}
		return ErrNotRecognized
	}

	err = v.upstream.Verify(ctx, bin)
	if err == nil || errors.Is(err, ErrNotRecognized) {
		if saveErr := v.store.SaveBIN(bin, err == nil); saveErr != nil {
			v.log.Warnf("failed to cache BIN verdict: %v", saveErr)
		}
	}
	return err
}
