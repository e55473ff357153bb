package main

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	auth "github.com/goliatone/customer-auth"
)

// memoryOTPStore issues and verifies short-lived one-time passcodes in
// process memory. Codes are single use. In a real deployment the issued code
// goes out through an SMS or email gateway; here it is only logged.
type memoryOTPStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	codes  map[string]otpEntry
	logger auth.Logger
}

type otpEntry struct {
	code      string
	expiresAt time.Time
}

func newMemoryOTPStore(ttl time.Duration, logger auth.Logger) *memoryOTPStore {
	return &memoryOTPStore{
		ttl:    ttl,
		codes:  map[string]otpEntry{},
		logger: logger,
	}
}

var _ auth.OTPVerifier = (*memoryOTPStore)(nil)

// Issue generates a six digit code for the user and stores it until expiry.
// Issuing again replaces the previous code.
func (s *memoryOTPStore) Issue(userID string) (string, error) {
	code, err := randomCode(6)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.codes[userID] = otpEntry{
		code:      code,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	return code, nil
}

func (s *memoryOTPStore) VerifyCode(ctx context.Context, userID, code string) (auth.OTPOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[userID]
	if !ok || entry.code != code {
		return auth.OTPInvalid, nil
	}

	// single use, spent regardless of expiry
	delete(s.codes, userID)

	if time.Now().After(entry.expiresAt) {
		return auth.OTPExpired, nil
	}

	return auth.OTPValid, nil
}

func randomCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	out := n.String()
	for len(out) < digits {
		out = "0" + out
	}

	return out, nil
}
