package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CodeTTL is how long an issued code stays valid.
	CodeTTL = 5 * time.Minute

	keyPrefix = "otp:"
)

var (
	// ErrCodeExpired covers both "never issued" and "TTL elapsed"; redis
	// cannot tell them apart once the key is gone.
	ErrCodeExpired = errors.New("otp expired or not found")
	// ErrCodeMismatch means a live code exists but the submitted one is
	// wrong. The stored code is kept so the correct one still works.
	ErrCodeMismatch = errors.New("otp mismatch")
	// ErrUnavailable means redis failed or timed out. Callers fail closed.
	ErrUnavailable = errors.New("otp store unavailable")
)

// Store keeps one-time codes in redis, keyed by the identifier being
// authenticated (email or mobile) so a resend overwrites the previous code
// and unrelated users can never collide.
type Store struct {
	rdb       *redis.Client
	opTimeout time.Duration
}

func NewStore(rdb *redis.Client, opTimeout time.Duration) *Store {
	if opTimeout <= 0 {
		opTimeout = 10 * time.Second
	}
	return &Store{rdb: rdb, opTimeout: opTimeout}
}

func (s *Store) key(identifier string) string {
	return keyPrefix + identifier
}

// Save stores code under identifier with the standard TTL, replacing any
// previously issued code for the same identifier.
func (s *Store) Save(ctx context.Context, identifier, code string) error {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.rdb.Set(opCtx, s.key(identifier), code, CodeTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Verify checks the submitted code and consumes it on success. A mismatch
// leaves the stored code in place.
func (s *Store) Verify(ctx context.Context, identifier, code string) error {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	stored, err := s.rdb.Get(opCtx, s.key(identifier)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeExpired
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if stored != code {
		return ErrCodeMismatch
	}

	// Single use: drop the code now that it matched. A failed delete is
	// logged upstream but does not fail the verification.
	delCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	_ = s.rdb.Del(delCtx, s.key(identifier)).Err()

	return nil
}

// Delete removes any outstanding code for identifier.
func (s *Store) Delete(ctx context.Context, identifier string) error {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.rdb.Del(opCtx, s.key(identifier)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
