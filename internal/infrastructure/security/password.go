// Package security implements password hashing and access-token signing.
package security

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

// Hasher hashes passwords with bcrypt. At most a fixed number of hash or
// compare operations run at once; callers wait for a slot or give up when
// their context ends.
type Hasher struct {
	cost    int
	sem     *semaphore.Weighted
	observe func(time.Duration)
}

// HasherOption customises a Hasher.
type HasherOption func(*Hasher)

// WithHashObserver registers fn to receive the duration of every Hash call.
func WithHashObserver(fn func(time.Duration)) HasherOption {
	return func(h *Hasher) { h.observe = fn }
}

// NewHasher returns a Hasher. An out-of-range cost falls back to
// bcrypt.DefaultCost and a non-positive concurrency to GOMAXPROCS.
func NewHasher(cost int, concurrency int64, opts ...HasherOption) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if concurrency <= 0 {
		concurrency = int64(runtime.GOMAXPROCS(0))
	}
	h := &Hasher{cost: cost, sem: semaphore.NewWeighted(concurrency)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns a salted bcrypt hash of plain.
func (h *Hasher) Hash(ctx context.Context, plain string) (string, error) {
	start := time.Now()
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	defer h.sem.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if h.observe != nil {
		h.observe(time.Since(start))
	}
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.NewValidationError("Password must be at most 72 bytes")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plain matches hash. A malformed hash or a cancelled
// context yields false.
func (h *Hasher) Verify(ctx context.Context, plain, hash string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
