package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestManager(t *testing.T, clock *fakeClock) *Manager {
	t.Helper()
	m, err := NewManager(TokenConfig{Secret: "test-secret", TTL: 7 * 24 * time.Hour, Issuer: "soundstage-api"}, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestManager_IssueVerify_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)

	token, exp, err := m.Issue(domain.Principal{UserID: 7, Role: domain.RoleProducer})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Equal(clock.t.Add(7 * 24 * time.Hour)) {
		t.Fatalf("unexpected expiry: %v", exp)
	}

	p, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.UserID != 7 || p.Role != domain.RoleProducer {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestManager_Verify_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)

	token, _, err := m.Issue(domain.Principal{UserID: 1, Role: domain.RoleAudience})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clock.t = clock.t.Add(7*24*time.Hour + time.Second)

	if _, err := m.Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestManager_Verify_WrongSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	other, err := NewManager(TokenConfig{Secret: "other-secret", TTL: time.Hour, Issuer: "soundstage-api"}, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	token, _, err := other.Issue(domain.Principal{UserID: 1})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestManager_Verify_Tampered(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	token, _, err := m.Issue(domain.Principal{UserID: 1, Role: domain.RoleAudience})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(token, ".")
	forged, _, err := m.Issue(domain.Principal{UserID: 2, Role: domain.RoleProducer})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	// Payload of one token, signature of another.
	tampered := parts[0] + "." + strings.Split(forged, ".")[1] + "." + parts[2]

	if _, err := m.Verify(tampered); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestManager_Verify_RejectsOtherAlgorithms(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	c := claims{
		Role: "producer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "soundstage-api",
			IssuedAt:  jwt.NewNumericDate(clock.t),
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, c).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Verify(hs512); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected HS512 token to be rejected, got %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := m.Verify(none); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected alg=none token to be rejected, got %v", err)
	}
}

func TestManager_Verify_RequiresExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	c := claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "1", Issuer: "soundstage-api"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}
}

func TestManager_Verify_NonNumericSubject(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	c := claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "soundstage-api",
		IssuedAt:  jwt.NewNumericDate(clock.t),
		ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestManager_Verify_Garbage(t *testing.T) {
	m := newTestManager(t, &fakeClock{t: time.Now()})

	for _, tok := range []string{"", "abc123", "a.b.c"} {
		if _, err := m.Verify(tok); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", tok, err)
		}
	}
}

func TestNewManager_Validation(t *testing.T) {
	if _, err := NewManager(TokenConfig{Secret: "", TTL: time.Hour}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewManager(TokenConfig{Secret: "s", TTL: 0}); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}
