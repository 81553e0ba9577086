package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/soundstage/soundstage-api/internal/core/domain"
	"github.com/soundstage/soundstage-api/internal/core/ports"
	"github.com/soundstage/soundstage-api/internal/infrastructure/security"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	nextID  int64
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.byEmail[stored.Email] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubThrottle struct {
	hits     map[string]int
	limit    int
	hitErr   error
	resetKey string
}

func (t *stubThrottle) Hit(_ context.Context, key string) (bool, error) {
	if t.hitErr != nil {
		return false, t.hitErr
	}
	if t.hits == nil {
		t.hits = make(map[string]int)
	}
	t.hits[key]++
	return t.hits[key] <= t.limit, nil
}

func (t *stubThrottle) Reset(_ context.Context, key string) error {
	t.resetKey = key
	delete(t.hits, key)
	return nil
}

func newTestAuthService(t *testing.T, repo *stubUserRepo, throttle ports.LoginThrottle) (*AuthService, *security.Manager) {
	t.Helper()
	tokens, err := security.NewManager(security.TokenConfig{Secret: "secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	hasher := security.NewHasher(bcrypt.MinCost, 2)
	return NewAuthService(repo, hasher, tokens, throttle, zerolog.Nop()), tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(t, repo, nil)

	res, err := svc.Register(context.Background(), ports.RegisterInput{Email: "alice@example.com", Password: "pass123", Role: domain.RoleProducer})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User == nil || res.User.ID == 0 {
		t.Fatalf("expected stored user, got %+v", res.User)
	}
	if res.User.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	p, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if p.UserID != res.User.ID || p.Role != domain.RoleProducer {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthService_Register_DefaultRole(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(t, repo, nil)

	res, err := svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.Role != domain.RoleAudience {
		t.Fatalf("expected default role %q, got %q", domain.RoleAudience, res.User.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo(), nil)

	cases := []ports.RegisterInput{
		{Email: "", Password: "pw"},
		{Email: "a@example.com", Password: ""},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("input %+v: expected ErrValidation, got %v", in, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo(), nil)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass"})
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass2"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_RepoFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("db unavailable")
	svc, _ := newTestAuthService(t, repo, nil)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "a@example.com", Password: "pw"})
	if err == nil || errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc, tokens := newTestAuthService(t, newStubUserRepo(), nil)

	reg, err := svc.Register(context.Background(), ports.RegisterInput{Email: "p@x.io", Password: "pw1", Role: "producer"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "p@x.io", "pw1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}

	p, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if p.UserID != reg.User.ID || p.Role != "producer" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo(), nil)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "dave@example.com", Password: "goodpass"})
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo(), nil)

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(t, newStubUserRepo(), nil)

	if _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	throttle := &stubThrottle{limit: 2}
	svc, _ := newTestAuthService(t, newStubUserRepo(), throttle)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "eve@example.com", Password: "right"})

	for i := 0; i < 2; i++ {
		if _, err := svc.Login(context.Background(), "eve@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, err := svc.Login(context.Background(), "eve@example.com", "right"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_SuccessResetsThrottle(t *testing.T) {
	throttle := &stubThrottle{limit: 5}
	svc, _ := newTestAuthService(t, newStubUserRepo(), throttle)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "Frank@Example.com", Password: "pw"})
	if _, err := svc.Login(context.Background(), "Frank@Example.com", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if throttle.resetKey != "frank@example.com" {
		t.Fatalf("expected throttle reset for lower-cased email, got %q", throttle.resetKey)
	}
}

func TestAuthService_Login_ThrottleFailureFailsOpen(t *testing.T) {
	throttle := &stubThrottle{hitErr: errors.New("redis down")}
	svc, _ := newTestAuthService(t, newStubUserRepo(), throttle)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Email: "g@example.com", Password: "pw"})
	if _, err := svc.Login(context.Background(), "g@example.com", "pw"); err != nil {
		t.Fatalf("expected login to succeed when throttle is unavailable, got %v", err)
	}
}
