package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "github.com/translationhub/server/internal/errors"
	"github.com/translationhub/server/internal/model"
)

type fakeUserStore struct {
	mu         sync.Mutex
	byEmail    map[string]*model.User
	byID       map[string]*model.User
	failAll    error
	failCreate error
	nextID     int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*model.User),
		byID:    make(map[string]*model.User),
	}
}

func (s *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return s.failAll
	}
	if s.failCreate != nil {
		return s.failCreate
	}
	s.nextID++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", s.nextID)
	}
	copied := *user
	s.byEmail[user.Email] = &copied
	s.byID[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.byID[id]; ok {
		user.LastLogin = &at
	}
	return nil
}

type fakeSessionStore struct {
	mu      sync.Mutex
	byToken map[string]*model.Session
	failAll error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{byToken: make(map[string]*model.Session)}
}

func (s *fakeSessionStore) Create(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return s.failAll
	}
	copied := *session
	s.byToken[session.Token] = &copied
	return nil
}

func (s *fakeSessionStore) GetByToken(ctx context.Context, token string, now time.Time) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	session, ok := s.byToken[token]
	if !ok || !now.Before(session.ExpiresAt) {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *fakeSessionStore) DeleteByToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return s.failAll
	}
	delete(s.byToken, token)
	return nil
}

func (s *fakeSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for token, session := range s.byToken {
		if !now.Before(session.ExpiresAt) {
			delete(s.byToken, token)
			removed++
		}
	}
	return removed, nil
}

func (s *fakeSessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byToken)
}

type managerFixture struct {
	manager  *SessionManager
	users    *fakeUserStore
	sessions *fakeSessionStore
	now      time.Time
}

func newManagerFixture(t *testing.T, ttl time.Duration) *managerFixture {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(ttl, now)

	f := &managerFixture{
		users:    newFakeUserStore(),
		sessions: newFakeSessionStore(),
		now:      now,
	}
	f.manager = NewSessionManager(f.users, f.sessions, codec, bcrypt.MinCost)
	f.manager.now = func() time.Time { return f.now }
	return f
}

func (f *managerFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
	f.manager.codec.now = func() time.Time { return f.now }
}

// signUp registers the account and logs it in, returning the session token.
func (f *managerFixture) signUp(t *testing.T, email, password string) (*model.User, string) {
	t.Helper()
	if _, err := f.manager.Register(context.Background(), email, password); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	user, token, err := f.manager.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return user, token
}

func TestRegisterAndValidate(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	user, err := f.manager.Register(ctx, "Alice@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Expected normalized email, got %s", user.Email)
	}

	_, token, err := f.manager.Login(ctx, "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	validated, err := f.manager.Validate(ctx, token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if validated.ID != user.ID {
		t.Errorf("Expected user %s, got %s", user.ID, validated.ID)
	}
}

func TestRegisterOpensNoSession(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	if _, err := f.manager.Register(ctx, "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if got := f.sessions.count(); got != 0 {
		t.Fatalf("Expected no session rows after register, got %d", got)
	}

	if _, _, err := f.manager.Login(ctx, "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got := f.sessions.count(); got != 1 {
		t.Errorf("Expected 1 session row after login, got %d", got)
	}
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	password := "correct horse battery staple"
	user, err := f.manager.Register(ctx, "alice@example.com", password)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	stored := f.users.byID[user.ID]
	if stored.PasswordHash == password {
		t.Fatal("Password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)); err != nil {
		t.Errorf("Stored hash does not verify against the password: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	if _, err := f.manager.Register(ctx, "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("First register failed: %v", err)
	}
	_, err := f.manager.Register(ctx, "alice@example.com", "different")
	if !errors.Is(err, apperrors.ErrEmailExists) {
		t.Errorf("Expected email-exists error, got %v", err)
	}
}

func TestRegisterDuplicateKeyOnInsert(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	// A concurrent registration can slip in after the existence check,
	// so the insert itself reports the duplicate.
	f.users.failCreate = gorm.ErrDuplicatedKey

	_, err := f.manager.Register(ctx, "alice@example.com", "hunter22")
	if !errors.Is(err, apperrors.ErrEmailExists) {
		t.Fatalf("Expected email-exists error, got %v", err)
	}
	if status := apperrors.ToHTTPStatus(err); status != 400 {
		t.Errorf("Expected 400 mapping, got %d", status)
	}
}

func TestRegisterEmptyInputs(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "hunter22"},
		{"empty password", "alice@example.com", ""},
		{"both empty", "", ""},
		{"whitespace email", "   ", "hunter22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.manager.Register(ctx, tt.email, tt.password); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	if _, err := f.manager.Register(ctx, "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "alice@example.com", "wrong"},
		{"unknown email", "bob@example.com", "hunter22"},
		{"empty password", "alice@example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.manager.Login(ctx, tt.email, tt.password)
			if !errors.Is(err, apperrors.ErrInvalidCredentials) {
				t.Errorf("Expected invalid-credentials error, got %v", err)
			}
		})
	}
}

func TestLoginRecordsLastLogin(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	if _, err := f.manager.Register(ctx, "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, _, err := f.manager.Login(ctx, "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.LastLogin == nil || !user.LastLogin.Equal(f.now) {
		t.Errorf("Expected last login %v, got %v", f.now, user.LastLogin)
	}
}

func TestValidateExpiredSession(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	_, token := f.signUp(t, "alice@example.com", "hunter22")

	f.advance(time.Hour - time.Second)
	if _, err := f.manager.Validate(ctx, token); err != nil {
		t.Fatalf("Expected session still valid one second before expiry: %v", err)
	}

	f.advance(time.Second)
	if _, err := f.manager.Validate(ctx, token); !errors.Is(err, apperrors.ErrSessionInvalid) {
		t.Errorf("Expected session-invalid at expiry, got %v", err)
	}
}

func TestLogoutRevokesImmediately(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	_, token := f.signUp(t, "alice@example.com", "hunter22")

	if err := f.manager.Logout(ctx, token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	// Token is still cryptographically sound but the session row is gone.
	if _, err := f.manager.Validate(ctx, token); !errors.Is(err, apperrors.ErrSessionInvalid) {
		t.Errorf("Expected session-invalid after logout, got %v", err)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	_, token := f.signUp(t, "alice@example.com", "hunter22")

	for i := 0; i < 3; i++ {
		if err := f.manager.Logout(ctx, token); err != nil {
			t.Fatalf("Logout attempt %d failed: %v", i+1, err)
		}
	}
	if err := f.manager.Logout(ctx, "never-issued-token"); err != nil {
		t.Errorf("Logout of unknown token failed: %v", err)
	}
	if err := f.manager.Logout(ctx, ""); err != nil {
		t.Errorf("Logout of empty token failed: %v", err)
	}
}

func TestConcurrentSessionsIndependent(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	_, first := f.signUp(t, "alice@example.com", "hunter22")

	// A later issue carries a distinct jti, so the tokens differ even
	// within the same second.
	_, second, err := f.manager.Login(ctx, "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if first == second {
		t.Fatal("Expected distinct tokens for separate sessions")
	}

	if err := f.manager.Logout(ctx, first); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := f.manager.Validate(ctx, first); err == nil {
		t.Error("Expected first session revoked")
	}
	if _, err := f.manager.Validate(ctx, second); err != nil {
		t.Errorf("Expected second session unaffected: %v", err)
	}
}

func TestValidateCrossUserIsolation(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	alice, aliceToken := f.signUp(t, "alice@example.com", "hunter22")
	bob, bobToken := f.signUp(t, "bob@example.com", "swordfish")

	gotAlice, err := f.manager.Validate(ctx, aliceToken)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	gotBob, err := f.manager.Validate(ctx, bobToken)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if gotAlice.ID != alice.ID || gotBob.ID != bob.ID {
		t.Error("Sessions resolved to the wrong users")
	}
	if gotAlice.ID == gotBob.ID {
		t.Error("Distinct users share an ID")
	}
}

func TestValidateInfrastructureErrorNotUnauthorized(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	_, token := f.signUp(t, "alice@example.com", "hunter22")

	f.sessions.failAll = errors.New("connection refused")

	_, err := f.manager.Validate(ctx, token)
	if err == nil {
		t.Fatal("Expected error")
	}
	if errors.Is(err, apperrors.ErrSessionInvalid) {
		t.Error("Backend failure reported as invalid session")
	}
	if !errors.Is(err, apperrors.ErrInternal) {
		t.Errorf("Expected internal error, got %v", err)
	}
	if status := apperrors.ToHTTPStatus(err); status < 500 {
		t.Errorf("Expected 5xx mapping, got %d", status)
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	f := newManagerFixture(t, time.Hour)
	ctx := context.Background()

	f.signUp(t, "alice@example.com", "hunter22")
	f.advance(30 * time.Minute)
	if _, _, err := f.manager.Login(ctx, "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	f.advance(31 * time.Minute)
	removed, err := f.manager.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 purged session, got %d", removed)
	}
}
