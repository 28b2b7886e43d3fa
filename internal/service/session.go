package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "github.com/translationhub/server/internal/errors"
	"github.com/translationhub/server/internal/model"
	ctxutil "github.com/translationhub/server/pkg/context"
	"github.com/translationhub/server/pkg/logger"
)

// UserStore is the subset of user persistence the session manager needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// SessionStore is the subset of session persistence the session manager needs.
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	GetByToken(ctx context.Context, token string, now time.Time) (*model.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionManager owns the account and session lifecycle: registration,
// login, validation, and logout. A session is valid only while both its
// token signature verifies and its database row is live, so logout takes
// effect immediately even for unexpired tokens.
type SessionManager struct {
	users      UserStore
	sessions   SessionStore
	codec      *TokenCodec
	bcryptCost int
	now        func() time.Time
}

func NewSessionManager(users UserStore, sessions SessionStore, codec *TokenCodec, bcryptCost int) *SessionManager {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &SessionManager{
		users:      users,
		sessions:   sessions,
		codec:      codec,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register creates an account. No session is opened; the client logs in
// explicitly afterwards.
func (m *SessionManager) Register(ctx context.Context, email, password string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.ErrInvalidInput
	}

	if _, err := m.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := m.users.Create(ctx, user); err != nil {
		// A concurrent registration can win between the existence check
		// and the insert; the unique index settles it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(user.ID, "register", true)

	return user, nil
}

// Login verifies credentials and opens a new session. Wrong email and
// wrong password are indistinguishable to the caller.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	user, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.LogAuth(user.ID, "login", false)
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := m.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	now := m.now().UTC()
	if err := m.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Login already succeeded; a stale last_login is tolerable.
		logger.WarnWithContext(ctx, "Failed to record last login").
			String("user_id", user.ID).
			Err(err).
			Log()
	}
	user.LastLogin = &now

	logger.LogAuth(user.ID, "login", true)

	return user, token, nil
}

func (m *SessionManager) openSession(ctx context.Context, user *model.User) (string, error) {
	token, expiresAt, err := m.codec.Issue(user.ID, user.Email)
	if err != nil {
		return "", err
	}

	session := &model.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return token, nil
}

// Validate checks both the token signature and the session row. The user
// row is loaded fresh so revoked accounts and stale claims fail closed.
// Infrastructure failures surface as internal errors, never as a plain
// invalid-session verdict.
func (m *SessionManager) Validate(ctx context.Context, token string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ValidateSession")

	if token == "" {
		return nil, apperrors.ErrSessionInvalid
	}

	claims, err := m.codec.Verify(token)
	if err != nil {
		return nil, err
	}

	session, err := m.sessions.GetByToken(ctx, token, m.now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSessionInvalid
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if session.UserID != claims.UserID {
		return nil, apperrors.ErrSessionInvalid
	}

	user, err := m.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSessionInvalid
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return user, nil
}

// Logout revokes the session for the token. Unknown, expired, and already
// revoked tokens all succeed, so repeated logout is harmless.
func (m *SessionManager) Logout(ctx context.Context, token string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")

	if token == "" {
		return nil
	}

	if err := m.sessions.DeleteByToken(ctx, token); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}

// PurgeExpired removes session rows past their expiry.
func (m *SessionManager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.sessions.DeleteExpired(ctx, m.now().UTC())
}
