package repository

import (
	"context"
	"time"

	"github.com/translationhub/server/internal/model"
	ctxutil "github.com/translationhub/server/pkg/context"
	"github.com/translationhub/server/pkg/logger"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CreateSession")

	logger.DebugWithContext(ctx, "Creating session").
		String("user_id", session.UserID).
		Log()

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return err
	}

	start := time.Now()
	err := r.db.WithContext(ctx).Create(session).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create session").
			String("user_id", session.UserID).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Session created").
		String("session_id", session.SessionID).
		String("user_id", session.UserID).
		Duration(duration).
		Log()

	return nil
}

// GetByToken finds the session row matching the token, live ones only.
// Expired rows are invisible here, so revocation and expiry look the same
// to callers.
func (r *SessionRepository) GetByToken(ctx context.Context, token string, now time.Time) (*model.Session, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetSessionByToken")

	start := time.Now()
	var session model.Session

	result := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, now).
		First(&session)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Session lookup failed").
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "Session retrieved").
		String("session_id", session.SessionID).
		String("user_id", session.UserID).
		Duration(duration).
		Log()

	return &session, nil
}

// DeleteByToken removes the session row for the token. Deleting a token
// that has no row is not an error, logout stays idempotent.
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteSessionByToken")

	start := time.Now()
	result := r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.Session{})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete session").
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Session deleted").
		Int64("rows_affected", result.RowsAffected).
		Duration(duration).
		Log()

	return nil
}

// DeleteExpired purges sessions past their expiry. Run periodically from
// the cleanup worker.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteExpiredSessions")

	start := time.Now()
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Session{})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to purge expired sessions").
			Duration(duration).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.InfoWithContext(ctx, "Expired sessions purged").
			Int64("rows_affected", result.RowsAffected).
			Duration(duration).
			Log()
	}

	return result.RowsAffected, nil
}
