package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/translationhub/server/internal/errors"
	"github.com/translationhub/server/internal/model"
	ctxutil "github.com/translationhub/server/pkg/context"
	"github.com/translationhub/server/pkg/logger"
)

// PreferenceStore is the user persistence surface for profile updates.
type PreferenceStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdatePreferences(ctx context.Context, id string, fromLang, toLang *string) error
}

// UserService handles profile operations outside the auth lifecycle.
type UserService struct {
	users PreferenceStore
}

func NewUserService(users PreferenceStore) *UserService {
	return &UserService{users: users}
}

// UpdatePreferences stores the user's default language pair and returns
// the refreshed profile.
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, fromLang, toLang *string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdatePreferences")

	if err := s.users.UpdatePreferences(ctx, userID, fromLang, toLang); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Preferences updated").
		String("user_id", userID).
		Log()

	return user, nil
}
