package repository

import (
	"context"
	"time"

	"github.com/translationhub/server/internal/model"
	ctxutil "github.com/translationhub/server/pkg/context"
	"github.com/translationhub/server/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user row. The unique index on email surfaces
// duplicates as a constraint error.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CreateUser")

	logger.DebugWithContext(ctx, "Creating new user").
		String("email", user.Email).
		Log()

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return err
	}

	start := time.Now()
	err := r.db.WithContext(ctx).Create(user).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "User created successfully").
		String("user_id", user.ID).
		String("email", user.Email).
		Duration(duration).
		Log()

	return nil
}

// GetByEmail finds a user by email. Returns gorm.ErrRecordNotFound when
// no row matches.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetUserByEmail")

	logger.DebugWithContext(ctx, "Getting user by email").
		String("email", email).
		Log()

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "User lookup by email failed").
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved successfully by email").
		String("user_id", user.ID).
		Duration(duration).
		Log()

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetUserByID")

	logger.DebugWithContext(ctx, "Getting user by ID").
		String("user_id", id).
		Log()

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "User lookup by ID failed").
			String("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// UpdatePreferences sets the user's default language pair. Nil values leave
// the corresponding column untouched.
func (r *UserRepository) UpdatePreferences(ctx context.Context, id string, fromLang, toLang *string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateUserPreferences")

	updates := map[string]interface{}{}
	if fromLang != nil {
		updates["default_from_lang"] = *fromLang
	}
	if toLang != nil {
		updates["default_to_lang"] = *toLang
	}
	if len(updates) == 0 {
		return nil
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user preferences").
			String("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User preferences updated").
		String("user_id", id).
		Duration(duration).
		Log()

	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateLastLogin")

	start := time.Now()
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("last_login", at).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to update last login").
			String("user_id", id).
			Duration(duration).
			Err(err).
			Log()
	}

	return err
}
