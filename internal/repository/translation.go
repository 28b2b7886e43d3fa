package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/translationhub/server/internal/model"
	ctxutil "github.com/translationhub/server/pkg/context"
	"github.com/translationhub/server/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TranslationRepository struct {
	db *gorm.DB
}

func NewTranslationRepository(db *gorm.DB) *TranslationRepository {
	return &TranslationRepository{db: db}
}

// Save writes the history row, bumps the language-pair counter, and records
// the audit entry in one transaction.
func (r *TranslationRepository) Save(ctx context.Context, t *model.Translation) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "SaveTranslation")

	logger.DebugWithContext(ctx, "Saving translation").
		String("user_id", t.UserID).
		String("from_lang", t.FromLang).
		String("to_lang", t.ToLang).
		String("kind", t.Kind).
		Log()

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return err
	}

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}

		stat := model.LanguageStat{
			UserID:   t.UserID,
			FromLang: t.FromLang,
			ToLang:   t.ToLang,
			Count:    1,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "from_lang"}, {Name: "to_lang"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count": gorm.Expr("language_stats.count + 1"),
			}),
		}).Create(&stat).Error; err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]string{
			"fromLang": t.FromLang,
			"toLang":   t.ToLang,
			"kind":     t.Kind,
		})
		audit := model.AuditLog{
			UserID:    t.UserID,
			Action:    "translation_saved",
			TableName: "translations",
			RecordID:  t.ID,
			Details:   datatypes.JSON(details),
		}
		return tx.Create(&audit).Error
	})
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to save translation").
			String("user_id", t.UserID).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Translation saved").
		String("translation_id", t.ID).
		String("user_id", t.UserID).
		Duration(duration).
		Log()

	return nil
}

// ListByUser returns the user's history, newest first. An empty kind
// returns both text and voice entries.
func (r *TranslationRepository) ListByUser(ctx context.Context, userID, kind string, limit int) ([]model.Translation, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ListTranslations")

	start := time.Now()
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.Translation
	err := query.Order("created_at DESC").Find(&rows).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list translations").
			String("user_id", userID).
			String("kind", kind).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Translations listed").
		String("user_id", userID).
		String("kind", kind).
		Int("returned_count", len(rows)).
		Duration(duration).
		Log()

	return rows, nil
}

// Delete removes a single history entry. Scoped to the owning user so one
// user cannot delete another's rows.
func (r *TranslationRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteTranslation")

	start := time.Now()
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Translation{})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete translation").
			String("translation_id", id).
			String("user_id", userID).
			Duration(duration).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	logger.InfoWithContext(ctx, "Translation deleted").
		String("translation_id", id).
		String("user_id", userID).
		Int64("rows_affected", result.RowsAffected).
		Duration(duration).
		Log()

	return result.RowsAffected > 0, nil
}

// ClearByUser wipes the user's history for one kind, or all kinds when
// kind is empty.
func (r *TranslationRepository) ClearByUser(ctx context.Context, userID, kind string) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ClearTranslations")

	start := time.Now()
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	result := query.Delete(&model.Translation{})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to clear translations").
			String("user_id", userID).
			String("kind", kind).
			Duration(duration).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	logger.InfoWithContext(ctx, "Translation history cleared").
		String("user_id", userID).
		String("kind", kind).
		Int64("rows_affected", result.RowsAffected).
		Duration(duration).
		Log()

	return result.RowsAffected, nil
}

// Stats returns the user's language-pair counters, most used first.
func (r *TranslationRepository) Stats(ctx context.Context, userID string) ([]model.LanguageStat, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "TranslationStats")

	start := time.Now()
	var rows []model.LanguageStat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("count DESC").
		Find(&rows).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to load language stats").
			String("user_id", userID).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	return rows, nil
}

// AuditLogs returns the user's most recent recorded actions.
func (r *TranslationRepository) AuditLogs(ctx context.Context, userID string, limit int) ([]model.AuditLog, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ListAuditLogs")

	if limit <= 0 {
		limit = 100
	}

	start := time.Now()
	var rows []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list audit logs").
			String("user_id", userID).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	return rows, nil
}

// RecordAction writes a standalone audit entry outside the save path.
func (r *TranslationRepository) RecordAction(ctx context.Context, userID, action, tableName, recordID string, details map[string]string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "RecordAction")

	payload, _ := json.Marshal(details)
	audit := model.AuditLog{
		UserID:    userID,
		Action:    action,
		TableName: tableName,
		RecordID:  recordID,
		Details:   datatypes.JSON(payload),
	}

	if err := r.db.WithContext(ctx).Create(&audit).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to record audit action").
			String("user_id", userID).
			String("action", action).
			Err(err).
			Log()
		return err
	}

	return nil
}
