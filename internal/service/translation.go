package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/translationhub/server/internal/constants"
	"github.com/translationhub/server/internal/dto"
	apperrors "github.com/translationhub/server/internal/errors"
	"github.com/translationhub/server/internal/model"
	ctxutil "github.com/translationhub/server/pkg/context"
)

// HistoryStore is the persistence surface for translation history.
type HistoryStore interface {
	Save(ctx context.Context, t *model.Translation) error
	ListByUser(ctx context.Context, userID, kind string, limit int) ([]model.Translation, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	ClearByUser(ctx context.Context, userID, kind string) (int64, error)
	Stats(ctx context.Context, userID string) ([]model.LanguageStat, error)
	AuditLogs(ctx context.Context, userID string, limit int) ([]model.AuditLog, error)
	RecordAction(ctx context.Context, userID, action, tableName, recordID string, details map[string]string) error
}

// TranslationService manages per-user history, stats, and audit trails.
type TranslationService struct {
	store HistoryStore
}

func NewTranslationService(store HistoryStore) *TranslationService {
	return &TranslationService{store: store}
}

// Save records a finished translation under the given kind (text or voice).
func (s *TranslationService) Save(ctx context.Context, userID, kind string, req dto.SaveTranslationRequest) (*model.Translation, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "SaveTranslation")

	if kind != constants.TranslationKindText && kind != constants.TranslationKindVoice {
		return nil, apperrors.ErrInvalidInput
	}

	t := &model.Translation{
		UserID:         userID,
		Kind:           kind,
		FromLang:       req.FromLang,
		ToLang:         req.ToLang,
		OriginalText:   req.OriginalText,
		TranslatedText: req.TranslatedText,
		Type:           req.Type,
	}
	if err := s.store.Save(ctx, t); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return t, nil
}

// List returns the user's history for one kind, newest first.
func (s *TranslationService) List(ctx context.Context, userID, kind string, limit int) ([]model.Translation, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListTranslations")

	rows, err := s.store.ListByUser(ctx, userID, kind, limit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return rows, nil
}

// Delete removes one entry from the user's own history.
func (s *TranslationService) Delete(ctx context.Context, userID, id string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "DeleteTranslation")

	deleted, err := s.store.Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTranslationNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !deleted {
		return apperrors.ErrTranslationNotFound
	}

	if err := s.store.RecordAction(ctx, userID, "translation_deleted", "translations", id, nil); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}

// Clear wipes the user's history for one kind, or everything when kind
// is empty.
func (s *TranslationService) Clear(ctx context.Context, userID, kind string) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ClearTranslations")

	removed, err := s.store.ClearByUser(ctx, userID, kind)
	if err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if removed > 0 {
		if err := s.store.RecordAction(ctx, userID, "history_cleared", "translations", "", map[string]string{"kind": kind}); err != nil {
			return removed, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	return removed, nil
}

// Stats returns the user's language-pair usage counters.
func (s *TranslationService) Stats(ctx context.Context, userID string) ([]model.LanguageStat, error) {
	rows, err := s.store.Stats(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return rows, nil
}

// AuditLogs returns the user's most recent recorded actions.
func (s *TranslationService) AuditLogs(ctx context.Context, userID string, limit int) ([]model.AuditLog, error) {
	rows, err := s.store.AuditLogs(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return rows, nil
}
