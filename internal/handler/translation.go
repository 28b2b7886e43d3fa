package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/translationhub/server/internal/constants"
	"github.com/translationhub/server/internal/dto"
	apperrors "github.com/translationhub/server/internal/errors"
	"github.com/translationhub/server/internal/middleware"
	"github.com/translationhub/server/internal/model"
	"github.com/translationhub/server/internal/service"
	ctxutil "github.com/translationhub/server/pkg/context"
	"github.com/translationhub/server/pkg/logger"
)

type TranslationHandler struct {
	translations *service.TranslationService
}

func NewTranslationHandler(translations *service.TranslationService) *TranslationHandler {
	return &TranslationHandler{translations: translations}
}

func translationResponse(t model.Translation) dto.TranslationResponse {
	return dto.TranslationResponse{
		ID:             t.ID,
		FromLang:       t.FromLang,
		ToLang:         t.ToLang,
		OriginalText:   t.OriginalText,
		TranslatedText: t.TranslatedText,
		Type:           t.Type,
		CreatedAt:      t.CreatedAt,
	}
}

// Save records a finished translation. The kind (text or voice) comes from
// the route.
func (h *TranslationHandler) Save(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SaveTranslation")

		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
			return
		}

		var req dto.SaveTranslationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WarnWithContext(ctx, "Invalid translation payload").
				Err(err).
				Log()
			c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request", bindingDetails(err)))
			return
		}

		saved, err := h.translations.Save(ctx, user.ID, kind, req)
		if err != nil {
			status := apperrors.ToHTTPStatus(err)
			logger.ErrorWithContext(ctx, "Failed to save translation").
				String("user_id", user.ID).
				Int("http_status", status).
				Err(err).
				Log()
			c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
			return
		}

		c.JSON(http.StatusCreated, translationResponse(*saved))
	}
}

// List returns the caller's history for the route's kind.
func (h *TranslationHandler) List(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListTranslations")

		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

		rows, err := h.translations.List(ctx, user.ID, kind, limit)
		if err != nil {
			status := apperrors.ToHTTPStatus(err)
			c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
			return
		}

		out := make([]dto.TranslationResponse, 0, len(rows))
		for _, t := range rows {
			out = append(out, translationResponse(t))
		}
		c.JSON(http.StatusOK, out)
	}
}

// Delete removes one entry from the caller's history.
func (h *TranslationHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteTranslation")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	id := c.Param("id")
	if err := h.translations.Delete(ctx, user.ID, id); err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Failed to delete translation").
			String("user_id", user.ID).
			String("translation_id", id).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse())
}

// Clear wipes the caller's history for the route's kind.
func (h *TranslationHandler) Clear(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ClearTranslations")

		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
			return
		}

		removed, err := h.translations.Clear(ctx, user.ID, kind)
		if err != nil {
			status := apperrors.ToHTTPStatus(err)
			c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed})
	}
}

// Stats returns the caller's language-pair usage counters.
func (h *TranslationHandler) Stats(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "TranslationStats")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	rows, err := h.translations.Stats(ctx, user.ID)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	out := make([]dto.StatResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, dto.StatResponse{FromLang: s.FromLang, ToLang: s.ToLang, Count: s.Count})
	}
	c.JSON(http.StatusOK, out)
}

// AuditLogs returns the caller's most recent recorded actions.
func (h *TranslationHandler) AuditLogs(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "AuditLogs")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	rows, err := h.translations.AuditLogs(ctx, user.ID, limit)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	out := make([]dto.AuditLogResponse, 0, len(rows))
	for _, a := range rows {
		var details any
		if len(a.Details) > 0 {
			_ = json.Unmarshal(a.Details, &details)
		}
		out = append(out, dto.AuditLogResponse{
			ID:        a.ID,
			Action:    a.Action,
			TableName: a.TableName,
			RecordID:  a.RecordID,
			Details:   details,
			CreatedAt: a.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}
