package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/translationhub/server/internal/constants"
	"github.com/translationhub/server/internal/dto"
	apperrors "github.com/translationhub/server/internal/errors"
	"github.com/translationhub/server/internal/middleware"
	"github.com/translationhub/server/internal/service"
	ctxutil "github.com/translationhub/server/pkg/context"
	"github.com/translationhub/server/pkg/logger"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UpdatePreferences stores the caller's default language pair.
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdatePreferences")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid preferences payload").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request", bindingDetails(err)))
		return
	}

	updated, err := h.users.UpdatePreferences(ctx, user.ID, req.DefaultFromLang, req.DefaultToLang)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.ErrorWithContext(ctx, "Failed to update preferences").
			String("user_id", user.ID).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, dto.UserProfile{
		ID:              updated.ID,
		Email:           updated.Email,
		DefaultFromLang: updated.DefaultFromLang,
		DefaultToLang:   updated.DefaultToLang,
	})
}
