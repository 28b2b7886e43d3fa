package handler

import (
	"net/http"
	"strings"

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

type AuthHandler struct {
	sessions *service.SessionManager
}

func NewAuthHandler(sessions *service.SessionManager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

func profileOf(user *model.User) dto.UserProfile {
	return dto.UserProfile{
		ID:              user.ID,
		Email:           user.Email,
		DefaultFromLang: user.DefaultFromLang,
		DefaultToLang:   user.DefaultToLang,
	}
}

// Register creates an account. The client logs in afterwards to obtain a
// session token.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid register payload").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request", bindingDetails(err)))
		return
	}

	user, err := h.sessions.Register(ctx, req.Email, req.Password)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Registration failed").
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	logger.InfoWithContext(ctx, "Registration completed").
		String("user_id", user.ID).
		Log()

	c.JSON(http.StatusCreated, constants.BuildSuccessMessageResponse("User registered successfully"))
}

// Login verifies credentials and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login payload").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request", bindingDetails(err)))
		return
	}

	user, token, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Login failed").
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, User: profileOf(user)})
}

// Logout revokes the presented session. Succeeds even when the token is
// unknown or already revoked.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	token := bearerToken(c)
	if err := h.sessions.Logout(ctx, token); err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.ErrorWithContext(ctx, "Logout failed").
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessMessageResponse("Logged out"))
}

// ValidateSession reports whether the presented token maps to a live
// session. A bad token answers 200 with valid=false; only backend trouble
// is an error status.
func (h *AuthHandler) ValidateSession(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ValidateSession")

	token := bearerToken(c)
	user, err := h.sessions.Validate(ctx, token)
	if err != nil {
		if apperrors.ToHTTPStatus(err) >= 500 {
			logger.ErrorWithContext(ctx, "Session validation backend failure").
				Err(err).
				Log()
			c.JSON(http.StatusServiceUnavailable, constants.BuildErrorResponse(constants.MsgServiceUnavailable, nil))
			return
		}
		c.JSON(http.StatusOK, dto.ValidateSessionResponse{Valid: false})
		return
	}

	profile := profileOf(user)
	c.JSON(http.StatusOK, dto.ValidateSessionResponse{Valid: true, User: &profile})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}
	c.JSON(http.StatusOK, profileOf(user))
}

// bearerToken accepts both "Bearer <token>" and a bare token value.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return token
	}
	if strings.Contains(authHeader, " ") {
		return ""
	}
	return authHeader
}
