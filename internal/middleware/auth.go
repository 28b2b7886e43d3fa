package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/translationhub/server/internal/constants"
	apperrors "github.com/translationhub/server/internal/errors"
	"github.com/translationhub/server/internal/model"
	ctxutil "github.com/translationhub/server/pkg/context"
	"github.com/translationhub/server/pkg/logger"
)

// SessionValidator resolves a bearer token to its user.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*model.User, error)
}

type AuthMiddleware struct {
	sessions SessionValidator
}

func NewAuthMiddleware(sessions SessionValidator) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// RequireAuth validates the bearer token against the session store and sets
// the user in the request context. A backend outage answers 503, never 401,
// so clients don't discard valid tokens during an incident.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			logger.GetLogger().Warn("Missing or malformed Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
			c.Abort()
			return
		}

		user, err := m.sessions.Validate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, apperrors.ErrInternal) || errors.Is(err, apperrors.ErrServiceUnavailable) {
				logger.GetLogger().Error("Session validation backend failure",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, constants.BuildErrorResponse("Service temporarily unavailable", nil))
				c.Abort()
				return
			}

			logger.GetLogger().Warn("Invalid or expired session token",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
			c.Abort()
			return
		}

		c.Set(constants.GinKeyUser, user)
		c.Set(constants.GinKeyUserID, user.ID)
		c.Set(constants.GinKeyUserEmail, user.Email)
		c.Request = c.Request.WithContext(userContext(c.Request.Context(), user))

		logger.GetLogger().Debug("User authenticated successfully",
			zap.String("user_id", user.ID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))

		c.Next()
	}
}

// OptionalAuth sets the user when a valid token is present but lets the
// request through either way.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := m.sessions.Validate(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(constants.GinKeyUser, user)
		c.Set(constants.GinKeyUserID, user.ID)
		c.Set(constants.GinKeyUserEmail, user.Email)
		c.Request = c.Request.WithContext(userContext(c.Request.Context(), user))

		c.Next()
	}
}

// userContext stamps the authenticated user onto the request context so
// downstream log builders pick it up.
func userContext(ctx context.Context, user *model.User) context.Context {
	ctx = ctxutil.WithUserID(ctx, user.ID)
	return ctxutil.WithValue(ctx, ctxutil.UserEmailKey, user.Email)
}

// bearerToken accepts both "Bearer <token>" and a bare token value.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return token
	}
	if strings.Contains(authHeader, " ") {
		return ""
	}
	return authHeader
}

// CurrentUser pulls the authenticated user out of the gin context.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(constants.GinKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}
