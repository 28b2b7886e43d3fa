package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/translationhub/server/internal/errors"
	"github.com/translationhub/server/internal/model"
)

type stubValidator struct {
	user *model.User
	err  error
}

func (s *stubValidator) Validate(ctx context.Context, token string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func newAuthTestRouter(validator SessionValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mw := NewAuthMiddleware(validator)
	r.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
	})
	r.GET("/open", mw.OptionalAuth(), func(c *gin.Context) {
		if user, ok := CurrentUser(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	user := &model.User{ID: "user-1", Email: "alice@example.com"}

	tests := []struct {
		name       string
		validator  SessionValidator
		authHeader string
		wantStatus int
	}{
		{"no header", &stubValidator{user: user}, "", http.StatusUnauthorized},
		{"malformed header", &stubValidator{user: user}, "Token abc", http.StatusUnauthorized},
		{"bare token accepted", &stubValidator{user: user}, "abc", http.StatusOK},
		{"invalid session", &stubValidator{err: apperrors.ErrSessionInvalid}, "Bearer abc", http.StatusUnauthorized},
		{"backend down", &stubValidator{err: apperrors.WrapError(apperrors.ErrInternal, context.DeadlineExceeded)}, "Bearer abc", http.StatusServiceUnavailable},
		{"valid session", &stubValidator{user: user}, "Bearer abc", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthTestRouter(tt.validator)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d (body %s)", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestOptionalAuthNeverBlocks(t *testing.T) {
	tests := []struct {
		name       string
		validator  SessionValidator
		authHeader string
	}{
		{"no header", &stubValidator{}, ""},
		{"invalid token", &stubValidator{err: apperrors.ErrSessionInvalid}, "Bearer abc"},
		{"valid token", &stubValidator{user: &model.User{ID: "user-1"}}, "Bearer abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthTestRouter(tt.validator)
			req := httptest.NewRequest(http.MethodGet, "/open", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected 200, got %d", w.Code)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/limited", RateLimit(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("Expected first two requests to pass, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("Expected third request limited, got %v", statuses)
	}

	// A different address has its own window.
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected separate client to pass, got %d", w.Code)
	}
}
