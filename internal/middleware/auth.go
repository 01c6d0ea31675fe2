package middleware

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/thunderbolt-trucking/dispatch-api/internal/constants"
	apierrors "github.com/thunderbolt-trucking/dispatch-api/internal/errors"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/services"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*services.Claims, error)
}

// UserLoader resolves the authenticated user from storage.
type UserLoader interface {
	GetUser(id uint64) (*models.User, error)
}

// RequireAuth accepts a bearer JWT in the Authorization header and falls back
// to the session cookie set at login. The user is reloaded on every request,
// so a deleted user is rejected and the stored role wins over the one in the
// token or session.
func RequireAuth(tokens TokenParser, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint64
		if header := c.GetHeader("Authorization"); header != "" {
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				apierrors.Unauthorized(c, "Invalid Authorization header format")
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				apierrors.Unauthorized(c, "Invalid or expired token")
				return
			}
			userID, err = claims.UserID()
			if err != nil {
				apierrors.Unauthorized(c, "Invalid or expired token")
				return
			}
		} else {
			id, ok := sessions.Default(c).Get(constants.ContextKeyUserID).(uint64)
			if !ok || id == 0 {
				apierrors.Unauthorized(c, "")
				return
			}
			userID = id
		}

		user, err := users.GetUser(userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				apierrors.Unauthorized(c, "User no longer exists")
				return
			}
			_ = c.Error(err)
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyRole, user.Role)
		c.Next()
	}
}

// RequireRole allows the request through only for the listed roles. It must
// run after RequireAuth.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		apierrors.Forbidden(c, "Insufficient permissions")
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetRole retrieves the current user's role from context
func GetRole(c *gin.Context) (models.UserRole, bool) {
	role, exists := c.Get(constants.ContextKeyRole)
	if !exists {
		return "", false
	}
	r, ok := role.(models.UserRole)
	return r, ok
}
