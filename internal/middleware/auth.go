package middleware

import (
	"strings"

	"safespace_backend/internal/logger"
	"safespace_backend/internal/models"
	"safespace_backend/internal/repositories"
	"safespace_backend/internal/token"
	"safespace_backend/pkg/apperrors"
	"safespace_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	accessTokenCookie = "accessToken"

	// gin context keys set by AuthMiddleware.
	UserKey   = "user"
	UserIDKey = "userID"
	RoleKey   = "userRole"
)

// AuthMiddleware authenticates the request from a bearer header or the
// accessToken cookie and attaches the full user record plus its canonical
// role. Four gates run in order: blacklist, signature, user existence, and
// an active session (non-null stored refresh token).
func AuthMiddleware(tokens *token.Service, users repositories.UserRepository, roles repositories.RoleRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractAccessToken(c)
		if tokenStr == "" {
			abortWith(c, apperrors.NewUnauthorizedError("Authentication required"))
			return
		}

		ctx := c.Request.Context()

		// The blacklist check fails closed: an unreachable store rejects
		// the request rather than letting a revoked token through.
		blacklisted, err := tokens.IsBlacklisted(ctx, tokenStr)
		if err != nil || blacklisted {
			abortWith(c, apperrors.ErrTokenRevoked)
			return
		}

		claims, err := tokens.VerifyAccessToken(tokenStr)
		if err != nil {
			if apperrors.Is(err, token.ErrTokenExpired) {
				abortWith(c, apperrors.ErrTokenExpired)
				return
			}
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		db := dbFromContext(c)
		if db == nil {
			abortWith(c, apperrors.InternalError(nil))
			return
		}

		user, err := users.FindByID(db, claims.UserID)
		if err != nil {
			abortWith(c, apperrors.ErrTokenUserNotFound)
			return
		}

		// A valid token with no stored refresh token means the session was
		// logged out; the access token dies with it.
		if user.RefreshToken == nil || *user.RefreshToken == "" {
			abortWith(c, apperrors.ErrNoSession)
			return
		}

		role, err := roles.ResolveForUser(db, user)
		if err != nil {
			abortWith(c, apperrors.ErrInvalidRole)
			return
		}

		ctx = logger.WithUserID(ctx, user.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Set(RoleKey, role)
		c.Next()
	}
}

// RequireRole guards a route group behind a canonical role. It must run
// after AuthMiddleware.
func RequireRole(required models.CanonicalRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(RoleKey)
		if !exists {
			abortWith(c, apperrors.NewForbiddenError("Access denied"))
			return
		}
		role, ok := roleVal.(models.CanonicalRole)
		if !ok || role != required {
			abortWith(c, apperrors.NewForbiddenError("Access denied: insufficient permissions"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*models.User)
	return user, ok
}

func extractAccessToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func dbFromContext(c *gin.Context) *gorm.DB {
	val, exists := c.Get(string(contextkeys.DBContextKey))
	if !exists {
		return nil
	}
	db, _ := val.(*gorm.DB)
	return db
}

func abortWith(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPCode, apperrors.ErrorResponse{Success: false, Error: err})
}
