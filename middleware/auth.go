package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextIsStaffKey stores the staff flag inside Gin context.
	ContextIsStaffKey = "is_staff"
)

// AuthRequired ensures the request is authenticated via JWT. Revoked tokens
// are rejected through the jti blacklist held in the shared cache.
func AuthRequired(c *cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "invalid token")
			ctx.Abort()
			return
		}

		if c.Exists(cache.BlacklistKey(claims.ID)) {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "token revoked")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextIsStaffKey, claims.IsStaff)
		ctx.Next()
	}
}

// AuthOptional resolves the viewer identity when a valid token is presented
// but never rejects the request. Read paths use it for liked flags.
func AuthOptional(c *cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if claims, err := utils.ParseToken(strings.TrimSpace(parts[1])); err == nil {
				if !c.Exists(cache.BlacklistKey(claims.ID)) {
					ctx.Set(ContextUserIDKey, claims.UserID)
					ctx.Set(ContextUsernameKey, claims.Username)
					ctx.Set(ContextIsStaffKey, claims.IsStaff)
				}
			}
		}
		ctx.Next()
	}
}

// StaffRequired gates the admin surface. Must run after AuthRequired.
func StaffRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		staff, _ := ctx.Get(ContextIsStaffKey)
		if isStaff, ok := staff.(bool); !ok || !isStaff {
			utils.Error(ctx, http.StatusForbidden, 40301, "staff access required")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
