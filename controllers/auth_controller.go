package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/services"
	"github.com/pattarawin/webboard/utils"
)

const tokenTTL = 24 * time.Hour

// AuthController serves registration, login and token revocation.
type AuthController struct {
	users *services.UserService
	cache *cache.Cache
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB, c *cache.Cache) *AuthController {
	return &AuthController{users: services.NewUserService(db, c), cache: c}
}

// Register creates an account and returns a fresh token.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=64"`
		Email    string `json:"email" binding:"omitempty,email"`
		Password string `json:"password" binding:"required,min=8,max=72"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	user, err := a.users.Register(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			utils.Error(ctx, http.StatusConflict, 40950, "username already taken")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to register")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.IsStaff, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to issue token")
		return
	}
	utils.Success(ctx, gin.H{"user": user, "token": token})
}

// Login verifies credentials and issues a token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid request payload")
		return
	}

	user, err := a.users.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrPermissionDenied) {
			utils.Error(ctx, http.StatusUnauthorized, 40150, "invalid username or password")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to log in")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.IsStaff, tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to issue token")
		return
	}
	utils.Success(ctx, gin.H{"user": user, "token": token})
}

// Logout revokes the presented token by blacklisting its jti until the token
// would have expired on its own.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := bearerToken(ctx)
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40151, "invalid token")
		return
	}

	ttl := tokenTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl > 0 {
		a.cache.SetFlag(cache.BlacklistKey(claims.ID), ttl)
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40152, "unauthorized")
		return
	}
	user, err := a.users.Get(userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40450, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to load profile")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
