package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/middleware"
	"github.com/pattarawin/webboard/services"
	"github.com/pattarawin/webboard/utils"
)

// ThreadController serves the public forum surface: thread lists, detail,
// lifecycle, the like toggle and the trending block.
type ThreadController struct {
	threads    *services.ThreadService
	likes      *services.LikeService
	trending   *services.TrendingService
	categories *services.CategoryService
}

// NewThreadController creates a new ThreadController instance.
func NewThreadController(db *gorm.DB, c *cache.Cache) *ThreadController {
	return &ThreadController{
		threads:    services.NewThreadService(db, c),
		likes:      services.NewLikeService(db, c),
		trending:   services.NewTrendingService(db, c),
		categories: services.NewCategoryService(db),
	}
}

// List returns paginated non-deleted threads with derived counts, filtered by
// ?q= substring and ?cat= category.
func (t *ThreadController) List(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	q := ctx.Query("q")
	var categoryID uint
	if raw := strings.TrimSpace(ctx.Query("cat")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40010, "invalid category filter")
			return
		}
		categoryID = uint(id)
	}

	viewerID, _ := getUserID(ctx)
	items, total, err := t.threads.List(q, categoryID, viewerID, page, pageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list threads")
		return
	}

	utils.Success(ctx, gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// Trending returns the cached top-5 list for the home page.
func (t *ThreadController) Trending(ctx *gin.Context) {
	top, err := t.trending.Top()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to compute trending")
		return
	}
	utils.Success(ctx, gin.H{"items": top})
}

// Detail returns one thread with comments, counts and the viewer's liked flag.
func (t *ThreadController) Detail(ctx *gin.Context) {
	threadID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	viewerID, _ := getUserID(ctx)

	detail, err := t.threads.Detail(threadID, viewerID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load thread")
		return
	}
	utils.Success(ctx, detail)
}

// Create stores a new thread for the authenticated author.
func (t *ThreadController) Create(ctx *gin.Context) {
	var req struct {
		CategoryID uint   `json:"category_id" binding:"required"`
		Title      string `json:"title" binding:"required,min=1,max=160"`
		Content    string `json:"content" binding:"required"`
		Image      string `json:"image"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	thread, err := t.threads.Create(userID, req.CategoryID, req.Title, req.Content, req.Image)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to create thread")
		return
	}
	utils.Success(ctx, gin.H{"thread": thread})
}

// Update edits a thread; author or staff.
func (t *ThreadController) Update(ctx *gin.Context) {
	threadID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		CategoryID uint   `json:"category_id"`
		Title      string `json:"title" binding:"required,min=1,max=160"`
		Content    string `json:"content" binding:"required"`
		Image      string `json:"image"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	thread, err := t.threads.Update(threadID, userID, isStaff(ctx), req.CategoryID, req.Title, req.Content, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40412, "thread not found")
		case errors.Is(err, services.ErrPermissionDenied):
			utils.Error(ctx, http.StatusForbidden, 40310, "you can only edit your own threads")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to update thread")
		}
		return
	}
	utils.Success(ctx, gin.H{"thread": thread})
}

// Delete soft-deletes a thread; author or staff.
func (t *ThreadController) Delete(ctx *gin.Context) {
	threadID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	if err := t.threads.SoftDelete(threadID, userID, isStaff(ctx)); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40413, "thread not found")
		case errors.Is(err, services.ErrPermissionDenied):
			utils.Error(ctx, http.StatusForbidden, 40311, "you can only delete your own threads")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to delete thread")
		}
		return
	}
	utils.Success(ctx, gin.H{"message": "thread deleted"})
}

// LikeToggle flips the like state and reports the new state plus count.
func (t *ThreadController) LikeToggle(ctx *gin.Context) {
	threadID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	liked, err := t.likes.Toggle(threadID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40414, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to toggle like")
		return
	}

	count, err := t.likes.Count(threadID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to count likes")
		return
	}
	utils.Success(ctx, gin.H{"liked": liked, "like_count": count})
}

// ListCategories returns categories in display order plus the busiest ones.
func (t *ThreadController) ListCategories(ctx *gin.Context) {
	cats, err := t.categories.List()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50018, "failed to list categories")
		return
	}
	top, err := t.categories.TopByThreadCount(10)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50019, "failed to rank categories")
		return
	}
	utils.Success(ctx, gin.H{"items": cats, "top": top})
}

// ---- shared handler helpers ----

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func isStaff(ctx *gin.Context) bool {
	value, exists := ctx.Get(middleware.ContextIsStaffKey)
	if !exists {
		return false
	}
	staff, _ := value.(bool)
	return staff
}
