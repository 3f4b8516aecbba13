package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/services"
	"github.com/pattarawin/webboard/utils"
)

// AdminController serves the staff panel: dashboard, report triage, category
// management, user administration and the hard moderation actions.
type AdminController struct {
	moderation *services.ModerationService
	categories *services.CategoryService
	users      *services.UserService
	threads    *services.ThreadService
	comments   *services.CommentService
	stats      *services.StatsService
}

// NewAdminController creates a new AdminController instance.
func NewAdminController(db *gorm.DB, c *cache.Cache) *AdminController {
	return &AdminController{
		moderation: services.NewModerationService(db, c),
		categories: services.NewCategoryService(db),
		users:      services.NewUserService(db, c),
		threads:    services.NewThreadService(db, c),
		comments:   services.NewCommentService(db, c),
		stats:      services.NewStatsService(db),
	}
}

// Dashboard returns the staff landing page aggregates.
func (a *AdminController) Dashboard(ctx *gin.Context) {
	d, err := a.stats.Dashboard()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to build dashboard")
		return
	}
	utils.Success(ctx, d)
}

// ListReports returns reports newest first with target thread annotations.
func (a *AdminController) ListReports(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	items, total, err := a.moderation.ListReports(ctx.Query("q"), page, pageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list reports")
		return
	}
	open, err := a.moderation.OpenCount()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to count open reports")
		return
	}
	utils.Success(ctx, gin.H{
		"items":      items,
		"open_count": open,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// ResolveReport closes a report while keeping the reported content.
func (a *AdminController) ResolveReport(ctx *gin.Context) {
	reportID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	res, err := a.moderation.ResolveKeep(reportID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "report not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to resolve report")
		return
	}
	msg := "report resolved"
	if res.AlreadyResolved {
		msg = "report was already resolved"
	}
	utils.Success(ctx, gin.H{"outcome": res.Outcome, "message": msg})
}

// RemoveReportTarget closes a report and soft-deletes whatever it points at.
func (a *AdminController) RemoveReportTarget(ctx *gin.Context) {
	reportID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	res, err := a.moderation.ResolveRemove(reportID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40441, "report not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to remove report target")
		return
	}
	msg := "target removed and report resolved"
	if res.Outcome == services.OutcomeResolvedTargetMissing {
		msg = "target was already gone; report resolved"
	}
	utils.Success(ctx, gin.H{"outcome": res.Outcome, "message": msg})
}

// CreateCategory adds a category; the slug is derived server-side.
func (a *AdminController) CreateCategory(ctx *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required,min=1,max=64"`
		Order int    `json:"order"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	cat, err := a.categories.Create(req.Name, req.Order)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			utils.Error(ctx, http.StatusConflict, 40940, "category name already in use")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to create category")
		return
	}
	utils.Success(ctx, gin.H{"category": cat})
}

// UpdateCategory renames or reorders a category.
func (a *AdminController) UpdateCategory(ctx *gin.Context) {
	categoryID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Name  string `json:"name"`
		Order int    `json:"order"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}
	cat, err := a.categories.Update(categoryID, req.Name, req.Order)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40442, "category not found")
		case errors.Is(err, services.ErrConflict):
			utils.Error(ctx, http.StatusConflict, 40941, "category name already in use")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to update category")
		}
		return
	}
	utils.Success(ctx, gin.H{"category": cat})
}

// DeleteCategory removes an empty category. Categories still referenced by
// live threads are protected.
func (a *AdminController) DeleteCategory(ctx *gin.Context) {
	categoryID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := a.categories.Delete(categoryID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40443, "category not found")
		case errors.Is(err, services.ErrConflict):
			utils.Error(ctx, http.StatusConflict, 40942, "category still has threads")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to delete category")
		}
		return
	}
	utils.Success(ctx, gin.H{"message": "category deleted"})
}

// MoveCategory nudges a category up or down in display order.
func (a *AdminController) MoveCategory(ctx *gin.Context) {
	categoryID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Direction string `json:"direction" binding:"required,oneof=up down"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "direction must be up or down")
		return
	}
	cat, err := a.categories.Move(categoryID, req.Direction)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40444, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50048, "failed to move category")
		return
	}
	utils.Success(ctx, gin.H{"category": cat})
}

// ListUsers returns users with their online flag.
func (a *AdminController) ListUsers(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	items, total, err := a.users.List(ctx.Query("q"), page, pageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50049, "failed to list users")
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

// SetUserRole grants or revokes the staff role. Staff cannot strip their own
// role, which keeps at least the acting account in the panel.
func (a *AdminController) SetUserRole(ctx *gin.Context) {
	userID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		IsStaff *bool `json:"is_staff" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid request payload")
		return
	}

	if actorID, _ := getUserID(ctx); actorID == userID && !*req.IsStaff {
		utils.Error(ctx, http.StatusBadRequest, 40044, "cannot revoke your own staff role")
		return
	}

	user, err := a.users.SetStaff(userID, *req.IsStaff)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40445, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to update user role")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// HardDeleteComment removes a comment row entirely.
func (a *AdminController) HardDeleteComment(ctx *gin.Context) {
	commentID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := a.comments.HardDelete(commentID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40446, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to delete comment")
		return
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

// RestoreThread reverses a soft delete.
func (a *AdminController) RestoreThread(ctx *gin.Context) {
	threadID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := a.threads.Restore(threadID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40447, "thread not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to restore thread")
		return
	}
	utils.Success(ctx, gin.H{"message": "thread restored"})
}
