package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pattarawin/webboard/models"
	"github.com/pattarawin/webboard/services"
	"github.com/pattarawin/webboard/utils"
)

// ReportController accepts user flags on threads and comments.
type ReportController struct {
	reports *services.ReportService
}

// NewReportController creates a new ReportController instance.
func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{reports: services.NewReportService(db)}
}

// Create files a report against /:type/:id with a free-text reason.
func (rc *ReportController) Create(ctx *gin.Context) {
	targetType := ctx.Param("type")
	if !models.ValidReportTarget(targetType) {
		utils.Error(ctx, http.StatusBadRequest, 40030, "unknown report target type")
		return
	}
	targetID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason" binding:"required,max=255"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}

	report, err := rc.reports.File(targetType, targetID, userID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40430, "report target not found")
		case errors.Is(err, services.ErrConflict):
			utils.Error(ctx, http.StatusBadRequest, 40032, "reason cannot be empty")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to file report")
		}
		return
	}
	utils.Success(ctx, gin.H{"report": report})
}
