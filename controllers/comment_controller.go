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

// CommentController serves the public comment lifecycle.
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB, c *cache.Cache) *CommentController {
	return &CommentController{comments: services.NewCommentService(db, c)}
}

// Create stores a comment under a live thread.
func (cc *CommentController) Create(ctx *gin.Context) {
	threadID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
		Image   string `json:"image"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	comment, err := cc.comments.Create(threadID, userID, req.Content, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40420, "thread not found")
		case errors.Is(err, services.ErrConflict):
			utils.Error(ctx, http.StatusBadRequest, 40021, "content cannot be empty")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create comment")
		}
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// Update edits a comment; author only.
func (cc *CommentController) Update(ctx *gin.Context) {
	commentID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}

	comment, err := cc.comments.Update(commentID, userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40421, "comment not found")
		case errors.Is(err, services.ErrPermissionDenied):
			utils.Error(ctx, http.StatusForbidden, 40320, "you can only edit your own comments")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to update comment")
		}
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// Delete soft-deletes a comment; author or staff. There is no public
// undelete path.
func (cc *CommentController) Delete(ctx *gin.Context) {
	commentID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40122, "unauthorized")
		return
	}

	if err := cc.comments.SoftDelete(commentID, userID, isStaff(ctx)); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40422, "comment not found")
		case errors.Is(err, services.ErrPermissionDenied):
			utils.Error(ctx, http.StatusForbidden, 40321, "you can only delete your own comments")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to delete comment")
		}
		return
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
