package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/models"
	"github.com/pattarawin/webboard/utils"
)

// CommentService owns comment lifecycle. Every mutation that changes a
// comment's deletion state evicts the owning thread's counter and the
// trending list, mutation first, eviction after.
type CommentService struct {
	db       *gorm.DB
	counter  *CounterService
	trending *TrendingService
}

// NewCommentService creates a new CommentService instance.
func NewCommentService(db *gorm.DB, c *cache.Cache) *CommentService {
	return &CommentService{
		db:       db,
		counter:  NewCounterService(db, c),
		trending: NewTrendingService(db, c),
	}
}

// Create stores a comment under a non-deleted thread.
func (s *CommentService) Create(threadID, authorID uint, content, image string) (*models.Comment, error) {
	content = utils.Sanitize(strings.TrimSpace(content))
	if content == "" {
		return nil, ErrConflict
	}

	var thread models.Thread
	if err := s.db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		ThreadID: threadID,
		AuthorID: authorID,
		Content:  content,
		Image:    image,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	s.counter.InvalidateCommentCount(threadID)
	s.trending.Invalidate()
	return &comment, nil
}

// Update edits a live comment's content. Author only.
func (s *CommentService) Update(commentID, actorID uint, content string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.Where("id = ? AND is_deleted = ?", commentID, false).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if comment.AuthorID != actorID {
		return nil, ErrPermissionDenied
	}

	comment.Content = utils.Sanitize(content)
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}

	s.counter.InvalidateCommentCount(comment.ThreadID)
	s.trending.Invalidate()
	return &comment, nil
}

// SoftDelete hides a comment. Author or staff. There is no public undelete:
// deleting an already-deleted comment is a quiet no-op.
func (s *CommentService) SoftDelete(commentID, actorID uint, isStaff bool) error {
	// Loaded without the live filter so the owning thread id is always known
	// for cache eviction.
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if comment.AuthorID != actorID && !isStaff {
		return ErrPermissionDenied
	}

	if !comment.IsDeleted {
		if err := s.db.Model(&comment).Update("is_deleted", true).Error; err != nil {
			return err
		}
	}

	s.counter.InvalidateCommentCount(comment.ThreadID)
	s.trending.Invalidate()
	return nil
}

// HardDelete removes the row entirely; staff panel variant only.
func (s *CommentService) HardDelete(commentID uint) error {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.db.Delete(&comment).Error; err != nil {
		return err
	}

	s.counter.InvalidateCommentCount(comment.ThreadID)
	s.trending.Invalidate()
	return nil
}
