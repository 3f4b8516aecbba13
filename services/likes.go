package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/models"
)

// LikeService owns the (thread, user) like state machine. Toggle is a strict
// flip: the caller cannot request a target state.
type LikeService struct {
	db       *gorm.DB
	trending *TrendingService
}

// NewLikeService creates a new LikeService instance.
func NewLikeService(db *gorm.DB, c *cache.Cache) *LikeService {
	return &LikeService{db: db, trending: NewTrendingService(db, c)}
}

// Toggle flips the like state for the pair and returns the new state. The
// check-then-act runs in one transaction so two concurrent toggles from the
// same user serialize instead of double-inserting; a duplicate-key error from
// a racing insert is absorbed as "already liked". Trending is always
// invalidated, the comment counter never.
func (s *LikeService) Toggle(threadID, userID uint) (bool, error) {
	var liked bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var thread models.Thread
		if err := tx.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var like models.ThreadLike
		err := tx.Where("thread_id = ? AND user_id = ?", threadID, userID).First(&like).Error
		switch {
		case err == nil:
			liked = false
			return tx.Delete(&like).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			liked = true
			if err := tx.Create(&models.ThreadLike{ThreadID: threadID, UserID: userID}).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Lost the race to another request from the same user;
					// the row exists, which is the state we wanted.
					return nil
				}
				return err
			}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return false, err
	}

	s.trending.Invalidate()
	return liked, nil
}

// Count returns the number of likes on a thread.
func (s *LikeService) Count(threadID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.ThreadLike{}).Where("thread_id = ?", threadID).Count(&n).Error
	return n, err
}

// IsLiked reports whether the user currently likes the thread.
func (s *LikeService) IsLiked(threadID, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var n int64
	err := s.db.Model(&models.ThreadLike{}).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Count(&n).Error
	return n > 0, err
}

// LikedSet returns which of the given threads the user likes, for list views.
func (s *LikeService) LikedSet(threadIDs []uint, userID uint) (map[uint]bool, error) {
	res := make(map[uint]bool, len(threadIDs))
	if userID == 0 || len(threadIDs) == 0 {
		return res, nil
	}
	var rows []models.ThreadLike
	if err := s.db.Where("user_id = ? AND thread_id IN ?", userID, threadIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		res[r.ThreadID] = true
	}
	return res, nil
}
