package services

import (
	"gorm.io/gorm"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/models"
)

// CounterService serves the live comment count of a thread through the
// cache. Explicit invalidation after every comment mutation is the primary
// consistency mechanism; the 60s TTL only bounds the damage of a missed one.
type CounterService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewCounterService creates a new CounterService instance.
func NewCounterService(db *gorm.DB, c *cache.Cache) *CounterService {
	return &CounterService{db: db, cache: c}
}

// CommentCount returns the number of non-deleted comments under the thread,
// cached for 60 seconds.
func (s *CounterService) CommentCount(threadID uint) (int64, error) {
	key := cache.CommentCountKey(threadID)
	if v, ok := s.cache.GetInt(key); ok {
		return v, nil
	}

	var n int64
	if err := s.db.Model(&models.Comment{}).
		Where("thread_id = ? AND is_deleted = ?", threadID, false).
		Count(&n).Error; err != nil {
		return 0, err
	}

	s.cache.SetInt(key, n, cache.CommentCountTTL)
	return n, nil
}

// InvalidateCommentCount evicts the cached count for a thread. Called after
// every comment create, soft-delete, hard-delete and report-driven removal.
func (s *CounterService) InvalidateCommentCount(threadID uint) {
	s.cache.Delete(cache.CommentCountKey(threadID))
}
