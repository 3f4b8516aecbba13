package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/pattarawin/webboard/cache"
)

// Trending parameters: threads created within the trailing window, ranked by
// comments*2 + likes, top five, whole list cached for five minutes.
const (
	trendingWindow = 7 * 24 * time.Hour
	trendingSize   = 5
)

// ThreadSummary is the materialized entry cached for the home page. Derived
// counts are attached so the read path never goes back to the store.
type ThreadSummary struct {
	ID           uint      `json:"id"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name"`
	AuthorID     uint      `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	CommentCount int64     `json:"comment_count"`
	LikeCount    int64     `json:"like_count"`
	Score        int64     `json:"score"`
}

// TrendingService computes and caches the ranked top-5 list. Recomputing the
// two aggregates per request would be expensive, so the whole ranked list is
// cached and every write that can change a score evicts it.
type TrendingService struct {
	db    *gorm.DB
	cache *cache.Cache
	now   func() time.Time
}

// NewTrendingService creates a new TrendingService instance.
func NewTrendingService(db *gorm.DB, c *cache.Cache) *TrendingService {
	return &TrendingService{db: db, cache: c, now: time.Now}
}

// Top returns at most five thread summaries, score descending, ties broken
// by created_at descending. Soft-deleted threads and threads older than the
// window never appear.
func (s *TrendingService) Top() ([]ThreadSummary, error) {
	var cached []ThreadSummary
	if s.cache.GetJSON(cache.TrendingKey, &cached) {
		return cached, nil
	}

	cutoff := s.now().Add(-trendingWindow)

	var rows []ThreadSummary
	err := s.db.Table("threads AS t").
		Select(`t.id,
			t.category_id,
			(SELECT c.name FROM categories c WHERE c.id = t.category_id) AS category_name,
			t.author_id,
			(SELECT u.username FROM users u WHERE u.id = t.author_id) AS author_name,
			t.title,
			t.created_at,
			(SELECT COUNT(*) FROM comments cm WHERE cm.thread_id = t.id AND cm.is_deleted = ?) AS comment_count,
			(SELECT COUNT(*) FROM thread_likes l WHERE l.thread_id = t.id) AS like_count`, false).
		Where("t.is_deleted = ? AND t.created_at >= ?", false, cutoff).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].Score = rows[i].CommentCount*2 + rows[i].LikeCount
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if len(rows) > trendingSize {
		rows = rows[:trendingSize]
	}

	s.cache.SetJSON(cache.TrendingKey, rows, cache.TrendingTTL)
	return rows, nil
}

// Invalidate evicts the ranked list. Fired on thread create, like toggle,
// comment create, thread soft-delete/restore and every moderation action
// that changes deletion state or a like count.
func (s *TrendingService) Invalidate() {
	s.cache.Delete(cache.TrendingKey)
}
