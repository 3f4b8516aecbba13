package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/models"
	"github.com/pattarawin/webboard/utils"
)

// ThreadService owns thread lifecycle and the read paths that attach derived
// counts. Mutations evict cache keys after the store write commits.
type ThreadService struct {
	db       *gorm.DB
	counter  *CounterService
	trending *TrendingService
}

// NewThreadService creates a new ThreadService instance.
func NewThreadService(db *gorm.DB, c *cache.Cache) *ThreadService {
	return &ThreadService{
		db:       db,
		counter:  NewCounterService(db, c),
		trending: NewTrendingService(db, c),
	}
}

// ThreadDetail is a thread plus everything the rendering layer needs.
type ThreadDetail struct {
	Thread       models.Thread    `json:"thread"`
	CommentCount int64            `json:"comment_count"`
	LikeCount    int64            `json:"like_count"`
	Liked        bool             `json:"liked"`
	Comments     []models.Comment `json:"comments"`
}

// ThreadListItem is a thread row with derived counts for list views.
type ThreadListItem struct {
	models.Thread
	CommentCount int64 `json:"comment_count"`
	LikeCount    int64 `json:"like_count"`
	Liked        bool  `json:"liked"`
}

// Create stores a new thread under an existing category and evicts trending.
func (s *ThreadService) Create(authorID, categoryID uint, title, content, image string) (*models.Thread, error) {
	var cat models.Category
	if err := s.db.First(&cat, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	thread := models.Thread{
		CategoryID: categoryID,
		AuthorID:   authorID,
		Title:      utils.SanitizeStrict(strings.TrimSpace(title)),
		Content:    utils.Sanitize(content),
		Image:      image,
	}
	if err := s.db.Create(&thread).Error; err != nil {
		return nil, err
	}

	s.trending.Invalidate()
	return &thread, nil
}

// Update edits title/content/category. Author or staff only. Content edits
// do not move any cached score, so no cache key is touched.
func (s *ThreadService) Update(threadID, actorID uint, isStaff bool, categoryID uint, title, content, image string) (*models.Thread, error) {
	var thread models.Thread
	if err := s.db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if thread.AuthorID != actorID && !isStaff {
		return nil, ErrPermissionDenied
	}

	if categoryID != 0 && categoryID != thread.CategoryID {
		var cat models.Category
		if err := s.db.First(&cat, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		thread.CategoryID = categoryID
	}
	thread.Title = utils.SanitizeStrict(strings.TrimSpace(title))
	thread.Content = utils.Sanitize(content)
	if image != "" {
		thread.Image = image
	}
	if err := s.db.Save(&thread).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

// SoftDelete hides a thread. Author or staff only. Idempotent; evicts the
// thread's comment counter and the trending list.
func (s *ThreadService) SoftDelete(threadID, actorID uint, isStaff bool) error {
	var thread models.Thread
	if err := s.db.First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if thread.AuthorID != actorID && !isStaff {
		return ErrPermissionDenied
	}

	if !thread.IsDeleted {
		if err := s.db.Model(&thread).Update("is_deleted", true).Error; err != nil {
			return err
		}
	}
	s.counter.InvalidateCommentCount(threadID)
	s.trending.Invalidate()
	return nil
}

// Restore reverses a soft delete; staff panel only. Evicts the same keys a
// delete does, since the thread re-enters counts and rankings.
func (s *ThreadService) Restore(threadID uint) error {
	res := s.db.Model(&models.Thread{}).Where("id = ?", threadID).Update("is_deleted", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.counter.InvalidateCommentCount(threadID)
	s.trending.Invalidate()
	return nil
}

// Detail loads a non-deleted thread with derived counts, the viewer's liked
// flag and its live comments.
func (s *ThreadService) Detail(threadID, viewerID uint) (*ThreadDetail, error) {
	var thread models.Thread
	err := s.db.Preload("Author").Preload("Category").
		Where("id = ? AND is_deleted = ?", threadID, false).
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	count, err := s.counter.CommentCount(threadID)
	if err != nil {
		return nil, err
	}

	var likeCount int64
	if err := s.db.Model(&models.ThreadLike{}).Where("thread_id = ?", threadID).Count(&likeCount).Error; err != nil {
		return nil, err
	}
	liked := false
	if viewerID != 0 {
		var n int64
		if err := s.db.Model(&models.ThreadLike{}).
			Where("thread_id = ? AND user_id = ?", threadID, viewerID).
			Count(&n).Error; err != nil {
			return nil, err
		}
		liked = n > 0
	}

	var comments []models.Comment
	if err := s.db.Preload("Author").
		Where("thread_id = ? AND is_deleted = ?", threadID, false).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return &ThreadDetail{
		Thread:       thread,
		CommentCount: count,
		LikeCount:    likeCount,
		Liked:        liked,
		Comments:     comments,
	}, nil
}

// List returns non-deleted threads newest first with derived counts,
// substring-filtered on title/content and optionally scoped to a category.
func (s *ThreadService) List(q string, categoryID uint, viewerID uint, page, pageSize int) ([]ThreadListItem, int64, error) {
	query := s.db.Model(&models.Thread{}).Where("is_deleted = ?", false)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + q + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", like, like)
	}
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var threads []models.Thread
	if err := query.Preload("Author").Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&threads).Error; err != nil {
		return nil, 0, err
	}

	items := make([]ThreadListItem, 0, len(threads))
	ids := make([]uint, 0, len(threads))
	for _, t := range threads {
		ids = append(ids, t.ID)
	}
	ids = utils.UniqueUint(ids)

	commentCounts, err := s.countByThread(&models.Comment{}, ids, true)
	if err != nil {
		return nil, 0, err
	}
	likeCounts, err := s.countByThread(&models.ThreadLike{}, ids, false)
	if err != nil {
		return nil, 0, err
	}

	likedSet := map[uint]bool{}
	if viewerID != 0 && len(ids) > 0 {
		var rows []models.ThreadLike
		if err := s.db.Where("user_id = ? AND thread_id IN ?", viewerID, ids).Find(&rows).Error; err != nil {
			return nil, 0, err
		}
		for _, r := range rows {
			likedSet[r.ThreadID] = true
		}
	}

	for _, t := range threads {
		items = append(items, ThreadListItem{
			Thread:       t,
			CommentCount: commentCounts[t.ID],
			LikeCount:    likeCounts[t.ID],
			Liked:        likedSet[t.ID],
		})
	}
	return items, total, nil
}

type threadCountRow struct {
	ThreadID uint
	N        int64
}

func (s *ThreadService) countByThread(model interface{}, ids []uint, liveOnly bool) (map[uint]int64, error) {
	res := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	q := s.db.Model(model).Select("thread_id, COUNT(*) AS n").Where("thread_id IN ?", ids)
	if liveOnly {
		q = q.Where("is_deleted = ?", false)
	}
	var rows []threadCountRow
	if err := q.Group("thread_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		res[r.ThreadID] = r.N
	}
	return res, nil
}
