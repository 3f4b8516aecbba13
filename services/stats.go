package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/pattarawin/webboard/models"
)

// Dashboard aggregates the staff landing page numbers. Counts that fail are
// reported as zero instead of failing the whole endpoint.
type Dashboard struct {
	TotalUsers    int64 `json:"total_users"`
	NewUsers7d    int64 `json:"new_users_7d"`
	TotalThreads  int64 `json:"total_threads"`
	Threads7d     int64 `json:"threads_7d"`
	TotalComments int64 `json:"total_comments"`
	Comments7d    int64 `json:"comments_7d"`
	ReportsOpen   int64 `json:"reports_open"`

	LatestThreads []models.Thread `json:"latest_threads"`
	LatestReports []models.Report `json:"latest_reports"`
}

// StatsService computes forum statistics for the staff dashboard.
type StatsService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStatsService creates a new StatsService instance.
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db, now: time.Now}
}

// Dashboard returns totals and trailing 7-day activity. Comment counts only
// include live comments inside live threads.
func (s *StatsService) Dashboard() (*Dashboard, error) {
	week := s.now().Add(-7 * 24 * time.Hour)
	d := &Dashboard{}

	count := func(q *gorm.DB, dst *int64) {
		if err := q.Count(dst).Error; err != nil {
			*dst = 0
		}
	}

	count(s.db.Model(&models.User{}), &d.TotalUsers)
	count(s.db.Model(&models.User{}).Where("created_at >= ?", week), &d.NewUsers7d)

	count(s.db.Model(&models.Thread{}).Where("is_deleted = ?", false), &d.TotalThreads)
	count(s.db.Model(&models.Thread{}).Where("is_deleted = ? AND created_at >= ?", false, week), &d.Threads7d)

	liveComments := func() *gorm.DB {
		return s.db.Model(&models.Comment{}).
			Joins("JOIN threads ON threads.id = comments.thread_id").
			Where("comments.is_deleted = ? AND threads.is_deleted = ?", false, false)
	}
	count(liveComments(), &d.TotalComments)
	count(liveComments().Where("comments.created_at >= ?", week), &d.Comments7d)

	count(s.db.Model(&models.Report{}).Where("status = ?", models.ReportStatusOpen), &d.ReportsOpen)

	if err := s.db.Where("is_deleted = ?", false).
		Order("created_at DESC").Limit(5).
		Find(&d.LatestThreads).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("id DESC").Limit(5).
		Find(&d.LatestReports).Error; err != nil {
		return nil, err
	}

	return d, nil
}
