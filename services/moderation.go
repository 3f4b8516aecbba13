package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/models"
)

// Outcome is the result of a report resolution.
type Outcome string

const (
	// OutcomeResolved: report closed, target handled (or deliberately kept).
	OutcomeResolved Outcome = "resolved"
	// OutcomeResolvedTargetMissing: report closed, but the target row was
	// already gone when resolution ran.
	OutcomeResolvedTargetMissing Outcome = "resolved_target_missing"
)

// Resolution carries the outcome plus a notice flag for the staff UI.
type Resolution struct {
	Outcome         Outcome `json:"outcome"`
	AlreadyResolved bool    `json:"already_resolved,omitempty"`
}

// ModerationService drives the report lifecycle: open -> resolved, either
// keeping or removing the target. Reports are closed by status flip, never by
// row deletion, so the moderation trail stays auditable.
type ModerationService struct {
	db       *gorm.DB
	counter  *CounterService
	trending *TrendingService
}

// NewModerationService creates a new ModerationService instance.
func NewModerationService(db *gorm.DB, c *cache.Cache) *ModerationService {
	return &ModerationService{
		db:       db,
		counter:  NewCounterService(db, c),
		trending: NewTrendingService(db, c),
	}
}

// ResolveKeep closes a report without touching the target. Idempotent:
// resolving an already-resolved report succeeds with a notice instead of
// erroring. Keeping a target changes no count, so no cache key is evicted.
func (s *ModerationService) ResolveKeep(reportID uint) (*Resolution, error) {
	var rep models.Report
	if err := s.db.First(&rep, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if rep.Status == models.ReportStatusResolved {
		return &Resolution{Outcome: OutcomeResolved, AlreadyResolved: true}, nil
	}

	if err := s.db.Model(&rep).Update("status", models.ReportStatusResolved).Error; err != nil {
		return nil, err
	}
	return &Resolution{Outcome: OutcomeResolved}, nil
}

// ResolveRemove closes a report and soft-deletes its target. The target
// mutation and the status flip commit in one transaction; cache eviction runs
// after commit and is best-effort. A target that has already vanished still
// terminates the report and surfaces as OutcomeResolvedTargetMissing.
func (s *ModerationService) ResolveRemove(reportID uint) (*Resolution, error) {
	outcome := OutcomeResolved
	var evictCounterThreadID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var rep models.Report
		if err := tx.First(&rep, reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		switch rep.TargetType {
		case models.ReportTargetThread:
			var thread models.Thread
			err := tx.First(&thread, rep.TargetID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				outcome = OutcomeResolvedTargetMissing
			case err != nil:
				return err
			case !thread.IsDeleted:
				if err := tx.Model(&thread).Update("is_deleted", true).Error; err != nil {
					return err
				}
			}

		case models.ReportTargetComment:
			var comment models.Comment
			err := tx.First(&comment, rep.TargetID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				outcome = OutcomeResolvedTargetMissing
			case err != nil:
				return err
			default:
				if !comment.IsDeleted {
					if err := tx.Model(&comment).Update("is_deleted", true).Error; err != nil {
						return err
					}
				}
				evictCounterThreadID = comment.ThreadID
			}

		default:
			// Unknown target type: nothing to remove, close the report anyway.
			outcome = OutcomeResolvedTargetMissing
		}

		return tx.Model(&rep).Update("status", models.ReportStatusResolved).Error
	})
	if err != nil {
		return nil, err
	}

	if evictCounterThreadID != 0 {
		s.counter.InvalidateCommentCount(evictCounterThreadID)
	}
	s.trending.Invalidate()

	return &Resolution{Outcome: outcome}, nil
}

// OpenCount returns the number of reports still awaiting triage.
func (s *ModerationService) OpenCount() (int64, error) {
	var n int64
	err := s.db.Model(&models.Report{}).
		Where("status = ?", models.ReportStatusOpen).
		Count(&n).Error
	return n, err
}

// ReportListItem is a report annotated with the thread the target lives in,
// so the staff panel can link straight to context. Zero when unresolvable.
type ReportListItem struct {
	models.Report
	ThreadID uint `json:"thread_id"`
}

// ListReports returns reports newest first with the target thread annotation,
// optionally substring-filtered on reason or target type.
func (s *ModerationService) ListReports(q string, page, pageSize int) ([]ReportListItem, int64, error) {
	query := s.db.Model(&models.Report{})
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("reason LIKE ? OR target_type LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	if err := query.Preload("Reporter").
		Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	items := make([]ReportListItem, 0, len(reports))
	for _, rep := range reports {
		item := ReportListItem{Report: rep}
		switch rep.TargetType {
		case models.ReportTargetThread:
			item.ThreadID = rep.TargetID
		case models.ReportTargetComment:
			var tid uint
			// Missing comment leaves the annotation zero; the row may be gone.
			_ = s.db.Model(&models.Comment{}).
				Select("thread_id").
				Where("id = ?", rep.TargetID).
				Scan(&tid).Error
			item.ThreadID = tid
		}
		items = append(items, item)
	}
	return items, total, nil
}
