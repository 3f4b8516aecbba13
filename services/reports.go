package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pattarawin/webboard/models"
	"github.com/pattarawin/webboard/utils"
)

// ReportService files user reports. Filing is the only write the public
// surface gets; everything downstream belongs to ModerationService.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportService instance.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// File opens a report against a live thread or comment. The target must exist
// and be visible at filing time; the stored reference stays weak afterwards.
func (s *ReportService) File(targetType string, targetID, reporterID uint, reason string) (*models.Report, error) {
	if !models.ValidReportTarget(targetType) {
		return nil, ErrConflict
	}
	reason = utils.SanitizeStrict(strings.TrimSpace(reason))
	if reason == "" {
		return nil, ErrConflict
	}

	var err error
	switch targetType {
	case models.ReportTargetThread:
		err = s.db.Where("id = ? AND is_deleted = ?", targetID, false).
			First(&models.Thread{}).Error
	case models.ReportTargetComment:
		err = s.db.Where("id = ? AND is_deleted = ?", targetID, false).
			First(&models.Comment{}).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rep := models.Report{
		TargetType: targetType,
		TargetID:   targetID,
		ReporterID: reporterID,
		Reason:     reason,
		Status:     models.ReportStatusOpen,
	}
	if err := s.db.Create(&rep).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}
