package models

import "time"

// Report target types and statuses. The target is a weak reference resolved
// by (type, id) at resolution time; the row it points at may already be gone.
const (
	ReportTargetThread  = "thread"
	ReportTargetComment = "comment"

	ReportStatusOpen     = "open"
	ReportStatusResolved = "resolved"
)

// Report is a user flag on a thread or comment. Resolution flips Status and
// never deletes the row, so closed reports stay auditable.
type Report struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TargetType string    `gorm:"size:10;not null;index:idx_reports_target,priority:1" json:"target_type"`
	TargetID   uint      `gorm:"not null;index:idx_reports_target,priority:2" json:"target_id"`
	ReporterID uint      `gorm:"index;not null" json:"reporter_id"`
	Reason     string    `gorm:"size:255;not null" json:"reason"`
	Status     string    `gorm:"size:10;default:open;index:idx_reports_target,priority:3" json:"status"`
	CreatedAt  time.Time `json:"created_at"`

	Reporter User `gorm:"foreignKey:ReporterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reporter,omitempty"`
}

// ValidReportTarget reports whether t names a reportable content type.
func ValidReportTarget(t string) bool {
	return t == ReportTargetThread || t == ReportTargetComment
}
