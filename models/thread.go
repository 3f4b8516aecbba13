package models

import "time"

// Thread is a forum topic. Threads are never hard-deleted: IsDeleted hides
// them from all public queries and staff can flip it back.
type Thread struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	AuthorID   uint      `gorm:"index;not null" json:"author_id"`
	Title      string    `gorm:"size:160;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Image      string    `gorm:"size:512" json:"image,omitempty"`
	IsDeleted  bool      `gorm:"default:false;index:idx_threads_live,priority:1" json:"-"`
	CreatedAt  time.Time `gorm:"index:idx_threads_live,priority:2" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Category Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category,omitempty"`
	Author   User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
}
