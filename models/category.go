package models

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pattarawin/webboard/utils"
)

// Category groups threads. The slug is generated once at creation and is
// guaranteed unique; Order is the manual sort key for listings.
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug  string `gorm:"size:110;uniqueIndex" json:"slug"`
	Order int    `gorm:"default:0" json:"order"`
}

// BeforeCreate derives a unique slug from the name when none was supplied.
// On collision a numeric suffix is probed: news, news-1, news-2, ...
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug != "" {
		return nil
	}
	base := utils.Slugify(c.Name)
	if base == "" {
		base = "category"
	}
	slug := base
	for i := 1; ; i++ {
		var n int64
		if err := tx.Model(&Category{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	c.Slug = slug
	return nil
}
