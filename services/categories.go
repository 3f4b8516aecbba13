package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pattarawin/webboard/models"
	"github.com/pattarawin/webboard/utils"
)

// CategoryService owns category CRUD for the staff panel. Slug generation
// lives in the model hook; this layer enforces the protect-on-delete rule.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryService instance.
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// Create stores a category; the slug is derived in BeforeCreate.
func (s *CategoryService) Create(name string, order int) (*models.Category, error) {
	name = utils.SanitizeStrict(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrConflict
	}
	cat := models.Category{Name: name, Order: order}
	if err := s.db.Create(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return &cat, nil
}

// Update renames or reorders a category. The slug is never regenerated, so
// existing links keep working.
func (s *CategoryService) Update(id uint, name string, order int) (*models.Category, error) {
	var cat models.Category
	if err := s.db.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if name = utils.SanitizeStrict(strings.TrimSpace(name)); name != "" {
		cat.Name = name
	}
	cat.Order = order
	if err := s.db.Save(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return &cat, nil
}

// Delete removes a category, but only when no non-deleted thread still
// references it (the referential protect rule).
func (s *CategoryService) Delete(id uint) error {
	var cat models.Category
	if err := s.db.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var n int64
	if err := s.db.Model(&models.Thread{}).
		Where("category_id = ? AND is_deleted = ?", id, false).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	return s.db.Delete(&cat).Error
}

// Move nudges the sort key up or down by one.
func (s *CategoryService) Move(id uint, direction string) (*models.Category, error) {
	var cat models.Category
	if err := s.db.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if direction == "up" {
		cat.Order--
	} else {
		cat.Order++
	}
	if err := s.db.Save(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// List returns all categories in display order.
func (s *CategoryService) List() ([]models.Category, error) {
	var cats []models.Category
	err := s.db.Order("`order` ASC, name ASC").Find(&cats).Error
	return cats, err
}

// CategoryWithCount is a category with its live thread count for the home
// sidebar.
type CategoryWithCount struct {
	models.Category
	ThreadCount int64 `json:"thread_count"`
}

// TopByThreadCount returns the n categories with the most non-deleted
// threads, busiest first.
func (s *CategoryService) TopByThreadCount(n int) ([]CategoryWithCount, error) {
	var rows []CategoryWithCount
	err := s.db.Table("categories").
		Select("categories.*, (SELECT COUNT(*) FROM threads t WHERE t.category_id = categories.id AND t.is_deleted = ?) AS thread_count", false).
		Order("thread_count DESC, `order` ASC, name ASC").
		Limit(n).
		Scan(&rows).Error
	return rows, err
}
