package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/models"
	"github.com/pattarawin/webboard/utils"
)

// UserService owns accounts: registration, credential checks and the staff
// user list with presence annotation.
type UserService struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewUserService creates a new UserService instance.
func NewUserService(db *gorm.DB, c *cache.Cache) *UserService {
	return &UserService{db: db, cache: c}
}

// Register creates an account with a bcrypt password hash. A taken username
// surfaces as ErrConflict.
func (s *UserService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrConflict
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords both come back as ErrPermissionDenied so the response does not
// leak which half failed.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionDenied
		}
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrPermissionDenied
	}
	return &user, nil
}

// Get loads one user by id.
func (s *UserService) Get(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserListItem is a user row annotated with the presence marker for the staff
// panel.
type UserListItem struct {
	models.User
	Online bool `json:"online"`
}

// List returns users newest first with the online flag resolved from the
// presence cache, optionally substring-filtered on username or email.
func (s *UserService) List(q string, page, pageSize int) ([]UserListItem, int64, error) {
	query := s.db.Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + q + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, UserListItem{
			User:   u,
			Online: s.cache.Exists(cache.OnlineKey(u.ID)),
		})
	}
	return items, total, nil
}

// SetStaff grants or revokes the staff role.
func (s *UserService) SetStaff(userID uint, isStaff bool) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.db.Model(&user).Update("is_staff", isStaff).Error; err != nil {
		return nil, err
	}
	user.IsStaff = isStaff
	return &user, nil
}
