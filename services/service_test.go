package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Thread{},
		&models.Comment{},
		&models.ThreadLike{},
		&models.Report{},
	))
	return db
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.New(rdb, nil), mr
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	c := models.Category{Name: name}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func seedThread(t *testing.T, db *gorm.DB, categoryID, authorID uint, title string, createdAt time.Time) models.Thread {
	t.Helper()
	th := models.Thread{
		CategoryID: categoryID,
		AuthorID:   authorID,
		Title:      title,
		Content:    "content of " + title,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(&th).Error)
	return th
}

func seedComment(t *testing.T, db *gorm.DB, threadID, authorID uint) models.Comment {
	t.Helper()
	c := models.Comment{ThreadID: threadID, AuthorID: authorID, Content: "a comment"}
	require.NoError(t, db.Create(&c).Error)
	return c
}
