package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCategoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Category{}))
	return db
}

func TestCategorySlugGeneration(t *testing.T) {
	db := newCategoryDB(t)

	cat := Category{Name: "Tech News"}
	require.NoError(t, db.Create(&cat).Error)
	assert.Equal(t, "tech-news", cat.Slug)
}

func TestCategorySlugCollisionProbesSuffix(t *testing.T) {
	db := newCategoryDB(t)

	first := Category{Name: "News"}
	require.NoError(t, db.Create(&first).Error)
	assert.Equal(t, "news", first.Slug)

	// Same slug base from a different name.
	second := Category{Name: "news "}
	require.NoError(t, db.Create(&second).Error)
	assert.Equal(t, "news-1", second.Slug)

	third := Category{Name: "NEWS!"}
	require.NoError(t, db.Create(&third).Error)
	assert.Equal(t, "news-2", third.Slug)
}

func TestCategorySlugFallback(t *testing.T) {
	db := newCategoryDB(t)

	cat := Category{Name: "!!!"}
	require.NoError(t, db.Create(&cat).Error)
	assert.Equal(t, "category", cat.Slug)
}

func TestCategoryExplicitSlugKept(t *testing.T) {
	db := newCategoryDB(t)

	cat := Category{Name: "Anything", Slug: "fixed"}
	require.NoError(t, db.Create(&cat).Error)
	assert.Equal(t, "fixed", cat.Slug)
}
