package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattarawin/webboard/cache"
)

func TestLikeToggleSymmetry(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewLikeService(db, c)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, user.ID, "hello", time.Now())

	liked, err := svc.Toggle(thread.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	n, err := svc.Count(thread.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	liked, err = svc.Toggle(thread.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	n, err = svc.Count(thread.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	is, err := svc.IsLiked(thread.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, is)
}

func TestLikeToggleCountMatchesToggleParity(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewLikeService(db, c)

	author := seedUser(t, db, "author")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, author.ID, "hello", time.Now())

	odd := seedUser(t, db, "odd")
	even := seedUser(t, db, "even")

	for i := 0; i < 3; i++ {
		_, err := svc.Toggle(thread.ID, odd.ID)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := svc.Toggle(thread.ID, even.ID)
		require.NoError(t, err)
	}

	n, err := svc.Count(thread.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	is, err := svc.IsLiked(thread.ID, odd.ID)
	require.NoError(t, err)
	assert.True(t, is)
}

func TestLikeToggleRejectsMissingOrDeletedThread(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewLikeService(db, c)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	_, err := svc.Toggle(999, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	thread := seedThread(t, db, cat.ID, user.ID, "hidden", time.Now())
	require.NoError(t, db.Model(&thread).Update("is_deleted", true).Error)

	_, err = svc.Toggle(thread.ID, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikeToggleEvictsTrending(t *testing.T) {
	db := newTestDB(t)
	c, mr := newTestCache(t)
	svc := NewLikeService(db, c)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, user.ID, "hello", time.Now())

	require.NoError(t, mr.Set(cache.TrendingKey, "[]"))

	_, err := svc.Toggle(thread.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.TrendingKey))
}
