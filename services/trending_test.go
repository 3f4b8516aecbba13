package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/models"
)

func seedLike(t *testing.T, db *gorm.DB, threadID, userID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.ThreadLike{ThreadID: threadID, UserID: userID}).Error)
}

func TestTrendingRanksByScore(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewTrendingService(db, c)
	now := time.Now()
	svc.now = func() time.Time { return now }

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	// quiet: score 0, busy: 2 comments + 1 like = 5, liked: 3 likes = 3.
	seedThread(t, db, cat.ID, user.ID, "quiet", now.Add(-time.Hour))
	busy := seedThread(t, db, cat.ID, user.ID, "busy", now.Add(-2*time.Hour))
	liked := seedThread(t, db, cat.ID, user.ID, "liked", now.Add(-3*time.Hour))

	seedComment(t, db, busy.ID, user.ID)
	seedComment(t, db, busy.ID, user.ID)
	seedLike(t, db, busy.ID, user.ID)
	for i := 0; i < 3; i++ {
		u := seedUser(t, db, "liker"+string(rune('a'+i)))
		seedLike(t, db, liked.ID, u.ID)
	}

	top, err := svc.Top()
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "busy", top[0].Title)
	assert.Equal(t, int64(5), top[0].Score)
	assert.Equal(t, "liked", top[1].Title)
	assert.Equal(t, int64(3), top[1].Score)
	assert.Equal(t, "quiet", top[2].Title)
	assert.Equal(t, "general", top[0].CategoryName)
	assert.Equal(t, "alice", top[0].AuthorName)
}

func TestTrendingTieBreakNewestFirst(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewTrendingService(db, c)
	now := time.Now()
	svc.now = func() time.Time { return now }

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	seedThread(t, db, cat.ID, user.ID, "older", now.Add(-2*time.Hour))
	seedThread(t, db, cat.ID, user.ID, "newer", now.Add(-time.Hour))

	top, err := svc.Top()
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "newer", top[0].Title)
	assert.Equal(t, "older", top[1].Title)
}

func TestTrendingWindowAndDeletionFilter(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewTrendingService(db, c)
	now := time.Now()
	svc.now = func() time.Time { return now }

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	seedThread(t, db, cat.ID, user.ID, "fresh", now.Add(-time.Hour))
	seedThread(t, db, cat.ID, user.ID, "stale", now.Add(-8*24*time.Hour))
	hidden := seedThread(t, db, cat.ID, user.ID, "hidden", now.Add(-time.Hour))
	require.NoError(t, db.Model(&hidden).Update("is_deleted", true).Error)

	top, err := svc.Top()
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "fresh", top[0].Title)
}

func TestTrendingCapsAtFive(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewTrendingService(db, c)
	now := time.Now()
	svc.now = func() time.Time { return now }

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	for i := 0; i < 8; i++ {
		seedThread(t, db, cat.ID, user.ID, "thread", now.Add(-time.Duration(i)*time.Minute))
	}

	top, err := svc.Top()
	require.NoError(t, err)
	assert.Len(t, top, 5)
}

func TestTrendingServedFromCacheUntilInvalidated(t *testing.T) {
	db := newTestDB(t)
	c, mr := newTestCache(t)
	svc := NewTrendingService(db, c)
	now := time.Now()
	svc.now = func() time.Time { return now }

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	seedThread(t, db, cat.ID, user.ID, "first", now.Add(-time.Hour))

	top, err := svc.Top()
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.True(t, mr.Exists(cache.TrendingKey))

	// New activity is invisible while the cached list lives.
	seedThread(t, db, cat.ID, user.ID, "second", now.Add(-time.Minute))
	top, err = svc.Top()
	require.NoError(t, err)
	assert.Len(t, top, 1)

	svc.Invalidate()
	top, err = svc.Top()
	require.NoError(t, err)
	assert.Len(t, top, 2)
}
