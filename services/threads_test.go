package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattarawin/webboard/models"
)

func TestThreadCreateRequiresCategory(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewThreadService(db, c)

	user := seedUser(t, db, "alice")
	_, err := svc.Create(user.ID, 999, "title", "content", "")
	assert.ErrorIs(t, err, ErrNotFound)

	cat := seedCategory(t, db, "general")
	thread, err := svc.Create(user.ID, cat.ID, "title", "content", "")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, thread.CategoryID)
}

func TestThreadCreateSanitizesMarkup(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewThreadService(db, c)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")

	thread, err := svc.Create(user.ID, cat.ID,
		`<script>alert(1)</script>hello`,
		`<b>bold</b><script>alert(2)</script>`, "")
	require.NoError(t, err)
	assert.NotContains(t, thread.Title, "<script>")
	assert.Contains(t, thread.Content, "<b>bold</b>")
	assert.NotContains(t, thread.Content, "<script>")
}

func TestThreadSoftDeletePermissions(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewThreadService(db, c)

	author := seedUser(t, db, "author")
	stranger := seedUser(t, db, "stranger")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, author.ID, "hello", time.Now())

	err := svc.SoftDelete(thread.ID, stranger.ID, false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, svc.SoftDelete(thread.ID, stranger.ID, true))

	var check models.Thread
	require.NoError(t, db.First(&check, thread.ID).Error)
	assert.True(t, check.IsDeleted)

	// Deleting again stays a success.
	require.NoError(t, svc.SoftDelete(thread.ID, author.ID, false))
}

func TestThreadRestore(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewThreadService(db, c)

	author := seedUser(t, db, "author")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, author.ID, "hello", time.Now())
	require.NoError(t, svc.SoftDelete(thread.ID, author.ID, false))

	require.NoError(t, svc.Restore(thread.ID))

	var check models.Thread
	require.NoError(t, db.First(&check, thread.ID).Error)
	assert.False(t, check.IsDeleted)

	assert.ErrorIs(t, svc.Restore(999), ErrNotFound)
}

func TestThreadDetailHidesDeleted(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewThreadService(db, c)

	author := seedUser(t, db, "author")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, author.ID, "hello", time.Now())
	seedComment(t, db, thread.ID, author.ID)
	gone := seedComment(t, db, thread.ID, author.ID)
	require.NoError(t, db.Model(&gone).Update("is_deleted", true).Error)

	detail, err := svc.Detail(thread.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.CommentCount)
	assert.Len(t, detail.Comments, 1)

	require.NoError(t, svc.SoftDelete(thread.ID, author.ID, false))
	_, err = svc.Detail(thread.ID, author.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestThreadListFiltersAndCounts(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewThreadService(db, c)
	likes := NewLikeService(db, c)

	author := seedUser(t, db, "author")
	cat := seedCategory(t, db, "general")
	other := seedCategory(t, db, "random")

	match := seedThread(t, db, cat.ID, author.ID, "go generics", time.Now())
	seedThread(t, db, cat.ID, author.ID, "python tips", time.Now())
	seedThread(t, db, other.ID, author.ID, "go modules", time.Now())

	seedComment(t, db, match.ID, author.ID)
	_, err := likes.Toggle(match.ID, author.ID)
	require.NoError(t, err)

	items, total, err := svc.List("go", cat.ID, author.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "go generics", items[0].Title)
	assert.Equal(t, int64(1), items[0].CommentCount)
	assert.Equal(t, int64(1), items[0].LikeCount)
	assert.True(t, items[0].Liked)
}
