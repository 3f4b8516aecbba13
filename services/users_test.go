package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattarawin/webboard/cache"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewUserService(db, c)

	user, err := svc.Register("alice", "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	_, err = svc.Register("alice", "", "another pass")
	assert.ErrorIs(t, err, ErrConflict)

	got, err := svc.Authenticate("alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = svc.Authenticate("nobody", "whatever")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestListUsersAnnotatesOnline(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewUserService(db, c)

	online := seedUser(t, db, "online")
	seedUser(t, db, "offline")
	c.SetFlag(cache.OnlineKey(online.ID), cache.OnlineTTL)

	items, total, err := svc.List("", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	byName := map[string]bool{}
	for _, it := range items {
		byName[it.Username] = it.Online
	}
	assert.True(t, byName["online"])
	assert.False(t, byName["offline"])
}

func TestSetStaff(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewUserService(db, c)

	user := seedUser(t, db, "alice")
	updated, err := svc.SetStaff(user.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsStaff)

	_, err = svc.SetStaff(999, true)
	assert.ErrorIs(t, err, ErrNotFound)
}
