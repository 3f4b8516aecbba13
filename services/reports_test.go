package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattarawin/webboard/models"
)

func TestFileReportValidatesTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, user.ID, "hello", time.Now())

	_, err := svc.File("category", cat.ID, user.ID, "wrong kind")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.File(models.ReportTargetThread, 999, user.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.File(models.ReportTargetThread, thread.ID, user.ID, "   ")
	assert.ErrorIs(t, err, ErrConflict)

	rep, err := svc.File(models.ReportTargetThread, thread.ID, user.ID, "spam")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusOpen, rep.Status)
	assert.Equal(t, thread.ID, rep.TargetID)
}

func TestFileReportRejectsDeletedTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, user.ID, "hello", time.Now())
	comment := seedComment(t, db, thread.ID, user.ID)
	require.NoError(t, db.Model(&comment).Update("is_deleted", true).Error)

	_, err := svc.File(models.ReportTargetComment, comment.ID, user.ID, "spam")
	assert.ErrorIs(t, err, ErrNotFound)
}
