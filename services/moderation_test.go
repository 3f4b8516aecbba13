package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pattarawin/webboard/models"
)

func seedReport(t *testing.T, db *gorm.DB, targetType string, targetID, reporterID uint) models.Report {
	t.Helper()
	rep := models.Report{
		TargetType: targetType,
		TargetID:   targetID,
		ReporterID: reporterID,
		Reason:     "spam",
		Status:     models.ReportStatusOpen,
	}
	require.NoError(t, db.Create(&rep).Error)
	return rep
}

func TestResolveKeepIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewModerationService(db, c)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, user.ID, "hello", time.Now())
	rep := seedReport(t, db, models.ReportTargetThread, thread.ID, user.ID)

	res, err := svc.ResolveKeep(rep.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeResolved, res.Outcome)
	assert.False(t, res.AlreadyResolved)

	res, err = svc.ResolveKeep(rep.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeResolved, res.Outcome)
	assert.True(t, res.AlreadyResolved)

	// The target is untouched either way.
	var check models.Thread
	require.NoError(t, db.First(&check, thread.ID).Error)
	assert.False(t, check.IsDeleted)
}

func TestResolveKeepMissingReport(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewModerationService(db, c)

	_, err := svc.ResolveKeep(12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveRemoveThreadTarget(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewModerationService(db, c)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, user.ID, "offensive", time.Now())
	rep := seedReport(t, db, models.ReportTargetThread, thread.ID, user.ID)

	res, err := svc.ResolveRemove(rep.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeResolved, res.Outcome)

	var checkThread models.Thread
	require.NoError(t, db.First(&checkThread, thread.ID).Error)
	assert.True(t, checkThread.IsDeleted)

	var checkReport models.Report
	require.NoError(t, db.First(&checkReport, rep.ID).Error)
	assert.Equal(t, models.ReportStatusResolved, checkReport.Status)
}

func TestResolveRemoveCommentRefreshesCachedCount(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewModerationService(db, c)
	counter := NewCounterService(db, c)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, user.ID, "hello", time.Now())

	seedComment(t, db, thread.ID, user.ID)
	seedComment(t, db, thread.ID, user.ID)
	bad := seedComment(t, db, thread.ID, user.ID)

	n, err := counter.CommentCount(thread.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	rep := seedReport(t, db, models.ReportTargetComment, bad.ID, user.ID)
	res, err := svc.ResolveRemove(rep.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeResolved, res.Outcome)

	// The eviction makes the next read recount instead of serving 3.
	n, err = counter.CommentCount(thread.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var checkComment models.Comment
	require.NoError(t, db.First(&checkComment, bad.ID).Error)
	assert.True(t, checkComment.IsDeleted)
}

func TestResolveRemoveVanishedTarget(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewModerationService(db, c)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, user.ID, "hello", time.Now())
	bad := seedComment(t, db, thread.ID, user.ID)
	rep := seedReport(t, db, models.ReportTargetComment, bad.ID, user.ID)

	// Target hard-deleted between filing and resolution.
	require.NoError(t, db.Delete(&models.Comment{}, bad.ID).Error)

	res, err := svc.ResolveRemove(rep.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeResolvedTargetMissing, res.Outcome)

	var checkReport models.Report
	require.NoError(t, db.First(&checkReport, rep.ID).Error)
	assert.Equal(t, models.ReportStatusResolved, checkReport.Status)
}

func TestResolveRemoveVanishedThreadTarget(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewModerationService(db, c)

	user := seedUser(t, db, "alice")
	rep := seedReport(t, db, models.ReportTargetThread, 99, user.ID)

	res, err := svc.ResolveRemove(rep.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeResolvedTargetMissing, res.Outcome)

	var checkReport models.Report
	require.NoError(t, db.First(&checkReport, rep.ID).Error)
	assert.Equal(t, models.ReportStatusResolved, checkReport.Status)
}

func TestResolveRemoveAlreadyDeletedTargetStillResolves(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewModerationService(db, c)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, user.ID, "hello", time.Now())
	require.NoError(t, db.Model(&thread).Update("is_deleted", true).Error)
	rep := seedReport(t, db, models.ReportTargetThread, thread.ID, user.ID)

	res, err := svc.ResolveRemove(rep.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeResolved, res.Outcome)
}

func TestOpenCount(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewModerationService(db, c)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, user.ID, "hello", time.Now())

	seedReport(t, db, models.ReportTargetThread, thread.ID, user.ID)
	second := seedReport(t, db, models.ReportTargetThread, thread.ID, user.ID)

	n, err := svc.OpenCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = svc.ResolveKeep(second.ID)
	require.NoError(t, err)

	n, err = svc.OpenCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestListReportsAnnotatesThreadID(t *testing.T) {
	db := newTestDB(t)
	c, _ := newTestCache(t)
	svc := NewModerationService(db, c)

	user := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "general")
	thread := seedThread(t, db, cat.ID, user.ID, "hello", time.Now())
	comment := seedComment(t, db, thread.ID, user.ID)

	seedReport(t, db, models.ReportTargetThread, thread.ID, user.ID)
	seedReport(t, db, models.ReportTargetComment, comment.ID, user.ID)

	items, total, err := svc.ListReports("", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	// Newest first: the comment report leads and resolves to its thread.
	assert.Equal(t, models.ReportTargetComment, items[0].TargetType)
	assert.Equal(t, thread.ID, items[0].ThreadID)
	assert.Equal(t, thread.ID, items[1].ThreadID)
}
