package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailtalk/forum-backend/internal/dto"
	"github.com/trailtalk/forum-backend/internal/models"
	"github.com/trailtalk/forum-backend/internal/testutil"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

func newTestModeration(t *testing.T) (*ModerationService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	users := NewUserService(db)
	users.now = func() time.Time { return fixedNow }
	svc := NewModerationService(db, users)
	svc.now = func() time.Time { return fixedNow }
	return svc, db
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.Unscoped().First(&user, id).Error)
	return user
}

func reloadReport(t *testing.T, db *gorm.DB, id uint) models.Report {
	t.Helper()
	var report models.Report
	require.NoError(t, db.First(&report, id).Error)
	return report
}

type recordingNotifier struct {
	reports []uint
	err     error
}

func (n *recordingNotifier) ReportModerated(report *models.Report) error {
	n.reports = append(n.reports, report.ID)
	return n.err
}

func TestModerate_ApproveDiscussionDeletesIt(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	owner := testutil.CreateUser(t, db, models.RoleUser)
	reporter := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, owner.ID)
	report := testutil.CreateReport(t, db, reporter.ID, models.TargetDiscussion, discussion.ID, "spam")

	comment := "  removed  "
	got, err := svc.Moderate(report.ID, moderator.ID, &dto.ModerateReportRequest{Status: "approved", Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, models.ReportApproved, got.Status)

	stored := reloadReport(t, db, report.ID)
	assert.Equal(t, models.ReportApproved, stored.Status)
	require.NotNil(t, stored.ModeratorID)
	assert.Equal(t, moderator.ID, *stored.ModeratorID)
	require.NotNil(t, stored.ModeratorComment)
	assert.Equal(t, "removed", *stored.ModeratorComment)

	err = db.First(&models.Discussion{}, discussion.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.False(t, reloadUser(t, db, owner.ID).IsBlocked)
}

func TestModerate_ApproveUserBansWithoutDeleting(t *testing.T) {
	svc, db := newTestModeration(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	target := testutil.CreateUser(t, db, models.RoleUser)
	reporter := testutil.CreateUser(t, db, models.RoleUser)
	report := testutil.CreateReport(t, db, reporter.ID, models.TargetUser, target.ID, "impersonation")

	_, err := svc.Moderate(report.ID, admin.ID, &dto.ModerateReportRequest{Status: "approved"})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.First(&user, target.ID).Error)
	assert.Equal(t, models.UserStatusBanned, user.Status)
	assert.False(t, user.DeletedAt.Valid)
}

func TestModerate_RejectLeavesTargetAlone(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	owner := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, owner.ID)
	reply := testutil.CreateReply(t, db, discussion.ID, owner.ID)
	reporter := testutil.CreateUser(t, db, models.RoleUser)
	report := testutil.CreateReport(t, db, reporter.ID, models.TargetReply, reply.ID, "spam")

	got, err := svc.Moderate(report.ID, moderator.ID, &dto.ModerateReportRequest{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportRejected, got.Status)
	assert.Nil(t, got.ModeratorComment)

	assert.NoError(t, db.First(&models.Reply{}, reply.ID).Error)
}

func TestModerate_TransitionsOnlyOnce(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	reporter := testutil.CreateUser(t, db, models.RoleUser)
	target := testutil.CreateUser(t, db, models.RoleUser)
	report := testutil.CreateReport(t, db, reporter.ID, models.TargetUser, target.ID, "spam")

	_, err := svc.Moderate(report.ID, moderator.ID, &dto.ModerateReportRequest{Status: "rejected"})
	require.NoError(t, err)

	_, err = svc.Moderate(report.ID, moderator.ID, &dto.ModerateReportRequest{Status: "approved"})
	assert.ErrorIs(t, err, ErrReportClosed)

	assert.Equal(t, models.ReportRejected, reloadReport(t, db, report.ID).Status)
	assert.Equal(t, models.UserStatusActive, reloadUser(t, db, target.ID).Status)
}

func TestModerate_Rejections(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	stranger := testutil.CreateUser(t, db, models.RoleUser)
	owner := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, owner.ID)
	report := testutil.CreateReport(t, db, stranger.ID, models.TargetDiscussion, discussion.ID, "spam")
	longComment := strings.Repeat("c", 1001)

	tests := []struct {
		name     string
		reportID uint
		actorID  uint
		req      dto.ModerateReportRequest
		want     error
	}{
		{"bad status", report.ID, moderator.ID, dto.ModerateReportRequest{Status: "pending"}, ErrValidation},
		{"long comment", report.ID, moderator.ID, dto.ModerateReportRequest{Status: "approved", Comment: &longComment}, ErrValidation},
		{"anonymous", report.ID, 0, dto.ModerateReportRequest{Status: "approved"}, ErrUnauthenticated},
		{"unknown actor", report.ID, 9999, dto.ModerateReportRequest{Status: "approved"}, ErrUnauthenticated},
		{"missing report", 9999, moderator.ID, dto.ModerateReportRequest{Status: "approved"}, ErrReportNotFound},
		{"plain user", report.ID, stranger.ID, dto.ModerateReportRequest{Status: "approved"}, ErrForbidden},
		{"discussion owner on own discussion", report.ID, owner.ID, dto.ModerateReportRequest{Status: "rejected"}, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Moderate(tt.reportID, tt.actorID, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	stored := reloadReport(t, db, report.ID)
	assert.Equal(t, models.ReportPending, stored.Status)
	assert.Nil(t, stored.ModeratorID)
	assert.NoError(t, db.First(&models.Discussion{}, discussion.ID).Error)
}

func TestModerate_ThreadOwnerModeratesReplyInOwnDiscussion(t *testing.T) {
	svc, db := newTestModeration(t)
	threadOwner := testutil.CreateUser(t, db, models.RoleUser)
	author := testutil.CreateUser(t, db, models.RoleUser)
	reporter := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, threadOwner.ID)
	reply := testutil.CreateReply(t, db, discussion.ID, author.ID)
	report := testutil.CreateReport(t, db, reporter.ID, models.TargetReply, reply.ID, "off-topic")

	got, err := svc.Moderate(report.ID, threadOwner.ID, &dto.ModerateReportRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportApproved, got.Status)
	assert.ErrorIs(t, db.First(&models.Reply{}, reply.ID).Error, gorm.ErrRecordNotFound)

	// the reply's author has no say over reports in someone else's thread
	other := testutil.CreateReply(t, db, discussion.ID, threadOwner.ID)
	otherReport := testutil.CreateReport(t, db, reporter.ID, models.TargetReply, other.ID, "spam")
	_, err = svc.Moderate(otherReport.ID, author.ID, &dto.ModerateReportRequest{Status: "rejected"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestModerate_FifthReportApprovalBlocksAuthor(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	threadOwner := testutil.CreateUser(t, db, models.RoleUser)
	author := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, threadOwner.ID)
	reply := testutil.CreateReply(t, db, discussion.ID, author.ID)

	var last *models.Report
	for i := 0; i < 5; i++ {
		reporter := testutil.CreateUser(t, db, models.RoleUser)
		report, err := svc.SubmitReport(reporter.ID, &dto.CreateReportRequest{
			Reason: "spam", ReportableID: reply.ID, ReportableType: "reply",
		})
		require.NoError(t, err)
		last = report
	}

	_, err := svc.Moderate(last.ID, moderator.ID, &dto.ModerateReportRequest{Status: "approved"})
	require.NoError(t, err)

	assert.ErrorIs(t, db.First(&models.Reply{}, reply.ID).Error, gorm.ErrRecordNotFound)

	blocked := reloadUser(t, db, author.ID)
	assert.True(t, blocked.IsBlocked)
	require.NotNil(t, blocked.BlockedUntil)
	assert.WithinDuration(t, fixedNow.Add(7*24*time.Hour), *blocked.BlockedUntil, time.Second)

	assert.False(t, reloadUser(t, db, threadOwner.ID).IsBlocked)
}

func TestModerate_BelowThresholdDoesNotBlock(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	author := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, author.ID)

	var reports []*models.Report
	for i := 0; i < 4; i++ {
		reporter := testutil.CreateUser(t, db, models.RoleUser)
		reports = append(reports, testutil.CreateReport(t, db, reporter.ID, models.TargetDiscussion, discussion.ID, "spam"))
	}

	_, err := svc.Moderate(reports[0].ID, moderator.ID, &dto.ModerateReportRequest{Status: "approved"})
	require.NoError(t, err)
	assert.False(t, reloadUser(t, db, author.ID).IsBlocked)
}

func TestModerate_RejectionAtThresholdDoesNotBlock(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	author := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, author.ID)
	reply := testutil.CreateReply(t, db, discussion.ID, author.ID)

	var reports []*models.Report
	for i := 0; i < 6; i++ {
		reporter := testutil.CreateUser(t, db, models.RoleUser)
		reports = append(reports, testutil.CreateReport(t, db, reporter.ID, models.TargetReply, reply.ID, "spam"))
	}

	_, err := svc.Moderate(reports[0].ID, moderator.ID, &dto.ModerateReportRequest{Status: "rejected"})
	require.NoError(t, err)
	assert.False(t, reloadUser(t, db, author.ID).IsBlocked)
	assert.NoError(t, db.First(&models.Reply{}, reply.ID).Error)
}

func TestModerate_UserTargetAtThresholdBlocksThatUser(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	target := testutil.CreateUser(t, db, models.RoleUser)

	var reports []*models.Report
	for i := 0; i < 5; i++ {
		reporter := testutil.CreateUser(t, db, models.RoleUser)
		reports = append(reports, testutil.CreateReport(t, db, reporter.ID, models.TargetUser, target.ID, "harassment"))
	}

	_, err := svc.Moderate(reports[2].ID, moderator.ID, &dto.ModerateReportRequest{Status: "approved"})
	require.NoError(t, err)

	user := reloadUser(t, db, target.ID)
	assert.Equal(t, models.UserStatusBanned, user.Status)
	assert.True(t, user.IsBlocked)
}

func TestModerate_DeletedTargetIsNotAnError(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	owner := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, owner.ID)
	report := testutil.CreateReport(t, db, owner.ID, models.TargetDiscussion, discussion.ID, "spam")
	require.NoError(t, db.Delete(discussion).Error)

	got, err := svc.Moderate(report.ID, moderator.ID, &dto.ModerateReportRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportApproved, got.Status)
}

func TestModerate_NotifierFailureIsSwallowed(t *testing.T) {
	svc, db := newTestModeration(t)
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc.SetNotifier(notifier)

	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	target := testutil.CreateUser(t, db, models.RoleUser)
	report := testutil.CreateReport(t, db, moderator.ID, models.TargetUser, target.ID, "spam")

	_, err := svc.Moderate(report.ID, moderator.ID, &dto.ModerateReportRequest{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, []uint{report.ID}, notifier.reports)
	assert.Equal(t, models.ReportRejected, reloadReport(t, db, report.ID).Status)
}

func failWritesTo(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	fail := func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errors.New("storage unavailable"))
		}
	}
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:fail_delete_"+table, fail))
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_update_"+table, fail))
}

func TestModerate_FailedDeletionKeepsDecision(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	owner := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, owner.ID)
	report := testutil.CreateReport(t, db, moderator.ID, models.TargetDiscussion, discussion.ID, "spam")
	failWritesTo(t, db, "discussions")

	got, err := svc.Moderate(report.ID, moderator.ID, &dto.ModerateReportRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, models.ReportApproved, got.Status)

	assert.Equal(t, models.ReportApproved, reloadReport(t, db, report.ID).Status)
	assert.NoError(t, db.First(&models.Discussion{}, discussion.ID).Error)
}

func TestModerate_FailedBanKeepsDecision(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	target := testutil.CreateUser(t, db, models.RoleUser)
	var reports []*models.Report
	for i := 0; i < 5; i++ {
		reporter := testutil.CreateUser(t, db, models.RoleUser)
		reports = append(reports, testutil.CreateReport(t, db, reporter.ID, models.TargetUser, target.ID, "spam"))
	}
	failWritesTo(t, db, "users")

	_, err := svc.Moderate(reports[0].ID, moderator.ID, &dto.ModerateReportRequest{Status: "approved"})
	require.NoError(t, err)

	assert.Equal(t, models.ReportApproved, reloadReport(t, db, reports[0].ID).Status)
	user := reloadUser(t, db, target.ID)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.False(t, user.IsBlocked)
}

func TestModerateGroup_MatchesAcrossTypes(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	owner := testutil.CreateUser(t, db, models.RoleUser)

	// force a reply and a discussion to share id 7
	discussion := &models.Discussion{ID: 7, UserID: owner.ID, Title: "Seven"}
	require.NoError(t, db.Create(discussion).Error)
	host := testutil.CreateDiscussion(t, db, owner.ID)
	reply := &models.Reply{ID: 7, DiscussionID: host.ID, UserID: owner.ID, Content: "seven"}
	require.NoError(t, db.Create(reply).Error)

	r1 := testutil.CreateUser(t, db, models.RoleUser)
	r2 := testutil.CreateUser(t, db, models.RoleUser)
	replyReport := testutil.CreateReport(t, db, r1.ID, models.TargetReply, 7, "spam")
	discussionReport := testutil.CreateReport(t, db, r2.ID, models.TargetDiscussion, 7, "spam")
	unrelated := testutil.CreateReport(t, db, r1.ID, models.TargetDiscussion, host.ID, "spam")

	comment := "bulk"
	updated, err := svc.ModerateGroup(moderator.ID, &dto.ModerateGroupRequest{
		ReportableID: 7, Status: "approved", Comment: &comment,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	for _, id := range []uint{replyReport.ID, discussionReport.ID} {
		stored := reloadReport(t, db, id)
		assert.Equal(t, models.ReportApproved, stored.Status)
		require.NotNil(t, stored.ModeratorID)
		assert.Equal(t, moderator.ID, *stored.ModeratorID)
		require.NotNil(t, stored.ModeratorComment)
		assert.Equal(t, "bulk", *stored.ModeratorComment)
	}
	assert.Equal(t, models.ReportPending, reloadReport(t, db, unrelated.ID).Status)

	assert.ErrorIs(t, db.First(&models.Reply{}, 7).Error, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, db.First(&models.Discussion{}, 7).Error, gorm.ErrRecordNotFound)
	assert.NoError(t, db.First(&models.Discussion{}, host.ID).Error)
}

func TestModerateGroup_SkipsReportsDecidedConcurrently(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	other := testutil.CreateUser(t, db, models.RoleModerator)
	owner := testutil.CreateUser(t, db, models.RoleUser)

	require.NoError(t, db.Create(&models.Discussion{ID: 7, UserID: owner.ID, Title: "Seven"}).Error)
	host := testutil.CreateDiscussion(t, db, owner.ID)
	require.NoError(t, db.Create(&models.Reply{ID: 7, DiscussionID: host.ID, UserID: owner.ID, Content: "seven"}).Error)

	replyReport := testutil.CreateReport(t, db, owner.ID, models.TargetReply, 7, "spam")
	discussionReport := testutil.CreateReport(t, db, other.ID, models.TargetDiscussion, 7, "spam")

	// another moderator rejects the reply report right after the group is loaded
	raced := false
	err := db.Callback().Query().After("gorm:query").Register("test:concurrent_decision", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "reports" {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Model(&models.Report{}).
			Where("id = ?", replyReport.ID).
			Updates(map[string]interface{}{"status": models.ReportRejected, "moderator_id": other.ID})
	})
	require.NoError(t, err)

	updated, err := svc.ModerateGroup(moderator.ID, &dto.ModerateGroupRequest{ReportableID: 7, Status: "approved"})
	require.NoError(t, err)
	require.True(t, raced)
	assert.Equal(t, int64(1), updated)

	assert.Equal(t, models.ReportApproved, reloadReport(t, db, discussionReport.ID).Status)
	stored := reloadReport(t, db, replyReport.ID)
	assert.Equal(t, models.ReportRejected, stored.Status)
	require.NotNil(t, stored.ModeratorID)
	assert.Equal(t, other.ID, *stored.ModeratorID)

	assert.ErrorIs(t, db.First(&models.Discussion{}, 7).Error, gorm.ErrRecordNotFound)
	assert.NoError(t, db.First(&models.Reply{}, 7).Error, "the rejected reply is not deleted")
}

func TestModerateGroup_NeverAutoBlocks(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	author := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, author.ID)
	for i := 0; i < 6; i++ {
		reporter := testutil.CreateUser(t, db, models.RoleUser)
		testutil.CreateReport(t, db, reporter.ID, models.TargetDiscussion, discussion.ID, "spam")
	}

	updated, err := svc.ModerateGroup(moderator.ID, &dto.ModerateGroupRequest{ReportableID: discussion.ID, Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), updated)
	assert.False(t, reloadUser(t, db, author.ID).IsBlocked)
}

func TestModerateGroup_UserTargetIsBanned(t *testing.T) {
	svc, db := newTestModeration(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	target := testutil.CreateUser(t, db, models.RoleUser)
	reporter := testutil.CreateUser(t, db, models.RoleUser)
	testutil.CreateReport(t, db, reporter.ID, models.TargetUser, target.ID, "spam")

	_, err := svc.ModerateGroup(admin.ID, &dto.ModerateGroupRequest{ReportableID: target.ID, Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusBanned, reloadUser(t, db, target.ID).Status)
}

func TestModerateGroup_Rejections(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	threadOwner := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, threadOwner.ID)
	reply := testutil.CreateReply(t, db, discussion.ID, moderator.ID)
	report := testutil.CreateReport(t, db, moderator.ID, models.TargetReply, reply.ID, "spam")

	_, err := svc.ModerateGroup(threadOwner.ID, &dto.ModerateGroupRequest{ReportableID: reply.ID, Status: "rejected"})
	assert.ErrorIs(t, err, ErrForbidden, "thread owners cannot moderate groups")

	_, err = svc.ModerateGroup(threadOwner.ID, &dto.ModerateGroupRequest{Status: "maybe"})
	assert.ErrorIs(t, err, ErrForbidden, "access is checked before the body")

	_, err = svc.ModerateGroup(0, &dto.ModerateGroupRequest{ReportableID: reply.ID, Status: "rejected"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.ModerateGroup(moderator.ID, &dto.ModerateGroupRequest{ReportableID: reply.ID, Status: "maybe"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ModerateGroup(moderator.ID, &dto.ModerateGroupRequest{Status: "rejected"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ModerateGroup(moderator.ID, &dto.ModerateGroupRequest{ReportableID: 9999, Status: "rejected"})
	assert.ErrorIs(t, err, ErrReportNotFound)

	assert.Equal(t, models.ReportPending, reloadReport(t, db, report.ID).Status)
}

func TestListPendingAndGroups(t *testing.T) {
	svc, db := newTestModeration(t)
	moderator := testutil.CreateUser(t, db, models.RoleModerator)
	plain := testutil.CreateUser(t, db, models.RoleUser)
	owner := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, owner.ID)
	replyA := testutil.CreateReply(t, db, discussion.ID, owner.ID)
	replyB := testutil.CreateReply(t, db, discussion.ID, owner.ID)

	for i := 0; i < 11; i++ {
		reporter := testutil.CreateUser(t, db, models.RoleUser)
		target := replyA.ID
		if i%2 == 1 {
			target = replyB.ID
		}
		testutil.CreateReport(t, db, reporter.ID, models.TargetReply, target, "spam")
	}

	reports, pagination, err := svc.ListPending(moderator.ID, "replies", 1)
	require.NoError(t, err)
	assert.Len(t, reports, 10)
	assert.Equal(t, int64(11), pagination.Total)
	assert.Equal(t, 2, pagination.LastPage)

	reports, pagination, err = svc.ListPending(moderator.ID, "replies", 2)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.Equal(t, 2, pagination.CurrentPage)

	groups, err := svc.ListGroups(moderator.ID, "replies")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	total := groups[0].ReportCount + groups[1].ReportCount
	assert.Equal(t, 11, total)

	_, _, err = svc.ListPending(plain.ID, "replies", 1)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.ListGroups(moderator.ID, "media")
	assert.ErrorIs(t, err, ErrUnsupportedTargetType)
	_, err = svc.ListGroups(moderator.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMyResponseReports(t *testing.T) {
	svc, db := newTestModeration(t)
	owner := testutil.CreateUser(t, db, models.RoleUser)
	reporter := testutil.CreateUser(t, db, models.RoleUser)
	discussion := testutil.CreateDiscussion(t, db, owner.ID)
	reply := testutil.CreateReply(t, db, discussion.ID, reporter.ID)
	report := testutil.CreateReport(t, db, reporter.ID, models.TargetReply, reply.ID, "spam")

	reports, pagination, err := svc.MyResponseReports(owner.ID, 1)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, report.ID, reports[0].ID)
	assert.Equal(t, int64(1), pagination.Total)

	reports, _, err = svc.MyResponseReports(reporter.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, reports)

	_, _, err = svc.MyResponseReports(0, 1)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
