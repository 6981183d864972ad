package persistence

import (
	"context"
	"database/sql/driver"
	"strings"
	"testing"
	"time"

	"GroupLink/internal/modules/group/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

// timeArg 按时间值比较参数
type timeArg time.Time

func (a timeArg) Match(v driver.Value) bool {
	t, ok := v.(time.Time)
	return ok && t.Equal(time.Time(a))
}

func TestMarkDismissedOnlyTouchesActiveGroup(t *testing.T) {
	// Given: 一个仍在正常状态的群
	db, mock := newMockDB(t)
	repo := NewGroupInfoRepository(db)
	at := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE .group_info. SET .dismissed_at.=\?,.status.=\?,.updated_at.=\? WHERE id = \? AND status = \?`).
		WithArgs(timeArg(at), entity.GroupDismissed, timeArg(at), 7, entity.GroupActive).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// 第二次更新时状态已不是 Active
	mock.ExpectExec(`UPDATE .group_info. SET .* WHERE id = \? AND status = \?`).
		WithArgs(timeArg(at), entity.GroupDismissed, timeArg(at), 7, entity.GroupActive).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// When: 连续解散两次
	first, err := repo.MarkDismissed(context.Background(), 7, at)
	require.NoError(t, err)
	second, err := repo.MarkDismissed(context.Background(), 7, at)
	require.NoError(t, err)

	// Then: 只有第一次命中
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(0), second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGroupProfileGuardsStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupInfoRepository(db)
	at := time.Now()

	mock.ExpectExec(`UPDATE .group_info. SET .avatar.=\?,.name.=\?,.profile.=\?,.updated_at.=\? WHERE id = \? AND status = \?`).
		WithArgs("a.png", "team", "hi", timeArg(at), 7, entity.GroupActive).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.UpdateGroupProfile(context.Background(), 7, "team", "hi", "a.png", at)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMembersSkipsOwnerAndInactive(t *testing.T) {
	// Given: 移除名单里混有群主
	db, mock := newMockDB(t)
	repo := NewGroupMemberRepository(db)
	at := time.Now()

	mock.ExpectExec(`UPDATE .group_member. SET .status.=\?,.updated_at.=\? WHERE group_id = \? AND user_id IN \(\?,\?\) AND status = \? AND is_owner = \?`).
		WithArgs(entity.MemberRemoved, timeArg(at), 7, 1, 2, entity.MemberActive, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// When
	n, err := repo.RemoveMembers(context.Background(), 7, []int64{1, 2}, at)

	// Then: 受影响行数如实返回，群主行不在更新范围内
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMembersEmptyListIssuesNoSQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupMemberRepository(db)

	n, err := repo.RemoveMembers(context.Background(), 7, nil, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.ReactivateMembers(context.Background(), 7, []int64{}, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactivateMembersOnlyRevivesRemoved(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupMemberRepository(db)
	at := time.Now()

	mock.ExpectExec(`UPDATE .group_member. SET .status.=\?,.updated_at.=\?,.visit_card.=\? WHERE group_id = \? AND user_id IN \(\?\) AND status = \?`).
		WithArgs(entity.MemberActive, timeArg(at), "", 7, 3, entity.MemberRemoved).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.ReactivateMembers(context.Background(), 7, []int64{3}, at)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveAllMembersAndVisitCardTargetActiveRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupMemberRepository(db)
	at := time.Now()

	mock.ExpectExec(`UPDATE .group_member. SET .status.=\?,.updated_at.=\? WHERE group_id = \? AND status = \?`).
		WithArgs(entity.MemberRemoved, timeArg(at), 7, entity.MemberActive).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE .group_member. SET .updated_at.=\?,.visit_card.=\? WHERE group_id = \? AND user_id = \? AND status = \?`).
		WithArgs(timeArg(at), "bob", 7, 2, entity.MemberActive).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.RemoveAllMembers(context.Background(), 7, at)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	// 成员已被移除，名片更新不命中
	n, err := repo.UpdateVisitCard(context.Background(), 7, 2, "bob", at)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteGroupNoticeScopedToGroup(t *testing.T) {
	// Given: 公告属于群 7
	db, mock := newMockDB(t)
	repo := NewGroupNoticeRepository(db)
	at := time.Now()

	mock.ExpectExec(`UPDATE .group_notice. SET .is_deleted.=\?,.removed_at.=\?,.updated_at.=\? WHERE id = \? AND group_id = \? AND is_deleted = \?`).
		WithArgs(true, timeArg(at), sqlmock.AnyArg(), 11, 7, false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE .group_notice. SET .* WHERE id = \? AND group_id = \? AND is_deleted = \?`).
		WithArgs(true, timeArg(at), sqlmock.AnyArg(), 11, 8, false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// When: 分别以正确和错误的群删除
	n, err := repo.SoftDeleteGroupNotice(context.Background(), 7, 11, at)
	require.NoError(t, err)
	other, err := repo.SoftDeleteGroupNotice(context.Background(), 8, 11, at)
	require.NoError(t, err)

	// Then
	assert.Equal(t, int64(1), n)
	assert.Zero(t, other)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimForPublishLeasesDueRows(t *testing.T) {
	// Given: 两条待投递事件
	db, mock := newMockDB(t)
	repo := NewGroupEventOutboxRepository(db)
	now := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	lease := 30 * time.Second

	rows := sqlmock.NewRows([]string{"id", "event_id", "event", "group_id", "payload_json", "publish_status"}).
		AddRow(int64(10), "e-10", "group.created", int64(7), []byte(`{}`), int64(0)).
		AddRow(int64(11), "e-11", "group.dismissed", int64(7), []byte(`{}`), int64(3))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM .group_event_outbox. WHERE publish_status <> \? AND .*next_retry_at IS NULL OR next_retry_at <= \?.*ORDER BY id ASC LIMIT .+ FOR UPDATE SKIP LOCKED`).
		WillReturnRows(rows)
	mock.ExpectExec(`UPDATE .group_event_outbox. SET .next_retry_at.=\?,.publish_status.=\?,.updated_at.=\? WHERE id IN \(\?,\?\)`).
		WithArgs(timeArg(now.Add(lease)), entity.OutboxPublishing, timeArg(now), 10, 11).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	// When
	claimed, err := repo.ClaimForPublish(context.Background(), now, lease, 2)

	// Then: 领取的行被打上租约
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	assert.Equal(t, "e-10", claimed[0].EventId)
	assert.Equal(t, "group.dismissed", claimed[1].Event)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimForPublishNothingDue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupEventOutboxRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM .group_event_outbox.`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	claimed, err := repo.ClaimForPublish(context.Background(), time.Now(), time.Second, 0)
	require.NoError(t, err)
	assert.Empty(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPublishFailedBumpsRetryCount(t *testing.T) {
	// Given: 一条超长的错误信息
	db, mock := newMockDB(t)
	repo := NewGroupEventOutboxRepository(db)
	next := time.Now().Add(time.Minute)
	long := strings.Repeat("x", 300)

	mock.ExpectExec(`UPDATE .group_event_outbox. SET .last_error.=\?,.next_retry_at.=\?,.publish_status.=\?,.retry_count.=retry_count \+ 1,.updated_at.=\? WHERE id = \?`).
		WithArgs(strings.Repeat("x", 255), timeArg(next), entity.OutboxFailed, sqlmock.AnyArg(), 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// When
	err := repo.MarkPublishFailed(context.Background(), 10, next, long)

	// Then: 错误被截断，重试次数在库内自增
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPublishedClearsError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupEventOutboxRepository(db)
	at := time.Now()

	mock.ExpectExec(`UPDATE .group_event_outbox. SET .last_error.=\?,.publish_status.=\?,.published_at.=\?,.updated_at.=\? WHERE id = \?`).
		WithArgs("", entity.OutboxPublished, sqlmock.AnyArg(), timeArg(at), 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkPublished(context.Background(), 10, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}
