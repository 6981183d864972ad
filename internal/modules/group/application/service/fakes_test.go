package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	groupEntity "GroupLink/internal/modules/group/domain/entity"
	"GroupLink/internal/modules/group/domain/event"
	groupRepository "GroupLink/internal/modules/group/domain/repository"
	userEntity "GroupLink/internal/modules/user/domain/entity"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

type sessionKey struct {
	userID  int64
	groupID int64
}

// memStore 内存版仓储，实现全部仓储接口；事务失败时回滚到快照
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	groups     map[int64]groupEntity.GroupInfo
	members    map[int64]groupEntity.GroupMember
	notices    map[int64]groupEntity.GroupNotice
	records    []groupEntity.GroupRecord
	outbox     []groupEntity.GroupEventOutbox
	users      map[int64]userEntity.UserBrief
	friends    map[int64][]userEntity.FriendWithUser
	notDisturb map[sessionKey]bool

	failCreateMembers error
	failCreateRecord  error
}

func newMemStore() *memStore {
	return &memStore{
		groups:     map[int64]groupEntity.GroupInfo{},
		members:    map[int64]groupEntity.GroupMember{},
		notices:    map[int64]groupEntity.GroupNotice{},
		users:      map[int64]userEntity.UserBrief{},
		friends:    map[int64][]userEntity.FriendWithUser{},
		notDisturb: map[sessionKey]bool{},
	}
}

func (m *memStore) addUser(id int64, nickname string) {
	m.users[id] = userEntity.UserBrief{Id: id, Nickname: nickname, Avatar: nickname + ".png"}
}

func (m *memStore) addFriend(userID, friendID int64, remark string) {
	m.friends[userID] = append(m.friends[userID], userEntity.FriendWithUser{UserBrief: m.users[friendID], Remark: remark})
}

func (m *memStore) Transaction(ctx context.Context, fn func(groupRepo groupRepository.GroupInfoRepository, memberRepo groupRepository.GroupMemberRepository, noticeRepo groupRepository.GroupNoticeRepository, recordRepo groupRepository.GroupRecordRepository, outboxRepo groupRepository.GroupEventOutboxRepository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	groups, members, notices := lo.Assign(m.groups), lo.Assign(m.members), lo.Assign(m.notices)
	records := append([]groupEntity.GroupRecord(nil), m.records...)
	outbox := append([]groupEntity.GroupEventOutbox(nil), m.outbox...)
	m.mu.Unlock()

	if err := fn(m, m, m, m, m); err != nil {
		m.mu.Lock()
		m.groups, m.members, m.notices, m.records, m.outbox = groups, members, notices, records, outbox
		m.mu.Unlock()
		return err
	}
	return nil
}

// ---- GroupInfoRepository

func (m *memStore) CreateGroupInfo(_ context.Context, group *groupEntity.GroupInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group.Id] = *group
	return nil
}

func (m *memStore) GetGroupInfoByID(_ context.Context, id int64) (*groupEntity.GroupInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &g, nil
}

func (m *memStore) UpdateGroupProfile(_ context.Context, id int64, name, profile, avatar string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok || g.Status != groupEntity.GroupActive {
		return 0, nil
	}
	g.Name, g.Profile, g.Avatar, g.UpdatedAt = name, profile, avatar, at
	m.groups[id] = g
	return 1, nil
}

func (m *memStore) MarkDismissed(_ context.Context, id int64, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok || g.Status != groupEntity.GroupActive {
		return 0, nil
	}
	g.Status = groupEntity.GroupDismissed
	g.UpdatedAt = at
	g.DismissedAt.Time, g.DismissedAt.Valid = at, true
	m.groups[id] = g
	return 1, nil
}

// ---- GroupMemberRepository

func (m *memStore) CreateGroupMembers(_ context.Context, members []*groupEntity.GroupMember) error {
	if m.failCreateMembers != nil {
		return m.failCreateMembers
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, gm := range members {
		m.members[gm.Id] = *gm
	}
	return nil
}

func (m *memStore) findMember(groupID, userID int64) (groupEntity.GroupMember, bool) {
	for _, gm := range m.members {
		if gm.GroupId == groupID && gm.UserId == userID {
			return gm, true
		}
	}
	return groupEntity.GroupMember{}, false
}

func (m *memStore) GetGroupMember(_ context.Context, groupID, userID int64) (*groupEntity.GroupMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gm, ok := m.findMember(groupID, userID)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &gm, nil
}

func (m *memStore) ListMembersByUserIDs(_ context.Context, groupID int64, userIDs []int64) ([]groupEntity.GroupMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []groupEntity.GroupMember
	for _, uid := range userIDs {
		if gm, ok := m.findMember(groupID, uid); ok {
			out = append(out, gm)
		}
	}
	return out, nil
}

func (m *memStore) activeMembers(groupID int64) []groupEntity.GroupMember {
	out := lo.Filter(lo.Values(m.members), func(gm groupEntity.GroupMember, _ int) bool {
		return gm.GroupId == groupID && gm.Status == groupEntity.MemberActive
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (m *memStore) ListActiveMemberIDs(_ context.Context, groupID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Map(m.activeMembers(groupID), func(gm groupEntity.GroupMember, _ int) int64 { return gm.UserId }), nil
}

// ListActiveMembersWithUser 故意按 id 返回，由调用方负责把群主排在最前
func (m *memStore) ListActiveMembersWithUser(_ context.Context, groupID int64) ([]groupEntity.GroupMemberWithUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Map(m.activeMembers(groupID), func(gm groupEntity.GroupMember, _ int) groupEntity.GroupMemberWithUser {
		u := m.users[gm.UserId]
		return groupEntity.GroupMemberWithUser{GroupMember: gm, Nickname: u.Nickname, Avatar: u.Avatar}
	}), nil
}

func (m *memStore) CountActiveMembers(_ context.Context, groupID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.activeMembers(groupID))), nil
}

func (m *memStore) setMemberStatus(groupID int64, userIDs []int64, from, to groupEntity.MemberStatus, skipOwner bool, at time.Time) int64 {
	var n int64
	for id, gm := range m.members {
		if gm.GroupId != groupID || gm.Status != from || (skipOwner && gm.IsOwner) {
			continue
		}
		if userIDs != nil && !lo.Contains(userIDs, gm.UserId) {
			continue
		}
		gm.Status, gm.UpdatedAt = to, at
		m.members[id] = gm
		n++
	}
	return n
}

func (m *memStore) ReactivateMembers(_ context.Context, groupID int64, userIDs []int64, at time.Time) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setMemberStatus(groupID, userIDs, groupEntity.MemberRemoved, groupEntity.MemberActive, false, at), nil
}

func (m *memStore) RemoveMembers(_ context.Context, groupID int64, userIDs []int64, at time.Time) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setMemberStatus(groupID, userIDs, groupEntity.MemberActive, groupEntity.MemberRemoved, true, at), nil
}

func (m *memStore) RemoveAllMembers(_ context.Context, groupID int64, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setMemberStatus(groupID, nil, groupEntity.MemberActive, groupEntity.MemberRemoved, false, at), nil
}

func (m *memStore) UpdateVisitCard(_ context.Context, groupID, userID int64, card string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gm, ok := m.findMember(groupID, userID)
	if !ok || gm.Status != groupEntity.MemberActive {
		return 0, nil
	}
	gm.VisitCard, gm.UpdatedAt = card, at
	m.members[gm.Id] = gm
	return 1, nil
}

// ---- GroupNoticeRepository

func (m *memStore) CreateGroupNotice(_ context.Context, notice *groupEntity.GroupNotice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices[notice.Id] = *notice
	return nil
}

func (m *memStore) GetGroupNotice(_ context.Context, groupID, noticeID int64) (*groupEntity.GroupNotice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notices[noticeID]
	if !ok || n.GroupId != groupID {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}

func (m *memStore) UpdateGroupNotice(_ context.Context, groupID, noticeID int64, title, content string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notices[noticeID]
	if !ok || n.GroupId != groupID || n.IsDeleted {
		return 0, nil
	}
	n.Title, n.Content, n.UpdatedAt = title, content, at
	m.notices[noticeID] = n
	return 1, nil
}

func (m *memStore) SoftDeleteGroupNotice(_ context.Context, groupID, noticeID int64, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notices[noticeID]
	if !ok || n.GroupId != groupID || n.IsDeleted {
		return 0, nil
	}
	n.IsDeleted = true
	n.RemovedAt.Time, n.RemovedAt.Valid = at, true
	m.notices[noticeID] = n
	return 1, nil
}

func (m *memStore) liveNotices(groupID int64) []groupEntity.GroupNotice {
	out := lo.Filter(lo.Values(m.notices), func(n groupEntity.GroupNotice, _ int) bool {
		return n.GroupId == groupID && !n.IsDeleted
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Id > out[j].Id })
	return out
}

func (m *memStore) GetLatestNotice(_ context.Context, groupID int64) (*groupEntity.GroupNotice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	live := m.liveNotices(groupID)
	if len(live) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &live[0], nil
}

func (m *memStore) ListNoticesWithAuthor(_ context.Context, groupID int64) ([]groupEntity.GroupNoticeWithAuthor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Map(m.liveNotices(groupID), func(n groupEntity.GroupNotice, _ int) groupEntity.GroupNoticeWithAuthor {
		u := m.users[n.AuthorId]
		return groupEntity.GroupNoticeWithAuthor{GroupNotice: n, Nickname: u.Nickname, Avatar: u.Avatar}
	}), nil
}

// ---- GroupRecordRepository

func (m *memStore) CreateGroupRecord(_ context.Context, record *groupEntity.GroupRecord) error {
	if m.failCreateRecord != nil {
		return m.failCreateRecord
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *record)
	return nil
}

// ---- GroupEventOutboxRepository，投递相关方法由 notify 包覆盖，这里只需写入

func (m *memStore) Create(_ context.Context, ev *groupEntity.GroupEventOutbox) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outbox = append(m.outbox, *ev)
	return nil
}

func (m *memStore) ClaimForPublish(context.Context, time.Time, time.Duration, int) ([]groupEntity.GroupEventOutbox, error) {
	return nil, nil
}

func (m *memStore) MarkPublished(context.Context, int64, time.Time) error {
	return nil
}

func (m *memStore) MarkPublishFailed(context.Context, int64, time.Time, string) error {
	return nil
}

// ---- user / chat

func (m *memStore) GetUserBriefByIDs(_ context.Context, ids []int64) ([]userEntity.UserBrief, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []userEntity.UserBrief
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memStore) ListFriendsWithUser(_ context.Context, userID int64) ([]userEntity.FriendWithUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]userEntity.FriendWithUser(nil), m.friends[userID]...), nil
}

func (m *memStore) GetGroupNotDisturb(_ context.Context, userID, groupID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notDisturb[sessionKey{userID, groupID}], nil
}

// ---- helpers

func (m *memStore) memberRows(groupID, userID int64) []groupEntity.GroupMember {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Filter(lo.Values(m.members), func(gm groupEntity.GroupMember, _ int) bool {
		return gm.GroupId == groupID && gm.UserId == userID
	})
}

func (m *memStore) events() []event.GroupEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Map(m.outbox, func(row groupEntity.GroupEventOutbox, _ int) event.GroupEvent {
		var ev event.GroupEvent
		_ = json.Unmarshal(row.PayloadJson, &ev)
		return ev
	})
}

func (m *memStore) eventNames() []string {
	return lo.Map(m.events(), func(ev event.GroupEvent, _ int) string { return ev.Event })
}

func (m *memStore) lastEvent() event.GroupEvent {
	evs := m.events()
	return evs[len(evs)-1]
}

type countingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *countingNotifier) Notify() {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}
