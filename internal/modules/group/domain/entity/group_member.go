package entity

import "time"

// MemberStatus 成员状态，Removed 只能通过重新邀请回到 Active
type MemberStatus int8

const (
	MemberActive  MemberStatus = 0
	MemberRemoved MemberStatus = 1
)

func (s MemberStatus) CanTransitionTo(next MemberStatus) bool {
	return s != next && (next == MemberActive || next == MemberRemoved)
}

type GroupMember struct {
	Id        int64        `gorm:"column:id;primaryKey;autoIncrement:false"`
	GroupId   int64        `gorm:"column:group_id;not null;uniqueIndex:idx_group_user"`
	UserId    int64        `gorm:"column:user_id;not null;uniqueIndex:idx_group_user;index"`
	VisitCard string       `gorm:"column:visit_card;type:varchar(64);comment:群名片"`
	IsOwner   bool         `gorm:"column:is_owner;not null;default:false"`
	Status    MemberStatus `gorm:"column:status;not null;default:0;comment:状态，0.正常，1.已退出或被移除"`
	CreatedAt time.Time    `gorm:"column:created_at"`
	UpdatedAt time.Time    `gorm:"column:updated_at"`
}

func (GroupMember) TableName() string {
	return "group_member"
}

func (m *GroupMember) IsActive() bool {
	return m != nil && m.Status == MemberActive
}

// GroupMemberWithUser 成员列表联表查询结果
type GroupMemberWithUser struct {
	GroupMember
	Nickname string `gorm:"column:nickname"`
	Avatar   string `gorm:"column:avatar"`
	Gender   int8   `gorm:"column:gender"`
	Motto    string `gorm:"column:motto"`
}
