package entity

import (
	"database/sql"
	"time"
)

// GroupStatus 群组生命周期状态，只允许 Active -> Dismissed
type GroupStatus int8

const (
	GroupActive    GroupStatus = 0
	GroupDismissed GroupStatus = 1
)

func (s GroupStatus) CanTransitionTo(next GroupStatus) bool {
	return s == GroupActive && next == GroupDismissed
}

func (s GroupStatus) String() string {
	switch s {
	case GroupActive:
		return "active"
	case GroupDismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

type GroupInfo struct {
	Id          int64        `gorm:"column:id;primaryKey;autoIncrement:false"`
	OwnerId     int64        `gorm:"column:owner_id;index;not null;comment:群主ID"`
	Name        string       `gorm:"column:name;type:varchar(64);not null;comment:群名称"`
	Profile     string       `gorm:"column:profile;type:varchar(255);comment:群简介"`
	Avatar      string       `gorm:"column:avatar;type:varchar(255);comment:群头像"`
	Status      GroupStatus  `gorm:"column:status;not null;default:0;comment:状态，0.正常，1.解散"`
	CreatedAt   time.Time    `gorm:"column:created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at"`
	DismissedAt sql.NullTime `gorm:"column:dismissed_at"`
}

func (GroupInfo) TableName() string {
	return "group_info"
}

func (g *GroupInfo) IsActive() bool {
	return g != nil && g.Status == GroupActive
}
