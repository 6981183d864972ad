package entity

import "time"

type RecordType int8

const (
	RecordInvite RecordType = 1
	RecordQuit   RecordType = 2
	RecordKick   RecordType = 3
)

// GroupRecord 成员变动记录，邀请/退群/踢人各写一条，ID 回传给调用方
type GroupRecord struct {
	Id         int64      `gorm:"column:id;primaryKey;autoIncrement:false"`
	GroupId    int64      `gorm:"column:group_id;index;not null"`
	OperatorId int64      `gorm:"column:operator_id;not null"`
	Type       RecordType `gorm:"column:type;not null;comment:1.邀请 2.退群 3.踢出"`
	UserIds    []byte     `gorm:"column:user_ids;type:json"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (GroupRecord) TableName() string {
	return "group_record"
}
