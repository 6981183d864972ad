package entity

import "time"

const (
	SessionPrivate int8 = 1
	SessionGroup   int8 = 2
)

// ChatSession 用户会话列表项，免打扰开关挂在会话上
type ChatSession struct {
	Id         int64     `gorm:"column:id;primaryKey"`
	UserId     int64     `gorm:"column:user_id;not null;index:idx_user_group"`
	GroupId    int64     `gorm:"column:group_id;not null;default:0;index:idx_user_group"`
	FriendId   int64     `gorm:"column:friend_id;not null;default:0"`
	Type       int8      `gorm:"column:type;not null;comment:1.私聊 2.群聊"`
	NotDisturb bool      `gorm:"column:not_disturb;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (ChatSession) TableName() string {
	return "chat_session"
}
