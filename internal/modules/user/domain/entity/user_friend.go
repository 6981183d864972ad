package entity

import "time"

// UserFriend 好友关系（单向一行），status 0 为正常
type UserFriend struct {
	Id        int64     `gorm:"column:id;primaryKey"`
	UserId    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_friend"`
	FriendId  int64     `gorm:"column:friend_id;not null;uniqueIndex:idx_user_friend"`
	Remark    string    `gorm:"column:remark;type:varchar(64)"`
	Status    int8      `gorm:"column:status;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (UserFriend) TableName() string {
	return "user_friend"
}

type FriendWithUser struct {
	UserBrief
	Remark string `gorm:"column:remark"`
}
