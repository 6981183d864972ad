package entity

import "time"

// UserInfo 用户资料，由账号服务维护，本服务只读
type UserInfo struct {
	Id        int64     `gorm:"column:id;primaryKey"`
	Nickname  string    `gorm:"column:nickname;type:varchar(64)"`
	Avatar    string    `gorm:"column:avatar;type:varchar(255)"`
	Gender    int8      `gorm:"column:gender;default:0;comment:0.未知 1.男 2.女"`
	Motto     string    `gorm:"column:motto;type:varchar(255)"`
	Status    int8      `gorm:"column:status;default:0;comment:0.正常 1.禁用"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (UserInfo) TableName() string {
	return "user_info"
}

type UserBrief struct {
	Id       int64  `gorm:"column:id"`
	Nickname string `gorm:"column:nickname"`
	Avatar   string `gorm:"column:avatar"`
	Gender   int8   `gorm:"column:gender"`
	Motto    string `gorm:"column:motto"`
	Status   int8   `gorm:"column:status"`
}
