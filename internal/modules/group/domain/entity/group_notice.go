package entity

import (
	"database/sql"
	"time"
)

type GroupNotice struct {
	Id        int64        `gorm:"column:id;primaryKey;autoIncrement:false"`
	GroupId   int64        `gorm:"column:group_id;index;not null"`
	AuthorId  int64        `gorm:"column:author_id;not null;comment:发布人"`
	Title     string       `gorm:"column:title;type:varchar(128);not null"`
	Content   string       `gorm:"column:content;type:text"`
	IsDeleted bool         `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt time.Time    `gorm:"column:created_at"`
	UpdatedAt time.Time    `gorm:"column:updated_at"`
	RemovedAt sql.NullTime `gorm:"column:removed_at"`
}

func (GroupNotice) TableName() string {
	return "group_notice"
}

type GroupNoticeWithAuthor struct {
	GroupNotice
	Nickname string `gorm:"column:nickname"`
	Avatar   string `gorm:"column:avatar"`
}
