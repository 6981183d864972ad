package request

// EditNoticeRequest NoticeId 为 0 表示新建公告
type EditNoticeRequest struct {
	UserId   int64  `json:"-" validate:"gt=0"`
	GroupId  int64  `json:"group_id" validate:"required,gt=0"`
	NoticeId int64  `json:"notice_id" validate:"gte=0"`
	Title    string `json:"title" validate:"required,max=128"`
	Content  string `json:"content" validate:"required"`
}

type DeleteNoticeRequest struct {
	UserId   int64 `json:"-" validate:"gt=0"`
	GroupId  int64 `json:"group_id" validate:"required,gt=0"`
	NoticeId int64 `json:"notice_id" validate:"required,gt=0"`
}
