package request

// GroupIdRequest 只携带群 ID 的请求：解散、退群、详情、成员列表、公告列表
type GroupIdRequest struct {
	UserId  int64 `json:"-" form:"-" validate:"gt=0"`
	GroupId int64 `json:"group_id" form:"group_id" validate:"required,gt=0"`
}
