package request

type CreateGroupRequest struct {
	UserId  int64  `json:"-" validate:"gt=0"`
	Name    string `json:"group_name" validate:"required,max=64"`
	Profile string `json:"group_profile" validate:"required,max=255"`
	Avatar  string `json:"avatar" validate:"omitempty,max=255"`
	// Uids 逗号分隔的好友 ID，由 handler 解析到 MemberIds
	Uids      string  `json:"uids"`
	MemberIds []int64 `json:"-" validate:"required,min=1,dive,gt=0"`
}
