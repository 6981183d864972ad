package request

type EditGroupRequest struct {
	UserId  int64  `json:"-" validate:"gt=0"`
	GroupId int64  `json:"group_id" validate:"required,gt=0"`
	Name    string `json:"group_name" validate:"required,max=64"`
	Profile string `json:"group_profile" validate:"required,max=255"`
	Avatar  string `json:"avatar" validate:"required,max=255"`
}
