package request

type InviteGroupMembersRequest struct {
	UserId    int64   `json:"-" validate:"gt=0"`
	GroupId   int64   `json:"group_id" validate:"required,gt=0"`
	Uids      string  `json:"uids"`
	MemberIds []int64 `json:"-" validate:"required,min=1,dive,gt=0"`
}
