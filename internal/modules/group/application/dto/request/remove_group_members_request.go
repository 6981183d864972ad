package request

type RemoveGroupMembersRequest struct {
	UserId    int64   `json:"-" validate:"gt=0"`
	GroupId   int64   `json:"group_id" validate:"required,gt=0"`
	MemberIds []int64 `json:"members_ids" validate:"required,min=1,dive,gt=0"`
}
