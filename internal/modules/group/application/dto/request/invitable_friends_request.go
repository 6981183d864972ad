package request

type InvitableFriendsRequest struct {
	UserId int64 `form:"-" validate:"gt=0"`
	// GroupId 为 0 时返回全部好友
	GroupId int64 `form:"group_id" validate:"gte=0"`
}
