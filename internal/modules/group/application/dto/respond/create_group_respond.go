package respond

type CreateGroupRespond struct {
	GroupId int64 `json:"group_id"`
}

// RecordRespond 邀请、退群、移除成员返回的变动记录 ID
type RecordRespond struct {
	RecordId int64 `json:"record_id"`
}
