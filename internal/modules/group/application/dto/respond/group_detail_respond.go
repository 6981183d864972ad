package respond

type NoticeBrief struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type GroupDetailRespond struct {
	GroupId         int64        `json:"group_id"`
	GroupName       string       `json:"group_name"`
	GroupProfile    string       `json:"group_profile"`
	Avatar          string       `json:"avatar"`
	CreatedAt       string       `json:"created_at"`
	IsManager       bool         `json:"is_manager"`
	ManagerNickname string       `json:"manager_nickname"`
	VisitCard       string       `json:"visit_card"`
	NotDisturb      int8         `json:"not_disturb"`
	MemberCount     int64        `json:"member_count"`
	Notice          *NoticeBrief `json:"notice"`
}
