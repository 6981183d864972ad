package respond

type GroupMemberRespond struct {
	Id        int64  `json:"id"`
	UserId    int64  `json:"user_id"`
	IsManager bool   `json:"is_manager"`
	VisitCard string `json:"visit_card"`
	Nickname  string `json:"nickname"`
	Avatar    string `json:"avatar"`
	Gender    int8   `json:"gender"`
	Motto     string `json:"motto"`
}

type FriendRespond struct {
	Id           int64  `json:"id"`
	Nickname     string `json:"nickname"`
	Avatar       string `json:"avatar"`
	Gender       int8   `json:"gender"`
	Motto        string `json:"motto"`
	FriendRemark string `json:"friend_remark"`
}
