package respond

type GroupNoticeRespond struct {
	Id        int64  `json:"id"`
	UserId    int64  `json:"user_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Avatar    string `json:"avatar"`
	Nickname  string `json:"nickname"`
}

type EditNoticeRespond struct {
	NoticeId int64 `json:"notice_id"`
}
