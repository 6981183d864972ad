package handler

import (
	groupRequest "GroupLink/internal/modules/group/application/dto/request"
	"GroupLink/internal/modules/group/application/service"
	jwtMiddleware "GroupLink/internal/middleware/jwt"
	"GroupLink/pkg/back"
	"GroupLink/pkg/util"
	"GroupLink/pkg/xerr"
	"GroupLink/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GroupHandler struct {
	svc service.GroupService
}

func NewGroupHandler(svc service.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

// Register 挂载到 /api/v1/group，调用方负责加鉴权中间件
func (h *GroupHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/create", h.CreateGroup)
	rg.POST("/dismiss", h.DismissGroup)
	rg.POST("/invite", h.InviteMembers)
	rg.POST("/secede", h.QuitGroup)
	rg.POST("/edit", h.EditGroupDetail)
	rg.POST("/remove-members", h.RemoveMembers)
	rg.POST("/set-group-card", h.SetVisitCard)
	rg.POST("/edit-notice", h.EditNotice)
	rg.POST("/delete-notice", h.DeleteNotice)

	rg.GET("/detail", h.GetGroupDetail)
	rg.GET("/invite-friends", h.ListInvitableFriends)
	rg.GET("/members", h.ListMembers)
	rg.GET("/notices", h.ListNotices)
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		zlog.Warn("bind json failed", zap.String("path", c.FullPath()), zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		zlog.Warn("bind query failed", zap.String("path", c.FullPath()), zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return false
	}
	return true
}

func parseUids(c *gin.Context, raw string) ([]int64, bool) {
	ids, err := util.ParseIDList(raw)
	if err != nil {
		back.Error(c, xerr.BadRequest, "uids 格式错误")
		return nil, false
	}
	return ids, true
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req groupRequest.CreateGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	ids, ok := parseUids(c, req.Uids)
	if !ok {
		return
	}
	req.MemberIds = ids
	req.UserId = jwtMiddleware.UserID(c)

	data, err := h.svc.CreateGroup(c.Request.Context(), req)
	back.ResultMsg(c, "创建群聊成功", data, err)
}

func (h *GroupHandler) DismissGroup(c *gin.Context) {
	var req groupRequest.GroupIdRequest
	if !bindJSON(c, &req) {
		return
	}
	req.UserId = jwtMiddleware.UserID(c)

	err := h.svc.DismissGroup(c.Request.Context(), req)
	back.ResultMsg(c, "群组解散成功", nil, err)
}

func (h *GroupHandler) InviteMembers(c *gin.Context) {
	var req groupRequest.InviteGroupMembersRequest
	if !bindJSON(c, &req) {
		return
	}
	ids, ok := parseUids(c, req.Uids)
	if !ok {
		return
	}
	req.MemberIds = ids
	req.UserId = jwtMiddleware.UserID(c)

	data, err := h.svc.InviteMembers(c.Request.Context(), req)
	back.ResultMsg(c, "好友已成功加入群聊", data, err)
}

func (h *GroupHandler) QuitGroup(c *gin.Context) {
	var req groupRequest.GroupIdRequest
	if !bindJSON(c, &req) {
		return
	}
	req.UserId = jwtMiddleware.UserID(c)

	data, err := h.svc.QuitGroup(c.Request.Context(), req)
	back.ResultMsg(c, "已成功退出群组", data, err)
}

func (h *GroupHandler) EditGroupDetail(c *gin.Context) {
	var req groupRequest.EditGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	req.UserId = jwtMiddleware.UserID(c)

	err := h.svc.EditGroupDetail(c.Request.Context(), req)
	back.ResultMsg(c, "群组信息修改成功", nil, err)
}

func (h *GroupHandler) RemoveMembers(c *gin.Context) {
	var req groupRequest.RemoveGroupMembersRequest
	if !bindJSON(c, &req) {
		return
	}
	req.UserId = jwtMiddleware.UserID(c)

	data, err := h.svc.RemoveMembers(c.Request.Context(), req)
	back.ResultMsg(c, "已成功移除群成员", data, err)
}

func (h *GroupHandler) SetVisitCard(c *gin.Context) {
	var req groupRequest.SetVisitCardRequest
	if !bindJSON(c, &req) {
		return
	}
	req.UserId = jwtMiddleware.UserID(c)

	err := h.svc.SetVisitCard(c.Request.Context(), req)
	back.ResultMsg(c, "群名片修改成功", nil, err)
}

func (h *GroupHandler) EditNotice(c *gin.Context) {
	var req groupRequest.EditNoticeRequest
	if !bindJSON(c, &req) {
		return
	}
	req.UserId = jwtMiddleware.UserID(c)

	msg := "修改群公告信息成功"
	if req.NoticeId == 0 {
		msg = "添加群公告信息成功"
	}
	data, err := h.svc.CreateOrUpdateNotice(c.Request.Context(), req)
	back.ResultMsg(c, msg, data, err)
}

func (h *GroupHandler) DeleteNotice(c *gin.Context) {
	var req groupRequest.DeleteNoticeRequest
	if !bindJSON(c, &req) {
		return
	}
	req.UserId = jwtMiddleware.UserID(c)

	err := h.svc.DeleteNotice(c.Request.Context(), req)
	back.ResultMsg(c, "公告删除成功", nil, err)
}

// GetGroupDetail 群不存在时返回空对象而不是错误
func (h *GroupHandler) GetGroupDetail(c *gin.Context) {
	var req groupRequest.GroupIdRequest
	if !bindQuery(c, &req) {
		return
	}
	req.UserId = jwtMiddleware.UserID(c)

	data, err := h.svc.GetGroupDetail(c.Request.Context(), req)
	if err == nil && data == nil {
		back.Success(c, gin.H{})
		return
	}
	back.Result(c, data, err)
}

func (h *GroupHandler) ListInvitableFriends(c *gin.Context) {
	var req groupRequest.InvitableFriendsRequest
	if !bindQuery(c, &req) {
		return
	}
	req.UserId = jwtMiddleware.UserID(c)

	data, err := h.svc.ListInvitableFriends(c.Request.Context(), req)
	back.Result(c, data, err)
}

func (h *GroupHandler) ListMembers(c *gin.Context) {
	var req groupRequest.GroupIdRequest
	if !bindQuery(c, &req) {
		return
	}
	req.UserId = jwtMiddleware.UserID(c)

	data, err := h.svc.ListMembers(c.Request.Context(), req)
	back.Result(c, data, err)
}

func (h *GroupHandler) ListNotices(c *gin.Context) {
	var req groupRequest.GroupIdRequest
	if !bindQuery(c, &req) {
		return
	}
	req.UserId = jwtMiddleware.UserID(c)

	data, err := h.svc.ListNotices(c.Request.Context(), req)
	back.Result(c, data, err)
}
