package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jwtMiddleware "GroupLink/internal/middleware/jwt"
	groupRequest "GroupLink/internal/modules/group/application/dto/request"
	groupRespond "GroupLink/internal/modules/group/application/dto/respond"
	"GroupLink/internal/modules/group/application/service"
	"GroupLink/pkg/xerr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService 只实现用到的方法，其余调用会 panic
type stubService struct {
	service.GroupService

	createReq groupRequest.CreateGroupRequest
	inviteReq groupRequest.InviteGroupMembersRequest
	removeReq groupRequest.RemoveGroupMembersRequest
	detailReq groupRequest.GroupIdRequest

	detail *groupRespond.GroupDetailRespond
	err    error
}

func (s *stubService) CreateGroup(_ context.Context, req groupRequest.CreateGroupRequest) (*groupRespond.CreateGroupRespond, error) {
	s.createReq = req
	return &groupRespond.CreateGroupRespond{GroupId: 100}, s.err
}

func (s *stubService) InviteMembers(_ context.Context, req groupRequest.InviteGroupMembersRequest) (*groupRespond.RecordRespond, error) {
	s.inviteReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &groupRespond.RecordRespond{RecordId: 7}, nil
}

func (s *stubService) RemoveMembers(_ context.Context, req groupRequest.RemoveGroupMembersRequest) (*groupRespond.RecordRespond, error) {
	s.removeReq = req
	return &groupRespond.RecordRespond{RecordId: 8}, s.err
}

func (s *stubService) QuitGroup(context.Context, groupRequest.GroupIdRequest) (*groupRespond.RecordRespond, error) {
	return nil, s.err
}

func (s *stubService) GetGroupDetail(_ context.Context, req groupRequest.GroupIdRequest) (*groupRespond.GroupDetailRespond, error) {
	s.detailReq = req
	return s.detail, s.err
}

func (s *stubService) ListMembers(context.Context, groupRequest.GroupIdRequest) ([]groupRespond.GroupMemberRespond, error) {
	return nil, s.err
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(svc service.GroupService, uid int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rg := r.Group("/api/v1/group", func(c *gin.Context) {
		c.Set(jwtMiddleware.ContextUserID, uid)
		c.Next()
	})
	NewGroupHandler(svc).Register(rg)
	return r
}

func do(t *testing.T, r *gin.Engine, method, target, body string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCreateGroupParsesUids(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc, 1)

	env := do(t, r, http.MethodPost, "/api/v1/group/create", `{"group_name":"go","group_profile":"p","uids":"2, 3,,4"}`)

	assert.Equal(t, xerr.OK, env.Code)
	assert.Equal(t, "创建群聊成功", env.Message)
	assert.JSONEq(t, `{"group_id":100}`, string(env.Data))
	assert.Equal(t, int64(1), svc.createReq.UserId)
	assert.Equal(t, []int64{2, 3, 4}, svc.createReq.MemberIds)
	assert.Equal(t, "go", svc.createReq.Name)
}

func TestCreateGroupRejectsBadUids(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc, 1)

	env := do(t, r, http.MethodPost, "/api/v1/group/create", `{"group_name":"go","group_profile":"p","uids":"2,abc"}`)

	assert.Equal(t, xerr.BadRequest, env.Code)
	assert.Zero(t, svc.createReq.UserId)
}

func TestMalformedJSON(t *testing.T) {
	r := newRouter(&stubService{}, 1)

	env := do(t, r, http.MethodPost, "/api/v1/group/invite", `{"group_id":`)

	assert.Equal(t, xerr.BadRequest, env.Code)
	assert.Equal(t, xerr.ErrParam.Message, env.Message)
}

func TestInviteReturnsRecordID(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc, 1)

	env := do(t, r, http.MethodPost, "/api/v1/group/invite", `{"group_id":5,"uids":"3"}`)

	assert.Equal(t, xerr.OK, env.Code)
	assert.JSONEq(t, `{"record_id":7}`, string(env.Data))
	assert.Equal(t, int64(5), svc.inviteReq.GroupId)
	assert.Equal(t, []int64{3}, svc.inviteReq.MemberIds)
}

func TestRemoveMembersReadsArray(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc, 1)

	env := do(t, r, http.MethodPost, "/api/v1/group/remove-members", `{"group_id":5,"members_ids":[2,3]}`)

	assert.Equal(t, xerr.OK, env.Code)
	assert.Equal(t, []int64{2, 3}, svc.removeReq.MemberIds)
}

func TestBusinessErrorEnvelope(t *testing.T) {
	r := newRouter(&stubService{err: xerr.ErrOwnerCannotQuit}, 1)

	env := do(t, r, http.MethodPost, "/api/v1/group/secede", `{"group_id":5}`)

	assert.Equal(t, xerr.ErrOwnerCannotQuit.Code, env.Code)
	assert.Equal(t, xerr.ErrOwnerCannotQuit.Message, env.Message)
}

func TestInternalErrorIsMasked(t *testing.T) {
	r := newRouter(&stubService{err: assert.AnError}, 1)

	env := do(t, r, http.MethodGet, "/api/v1/group/members?group_id=5", "")

	assert.Equal(t, xerr.ErrServerError.Code, env.Code)
	assert.NotContains(t, env.Message, assert.AnError.Error())
}

func TestGetGroupDetail(t *testing.T) {
	t.Run("missing group is an empty object", func(t *testing.T) {
		svc := &stubService{}
		r := newRouter(svc, 2)

		env := do(t, r, http.MethodGet, "/api/v1/group/detail?group_id=9", "")

		assert.Equal(t, xerr.OK, env.Code)
		assert.JSONEq(t, `{}`, string(env.Data))
		assert.Equal(t, int64(9), svc.detailReq.GroupId)
		assert.Equal(t, int64(2), svc.detailReq.UserId)
	})

	t.Run("detail view", func(t *testing.T) {
		svc := &stubService{detail: &groupRespond.GroupDetailRespond{GroupId: 9, GroupName: "go", MemberCount: 3}}
		r := newRouter(svc, 2)

		env := do(t, r, http.MethodGet, "/api/v1/group/detail?group_id=9", "")

		var got groupRespond.GroupDetailRespond
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "go", got.GroupName)
		assert.Equal(t, int64(3), got.MemberCount)
		assert.Nil(t, got.Notice)
	})
}
