package handler

import (
	"net/http"

	"GroupLink/internal/config"
	userRepository "GroupLink/internal/modules/user/domain/repository"
	"GroupLink/pkg/util/myjwt"
	"GroupLink/pkg/ws"
	"GroupLink/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WsHandler 群事件的在线推送通道，客户端只接收不发送
type WsHandler struct {
	hub      *ws.Hub
	jwtConf  config.JwtConfig
	userRepo userRepository.UserInfoRepository
}

func NewWsHandler(hub *ws.Hub, jwtConf config.JwtConfig, userRepo userRepository.UserInfoRepository) *WsHandler {
	return &WsHandler{
		hub:      hub,
		jwtConf:  jwtConf,
		userRepo: userRepo,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connect 浏览器原生 WebSocket 无法带 Authorization 头，token 走 query 参数，在这里手动校验
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims, err := myjwt.ParseToken(h.jwtConf, token)
	if err != nil || claims == nil || claims.UserId <= 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	briefs, err := h.userRepo.GetUserBriefByIDs(c.Request.Context(), []int64{claims.UserId})
	if err != nil || len(briefs) == 0 || briefs[0].Status != 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Warn("ws upgrade failed", zap.Int64("user_id", claims.UserId), zap.Error(err))
		return
	}

	client := ws.NewClient(claims.UserId, conn)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	go client.WritePump()
	client.ReadPump()
}
