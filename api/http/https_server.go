package http

import (
	"net/http"

	"GroupLink/internal/config"
	jwtMiddleware "GroupLink/internal/middleware/jwt"
	chatPersistence "GroupLink/internal/modules/chat/infrastructure/persistence"
	chatHandler "GroupLink/internal/modules/chat/interface/http"
	groupService "GroupLink/internal/modules/group/application/service"
	"GroupLink/internal/modules/group/domain/event"
	groupPersistence "GroupLink/internal/modules/group/infrastructure/persistence"
	groupHandler "GroupLink/internal/modules/group/interface/http"
	userPersistence "GroupLink/internal/modules/user/infrastructure/persistence"
	"GroupLink/pkg/ssl"
	"GroupLink/pkg/ws"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewEngine 组装仓储、服务与路由
func NewEngine(conf *config.Config, db *gorm.DB, hub *ws.Hub, notifier event.Notifier) *gin.Engine {
	userRepo := userPersistence.NewUserInfoRepository(db)
	friendRepo := userPersistence.NewUserFriendRepository(db)
	sessionRepo := chatPersistence.NewSessionRepository(db)

	groupSvc := groupService.NewGroupService(
		groupPersistence.NewGroupInfoRepository(db),
		groupPersistence.NewGroupMemberRepository(db),
		groupPersistence.NewGroupNoticeRepository(db),
		groupPersistence.NewGroupUnitOfWork(db),
		userRepo,
		friendRepo,
		sessionRepo,
		notifier,
	)

	return NewRouter(conf, groupHandler.NewGroupHandler(groupSvc), chatHandler.NewWsHandler(hub, conf.JwtConfig, userRepo))
}

func NewRouter(conf *config.Config, groupH *groupHandler.GroupHandler, wsH *chatHandler.WsHandler) *gin.Engine {
	GE := gin.New()
	GE.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	GE.Use(cors.New(corsConfig))
	if conf.MainConfig.TLS {
		GE.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))
	}

	GE.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if wsH != nil {
		GE.GET("/wss", wsH.Connect)
	}

	v1 := GE.Group("/api/v1")
	v1.Use(jwtMiddleware.Auth(conf.JwtConfig))
	v1.GET("/auth/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  jwtMiddleware.UserID(c),
			"nickname": c.GetString("nickname"),
		})
	})
	groupH.Register(v1.Group("/group"))

	return GE
}
