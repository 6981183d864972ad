package jwt

import (
	"strings"

	"GroupLink/internal/config"
	"GroupLink/pkg/back"
	"GroupLink/pkg/util/myjwt"
	"GroupLink/pkg/xerr"

	"github.com/gin-gonic/gin"
)

// ContextUserID gin.Context 中保存当前用户 ID 的键
const ContextUserID = "user_id"

func Auth(conf config.JwtConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			back.Error(c, xerr.Unauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := myjwt.ParseToken(conf, tokenString)
		if err != nil {
			back.Error(c, xerr.Unauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserId)
		c.Set("nickname", claims.Nickname)
		c.Next()
	}
}

// UserID 读取鉴权中间件写入的用户 ID
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}
