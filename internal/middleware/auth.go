package middleware

import (
	"ClipHub/internal/apperr"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDKey 认证通过后用户ID在gin.Context里的key
const UserIDKey = "userID"

// SessionResolver 由认证服务实现：token -> 用户ID
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (string, error)
}

// 流程：1、从请求头取出Authorization 2、校验"Bearer [token]"格式 3、交给SessionResolver校验 4、用户ID放入context
func Auth(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// 立刻Abort，后续的中间件和handler都不会执行
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}

		userID, err := resolver.ResolveSession(c.Request.Context(), parts[1])
		if err != nil {
			status, message := http.StatusUnauthorized, "Token is not valid"
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				message = appErr.Message
				if appErr.Kind == apperr.KindInternal {
					status = http.StatusInternalServerError
				}
			}
			c.AbortWithStatusJSON(status, gin.H{"message": message})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// CurrentUserID 取出Auth中间件放进去的用户ID
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
