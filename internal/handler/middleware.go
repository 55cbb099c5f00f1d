package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bonicascribe/backend/internal/pkg/authtoken"
)

// 认证通过后用户 ID 存入 gin.Context 的键
const contextUserIDKey = "userID"

// RequireAuth 校验 Authorization: Bearer 令牌的中间件
// 校验通过后把用户 ID 放进上下文，后续 Handler 用 currentUserID 取
func RequireAuth(tokens *authtoken.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// currentUserID 取当前登录用户 ID，只能在 RequireAuth 之后的 Handler 里调用
func currentUserID(c *gin.Context) uint {
	return c.GetUint(contextUserIDKey)
}
