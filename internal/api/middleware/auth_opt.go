package middleware

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/security"
	"Inkwell/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：校验成功注入 UID，失败或缺失则 UID 为 0
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := security.SessionToken(c)
		if token == "" {
			c.Set(consts.UserIDKey, uint64(0))
			c.Next()
			return
		}

		claims, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Set(consts.UserIDKey, uint64(0))
		} else {
			setIdentity(c, claims)
		}

		c.Next()
	}
}
