package middleware

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/security"
	"Inkwell/internal/service"
	"context"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 负责校验会话 Cookie 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := service.Authenticate(c.Request.Context(), security.SessionToken(c))
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				response.Fail(c, http.StatusUnauthorized, "authentication required")
				return
			}
			// 无法确认是否已吊销时拒绝请求
			log.ErrorContext(c.Request.Context(), "session check failed", "err", err)
			response.Fail(c, http.StatusInternalServerError, service.UnExpectedError.Error())
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *security.UserClaims) {
	c.Set(consts.UserIDKey, claims.UserID)
	c.Set(consts.UsernameKey, claims.Username)

	newCtx := context.WithValue(c.Request.Context(), consts.UserIDKey, claims.UserID)
	c.Request = c.Request.WithContext(newCtx)
}
