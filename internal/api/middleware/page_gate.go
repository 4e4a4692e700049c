package middleware

import (
	"Inkwell/internal/pkg/security"
	"Inkwell/internal/service"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// LoginPath 未登录访问页面时的跳转地址
const LoginPath = "/auth"

var publicPrefixes = []string{"/auth/", "/_next/", "/static/"}

// PageGateMiddleware 页面访问控制：除登录页与静态资源外，会话校验失败一律跳转登录页
func PageGateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicPage(c.Request.URL.Path) {
			c.Next()
			return
		}

		claims, err := service.Authenticate(c.Request.Context(), security.SessionToken(c))
		if err != nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

func isPublicPage(p string) bool {
	if p == LoginPath || p == "/favicon.ico" {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	// 带扩展名的路径视为静态文件
	return path.Ext(path.Base(p)) != ""
}
