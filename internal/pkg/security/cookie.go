package security

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var cookieSecure bool
var cookieName = SessionCookieName

// ConfigureCookie 设置会话 Cookie 名称与 Secure 标记（生产环境开启）
func ConfigureCookie(name string, secure bool) {
	if name != "" {
		cookieName = name
	}
	cookieSecure = secure
}

// CookieName 会话 Cookie 名称
func CookieName() string {
	return cookieName
}

// SetSessionCookie 登录成功后写入会话 Cookie
func SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, token, int(ExpirationTime().Seconds()), "/", "", cookieSecure, true)
}

// ClearSessionCookie 以立即过期的空值覆盖会话 Cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, "", -1, "/", "", cookieSecure, true)
}

// SessionToken 读取请求中的会话 Token，不存在时返回空串
func SessionToken(c *gin.Context) string {
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}
