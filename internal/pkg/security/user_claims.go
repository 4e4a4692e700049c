package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenIssuer           = "inkwell"
	DefaultExpirationTime = time.Hour * 24 * 7
	SessionCookieName     = "token"
)

// UserClaims Token 中携带的会话身份
type UserClaims struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
