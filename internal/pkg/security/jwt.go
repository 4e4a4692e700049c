package security

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrSecretNotConfigured = errors.New("jwt secret not configured")
	ErrTokenInvalid        = errors.New("token 无效或已过期")
	ErrTokenClaimsMissing  = errors.New("token 缺少身份信息")
)

var (
	mu                sync.RWMutex
	jwtSecret         []byte
	jwtExpirationTime = DefaultExpirationTime
)

// Init 设置签名密钥与有效期，必须在签发或校验之前调用
func Init(secret string, ttl time.Duration) error {
	if secret == "" {
		return ErrSecretNotConfigured
	}
	if ttl <= 0 {
		ttl = DefaultExpirationTime
	}
	mu.Lock()
	defer mu.Unlock()
	jwtSecret = []byte(secret)
	jwtExpirationTime = ttl
	return nil
}

// ExpirationTime 当前会话有效期
func ExpirationTime() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return jwtExpirationTime
}

func secret() ([]byte, error) {
	mu.RLock()
	defer mu.RUnlock()
	if len(jwtSecret) == 0 {
		return nil, ErrSecretNotConfigured
	}
	return jwtSecret, nil
}

// GenerateToken 生成一个新的 JWT Token
func GenerateToken(userID uint64, username string) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &UserClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ExpirationTime())),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("签名 Token 失败: %w", err)
	}

	return tokenString, nil
}

// ValidateToken 验证签名、过期时间与身份字段，并解析出 Claims
func ValidateToken(tokenString string) (*UserClaims, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}

	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名方法: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, fmt.Errorf("token 解析失败: %w", err)
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.UserID == 0 || claims.Username == "" {
		return nil, ErrTokenClaimsMissing
	}

	return claims, nil
}

// ExtractSignature 从 Token 字符串中提取签名
func ExtractSignature(tokenString string) (string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 || parts[2] == "" {
		return "", errors.New("token 格式不正确")
	}
	return parts[2], nil
}
