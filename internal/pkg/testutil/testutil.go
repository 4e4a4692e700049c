// Package testutil 为各包测试提供内存 SQLite 与 miniredis 环境。
package testutil

import (
	"Inkwell/internal/pkg/database"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/security"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "inkwell-test-secret-0123456789abcdef"

var dbSeq atomic.Int64

// NewTestDB 每次调用返回独立的内存库，已完成迁移并开启外键约束
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err = database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewTestRedis 启动 miniredis 并替换全局 redis 客户端
func NewTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{
		Addr: mr.Addr(),

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	prev := redis.Rdb
	redis.SetClient(client)
	t.Cleanup(func() {
		_ = client.Close()
		redis.SetClient(prev)
	})
	return mr
}

// InitSecurity 使用固定测试密钥初始化令牌签发
func InitSecurity(t *testing.T) {
	t.Helper()
	if err := security.Init(JWTSecret, 7*24*time.Hour); err != nil {
		t.Fatalf("init security: %v", err)
	}
	security.ConfigureCookie(security.SessionCookieName, false)
}
