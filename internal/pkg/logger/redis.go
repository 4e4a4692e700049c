package logger

import (
	"Inkwell/internal/pkg/consts"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisSlowThreshold = 100 * time.Millisecond

// RedisLoggerHook 记录 Redis 错误与慢命令，缓存未命中不算错误
type RedisLoggerHook struct {
	slow time.Duration
}

func NewRedisLogger(slow time.Duration) *RedisLoggerHook {
	if slow <= 0 {
		slow = defaultRedisSlowThreshold
	}
	return &RedisLoggerHook{slow: slow}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis dial failed",
				"addr", addr,
				"latency", time.Since(start),
				"err", err,
			)
		}
		return conn, err
	}
}

func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		if isExpected(cmd, err) {
			return err
		}

		fields := []any{
			"command", cmd.Name(),
			"args", describeArgs(cmd),
			"latency", elapsed,
		}
		switch {
		case err != nil:
			log.ErrorContext(ctx, "Redis command failed", append(fields, "err", err)...)
		case elapsed > s.slow:
			log.WarnContext(ctx, "Redis slow command", fields...)
		}
		return err
	}
}

// ProcessPipelineHook 管道只记录命令名列表
func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		elapsed := time.Since(start)

		if err == nil && elapsed <= s.slow {
			return nil
		}

		names := make([]string, 0, len(cmds))
		for _, cmd := range cmds {
			names = append(names, cmd.Name())
		}
		fields := []any{
			"commands", strings.Join(names, ","),
			"latency", elapsed,
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			log.ErrorContext(ctx, "Redis pipeline failed", append(fields, "err", err)...)
		} else if elapsed > s.slow {
			log.WarnContext(ctx, "Redis slow pipeline", fields...)
		}
		return err
	}
}

// isExpected 键不存在与旧版本服务端不支持 CLIENT SETINFO 都不记录
func isExpected(cmd redis.Cmder, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, redis.Nil) {
		return true
	}
	return cmd.Name() == "client" && strings.Contains(strings.ToLower(err.Error()), "setinfo")
}

// describeArgs 认证命令与会话吊销键只输出命令名
func describeArgs(cmd redis.Cmder) string {
	switch cmd.Name() {
	case "auth", "hello":
		return "[PROTECTED]"
	}
	for _, arg := range cmd.Args() {
		if key, ok := arg.(string); ok && strings.HasPrefix(key, consts.TokenRevokedKey) {
			return "[PROTECTED]"
		}
	}
	return fmt.Sprint(cmd.Args()...)
}
