package util

import (
	"Inkwell/internal/pkg/consts"
	"strconv"
)

// ParseLimit 解析分页大小并夹取到 [1, MaxPageSize]，缺省、0 或无法解析时使用默认值
func ParseLimit(raw string) int {
	if raw == "" {
		return consts.DefaultPageSize
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit == 0 {
		return consts.DefaultPageSize
	}
	return ClampLimit(limit)
}

// ClampLimit 将分页大小夹取到 [1, MaxPageSize]
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > consts.MaxPageSize {
		return consts.MaxPageSize
	}
	return limit
}

// ParseCursor 解析游标（上一页最后一条的 id），无效游标视为从头开始
func ParseCursor(raw string) uint64 {
	if raw == "" {
		return 0
	}
	cursor, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return cursor
}

// NextCursor 满页时返回最后一条的 id，否则为 nil
func NextCursor(ids []uint64, limit int) *uint64 {
	if limit <= 0 || len(ids) < limit {
		return nil
	}
	last := ids[len(ids)-1]
	return &last
}
