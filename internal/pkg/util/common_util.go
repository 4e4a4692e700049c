package util

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// NormalizeTags 去除首尾空白、丢弃空值并按首次出现顺序去重
func NormalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// Excerpt 截取前 n 个字符作为摘要
func Excerpt(content string, n int) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= n {
		return content
	}
	return strings.TrimSpace(string([]rune(content)[:n])) + "…"
}

// StrSliceToUInt64Slice 字符串切片转 uint64 切片
func StrSliceToUInt64Slice(values []string) ([]uint64, error) {
	result := make([]uint64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, nil
}
