package util

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultSlug 标题中没有任何可用字符时的兜底
const DefaultSlug = "post"

// 预留 "-NN" 后缀空间
const maxSlugBaseLength = 240

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9а-яё\s-]+`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slugify 由标题生成 URL 片段：小写、仅保留拉丁/西里尔字母与数字、空白转连字符
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxSlugBaseLength {
		s = strings.TrimRight(string([]rune(s)[:maxSlugBaseLength]), "-")
	}
	if s == "" {
		return DefaultSlug
	}
	return s
}

// SlugCandidate 第 n 次尝试使用的 slug，n 为 0 时即原始 slug
func SlugCandidate(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
