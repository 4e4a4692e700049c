package consts

// 分页
const (
	DefaultPageSize = 20
	MaxPageSize     = 50
	LegacyListSize  = 20
)

// 内容限制
const (
	MaxTagLength     = 50
	MaxCommentLength = 5000
	ExcerptLength    = 200
)

// Context Key
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
)
