package dto

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// TagList 标签列表，兼容 JSON 数组与逗号分隔字符串两种写法
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*t = strings.Split(joined, ",")
	return nil
}

// CreatePostDTO 创建帖子请求
type CreatePostDTO struct {
	Title   string  `json:"title" validate:"required,max=255"`
	Content string  `json:"content" validate:"required"`
	Tags    TagList `json:"tags"`
	Status  string  `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
}

// UpdatePostDTO 更新帖子请求，Tags 缺省表示保留原标签，Status 缺省表示保持不变
type UpdatePostDTO struct {
	Title   string   `json:"title" validate:"required,max=255"`
	Content string   `json:"content" validate:"required"`
	Tags    *TagList `json:"tags"`
	Status  *string  `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED"`
}

// PostListQuery 列表查询参数
type PostListQuery struct {
	Keyword string
	Tag     string
	Status  string
	Cursor  uint64
	Limit   int
}

// PostSummaryDTO 列表项
type PostSummaryDTO struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Excerpt      string    `json:"excerpt"`
	Status       string    `json:"status"`
	Author       AuthorDTO `json:"author"`
	Tags         []string  `json:"tags"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PostDetailDTO 帖子详情
type PostDetailDTO struct {
	ID           uint64        `json:"id"`
	Title        string        `json:"title"`
	Slug         string        `json:"slug"`
	Content      string        `json:"content"`
	Status       string        `json:"status"`
	Author       AuthorDTO     `json:"author"`
	Tags         []string      `json:"tags"`
	Comments     []*CommentDTO `json:"comments"`
	CommentCount int64         `json:"commentCount"`
	LikeCount    int64         `json:"likeCount"`
	LikedByMe    bool          `json:"likedByMe"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// PostPageDTO 游标分页结果，NextCursor 仅在满页时返回
type PostPageDTO struct {
	Items      []*PostSummaryDTO `json:"items"`
	NextCursor *uint64           `json:"nextCursor"`
}
