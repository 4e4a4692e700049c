package dto

import "time"

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	Content string `json:"content"`
}

// CommentDTO 评论返回详情
type CommentDTO struct {
	ID        uint64    `json:"id"`
	PostID    uint64    `json:"postId"`
	Content   string    `json:"content"`
	Author    AuthorDTO `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeStateDTO 点赞状态
type LikeStateDTO struct {
	Count     int64 `json:"count"`
	LikedByMe bool  `json:"likedByMe"`
}

// LikeToggleDTO 切换点赞后的状态
type LikeToggleDTO struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}
