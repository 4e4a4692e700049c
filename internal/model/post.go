package model

import (
	"time"
)

const (
	PostStatusDraft     = "DRAFT"
	PostStatusPublished = "PUBLISHED"
)

type Post struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	AuthorID      uint64    `gorm:"not null;index:idx_author_id" json:"authorId"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Slug          string    `gorm:"size:300;not null;uniqueIndex:idx_post_slug" json:"slug"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Status        string    `gorm:"size:16;not null;default:'PUBLISHED';index:idx_status" json:"status"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int64     `gorm:"not null;default:0" json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// 关联关系
	Author User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// IsValidPostStatus 状态只允许草稿与已发布
func IsValidPostStatus(status string) bool {
	return status == PostStatusDraft || status == PostStatusPublished
}
