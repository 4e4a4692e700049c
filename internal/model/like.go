package model

import (
	"time"
)

// PostLike 同一用户对同一帖子至多一条
type PostLike struct {
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	PostID    uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_like_post_id" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Post Post `gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (PostLike) TableName() string {
	return "post_likes"
}
