package model

type PostTag struct {
	PostID uint64 `gorm:"primaryKey;autoIncrement:false" json:"postId"`
	TagID  uint64 `gorm:"primaryKey;autoIncrement:false;index:idx_tag_id" json:"tagId"`

	Post Post `gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Tag  Tag  `gorm:"foreignKey:TagID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (PostTag) TableName() string {
	return "post_tags"
}
