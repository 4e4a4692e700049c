package model

import "time"

type Tag struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"size:50;not null;uniqueIndex:idx_tag_name"`
	CreatedAt time.Time
}

func (Tag) TableName() string {
	return "tags"
}
