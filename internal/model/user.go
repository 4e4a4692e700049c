package model

import (
	"time"
)

type User struct {
	ID        uint64  `gorm:"primaryKey"`
	Username  string  `gorm:"size:50;not null;uniqueIndex:idx_username"`
	Email     string  `gorm:"size:255;not null;uniqueIndex:idx_email"`
	Password  string  `gorm:"size:255;not null" json:"-"`
	Name      *string `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
