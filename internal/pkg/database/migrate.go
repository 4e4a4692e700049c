package database

import (
	"Inkwell/internal/model"
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate 按模型同步表结构与索引
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
