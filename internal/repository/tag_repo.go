package repository

import (
	"Inkwell/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepo interface {
	GetTagNamesByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64][]string, error)
}

type tagRepoImpl struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepo {
	return &tagRepoImpl{
		db: db,
	}
}

// GetTagNamesByPostIDs 批量获取帖子标签名，按标签 id 升序
func (s *tagRepoImpl) GetTagNamesByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64][]string, error) {
	result := make(map[uint64][]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		PostID uint64
		Name   string
	}
	err := s.db.WithContext(ctx).
		Table("post_tags").
		Select("post_tags.post_id, tags.name").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("post_tags.post_id IN ?", postIDs).
		Order("post_tags.post_id, tags.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], row.Name)
	}
	return result, nil
}

// getOrCreateTags 创建缺失的标签（冲突忽略）并返回全部请求的标签，可在事务内调用
func getOrCreateTags(db *gorm.DB, tagNames []string) ([]*model.Tag, error) {
	if len(tagNames) == 0 {
		return []*model.Tag{}, nil
	}

	now := time.Now()
	newTags := make([]*model.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		newTags = append(newTags, &model.Tag{Name: name, CreatedAt: now})
	}
	// 已存在的标签由唯一索引拦下，忽略冲突
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&newTags).Error; err != nil {
		return nil, err
	}

	var tags []*model.Tag
	if err := db.Where("name IN ?", tagNames).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
