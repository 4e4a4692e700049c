package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostActionRepo interface {
	CreateLike(ctx context.Context, like *model.PostLike) error
	DeleteLike(ctx context.Context, userID, postID uint64) (bool, error)
	CheckLikeExists(ctx context.Context, userID, postID uint64) (bool, error)
	GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error)
	GetLikeCountsByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)

	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID uint64) ([]*model.Comment, error)
	GetCommentCountByPostID(ctx context.Context, postID uint64) (int64, error)
	GetCommentCountsByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
}

type PostActionRepoImpl struct {
	db *gorm.DB
}

func NewPostActionRepo(db *gorm.DB) PostActionRepo {
	return &PostActionRepoImpl{db}
}

func (s *PostActionRepoImpl) CreateLike(ctx context.Context, like *model.PostLike) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(like).Error
}

// DeleteLike 返回是否确实删除了一条记录
func (s *PostActionRepoImpl) DeleteLike(ctx context.Context, userID, postID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.PostLike{})
	return result.RowsAffected > 0, result.Error
}

func (s *PostActionRepoImpl) CheckLikeExists(ctx context.Context, userID, postID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (s *PostActionRepoImpl) GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (s *PostActionRepoImpl) GetLikeCountsByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	return s.countByPostIDs(ctx, &model.PostLike{}, postIDs)
}

func (s *PostActionRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (s *PostActionRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.Comment, error) {
	var comment model.Comment
	err := s.db.WithContext(ctx).Preload("Author").First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID 帖子全部评论，按创建时间正序
func (s *PostActionRepoImpl) GetCommentsByPostID(ctx context.Context, postID uint64) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (s *PostActionRepoImpl) GetCommentCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (s *PostActionRepoImpl) GetCommentCountsByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	return s.countByPostIDs(ctx, &model.Comment{}, postIDs)
}

// countByPostIDs 单次 GROUP BY 统计，缺失的帖子计为 0
func (s *PostActionRepoImpl) countByPostIDs(ctx context.Context, table any, postIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID uint64
		Total  int64
	}
	err := s.db.WithContext(ctx).Model(table).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, id := range postIDs {
		counts[id] = 0
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}
