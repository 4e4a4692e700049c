package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostQuery 帖子列表查询条件，Cursor 为上一页最后一条的 id（不含）
type PostQuery struct {
	Keyword  string
	Tag      string
	Status   string
	AuthorID uint64
	Cursor   uint64
	Limit    int
}

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post, tagNames []string) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	ExistsPost(ctx context.Context, id uint64) (bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListPosts(ctx context.Context, query *PostQuery) ([]*model.Post, error)
	ListLatestPosts(ctx context.Context, status string, limit int) ([]*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post, tagNames []string, replaceTags bool) error
	UpdatePostCounts(ctx context.Context, id uint64, likes, comments int64) error
	DeletePost(ctx context.Context, id uint64) (bool, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

// CreatePost 在同一事务中写入帖子、补齐标签并建立关联
func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post, tagNames []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		return linkTags(tx, post.ID, tagNames)
	})
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).Preload("Author").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostRepoImpl) ExistsPost(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (s *PostRepoImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Post{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// ListPosts 按 id 倒序的游标分页
func (s *PostRepoImpl) ListPosts(ctx context.Context, query *PostQuery) ([]*model.Post, error) {
	db := s.db.WithContext(ctx).Model(&model.Post{}).Preload("Author")

	if query.Status != "" {
		db = db.Where("posts.status = ?", query.Status)
	}
	if query.AuthorID > 0 {
		db = db.Where("posts.author_id = ?", query.AuthorID)
	}
	if query.Keyword != "" {
		pattern := "%" + escapeLike(strings.ToLower(query.Keyword)) + "%"
		db = db.Where("(LOWER(posts.title) LIKE ? ESCAPE '!' OR LOWER(posts.content) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if query.Tag != "" {
		tagged := s.db.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name = ?", query.Tag)
		db = db.Where("posts.id IN (?)", tagged)
	}
	if query.Cursor > 0 {
		db = db.Where("posts.id < ?", query.Cursor)
	}

	var posts []*model.Post
	err := db.Order("posts.id DESC").Limit(query.Limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListLatestPosts 按创建时间倒序的简单列表
func (s *PostRepoImpl) ListLatestPosts(ctx context.Context, status string, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost 更新标题、正文与状态；replaceTags 为 true 时整体替换标签关联
func (s *PostRepoImpl) UpdatePost(ctx context.Context, post *model.Post, tagNames []string, replaceTags bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]any{
				"title":      post.Title,
				"content":    post.Content,
				"status":     post.Status,
				"updated_at": post.UpdatedAt,
			}).Error
		if err != nil {
			return err
		}
		if !replaceTags {
			return nil
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&model.PostTag{}).Error; err != nil {
			return err
		}
		return linkTags(tx, post.ID, tagNames)
	})
}

func (s *PostRepoImpl) UpdatePostCounts(ctx context.Context, id uint64, likes, comments int64) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"likes_count":    likes,
			"comments_count": comments,
		}).Error
}

// DeletePost 依次删除标签关联、评论、点赞与帖子本身，全部在一个事务内；帖子已不存在时返回 false
func (s *PostRepoImpl) DeletePost(ctx context.Context, id uint64) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.PostTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func linkTags(tx *gorm.DB, postID uint64, tagNames []string) error {
	if len(tagNames) == 0 {
		return nil
	}
	tags, err := getOrCreateTags(tx, tagNames)
	if err != nil {
		return err
	}
	links := make([]*model.PostTag, 0, len(tags))
	seen := make(map[uint64]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag.ID]; ok {
			continue
		}
		seen[tag.ID] = struct{}{}
		links = append(links, &model.PostTag{PostID: postID, TagID: tag.ID})
	}
	if len(links) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}
