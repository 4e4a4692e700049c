package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/kafka"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type PostActionService interface {
	ToggleLike(ctx context.Context, userID, postID uint64) (*dto.LikeToggleDTO, error)
	GetLikeStatus(ctx context.Context, viewerID, postID uint64) (*dto.LikeStateDTO, error)
	GetPostLikeCount(ctx context.Context, postID uint64) (int64, error)

	CreateComment(ctx context.Context, userID, postID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	GetCommentsByPostID(ctx context.Context, viewerID, postID uint64) ([]*dto.CommentDTO, error)

	SyncPostCounters(ctx context.Context, postID uint64) error
}

type postActionServiceImpl struct {
	actionRepo repository.PostActionRepo
	postRepo   repository.PostRepo
	publisher  kafka.Publisher
}

func NewPostActionService(
	actionRepo repository.PostActionRepo,
	postRepo repository.PostRepo,
	publisher kafka.Publisher,
) PostActionService {
	return &postActionServiceImpl{
		actionRepo: actionRepo,
		postRepo:   postRepo,
		publisher:  publisher,
	}
}

// ToggleLike 已点赞则取消，否则点赞；并发下的重复插入视为已点赞
func (s *postActionServiceImpl) ToggleLike(ctx context.Context, userID, postID uint64) (*dto.LikeToggleDTO, error) {
	if _, err := loadVisiblePost(ctx, s.postRepo, userID, postID); err != nil {
		return nil, err
	}

	liked := true
	removed, err := s.actionRepo.DeleteLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if removed {
		liked = false
	} else {
		err = s.actionRepo.CreateLike(ctx, &model.PostLike{UserID: userID, PostID: postID, CreatedAt: time.Now()})
		switch {
		case err == nil, repository.IsDuplicateKey(err):
		case repository.IsForeignKeyViolation(err):
			// 校验之后帖子被删除
			return nil, ErrPostNotFound
		default:
			return nil, err
		}
	}

	count, err := s.GetPostLikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}
	markDirty(ctx, postID)

	eventType := kafka.EventPostLiked
	if !liked {
		eventType = kafka.EventPostUnliked
	}
	s.publisher.Publish(ctx, kafka.NewEvent(eventType, userID, postID))
	return &dto.LikeToggleDTO{Liked: liked, Count: count}, nil
}

func (s *postActionServiceImpl) GetLikeStatus(ctx context.Context, viewerID, postID uint64) (*dto.LikeStateDTO, error) {
	if _, err := loadVisiblePost(ctx, s.postRepo, viewerID, postID); err != nil {
		return nil, err
	}
	count, err := s.GetPostLikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}
	state := &dto.LikeStateDTO{Count: count}
	if viewerID > 0 {
		if state.LikedByMe, err = s.actionRepo.CheckLikeExists(ctx, viewerID, postID); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// GetPostLikeCount 直接按 post_id 索引统计，与详情接口口径一致
func (s *postActionServiceImpl) GetPostLikeCount(ctx context.Context, postID uint64) (int64, error) {
	return s.actionRepo.GetLikeCountByPostID(ctx, postID)
}

func (s *postActionServiceImpl) CreateComment(ctx context.Context, userID, postID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if utf8.RuneCountInString(content) > consts.MaxCommentLength {
		return nil, ErrCommentTooLong
	}
	if _, err := loadVisiblePost(ctx, s.postRepo, userID, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:    postID,
		AuthorID:  userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.actionRepo.CreateComment(ctx, comment); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	saved, err := s.actionRepo.GetCommentByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, UnExpectedError
	}
	markDirty(ctx, postID)

	log.InfoContext(ctx, "comment created", "commentID", comment.ID, "postID", postID, "authorID", userID)
	s.publisher.Publish(ctx, kafka.NewEvent(kafka.EventCommentCreated, userID, postID))
	return toCommentDTO(saved), nil
}

func (s *postActionServiceImpl) GetCommentsByPostID(ctx context.Context, viewerID, postID uint64) ([]*dto.CommentDTO, error) {
	if _, err := loadVisiblePost(ctx, s.postRepo, viewerID, postID); err != nil {
		return nil, err
	}
	comments, err := s.actionRepo.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return toCommentDTOs(comments), nil
}

// SyncPostCounters 以源表重新统计并写回快照列，帖子已删除时无操作
func (s *postActionServiceImpl) SyncPostCounters(ctx context.Context, postID uint64) error {
	exists, err := s.postRepo.ExistsPost(ctx, postID)
	if err != nil || !exists {
		return err
	}
	likes, err := s.actionRepo.GetLikeCountByPostID(ctx, postID)
	if err != nil {
		return err
	}
	comments, err := s.actionRepo.GetCommentCountByPostID(ctx, postID)
	if err != nil {
		return err
	}
	return s.postRepo.UpdatePostCounts(ctx, postID, likes, comments)
}

// markDirty 记录计数有变化的帖子，由定时任务回写快照列
func markDirty(ctx context.Context, postID uint64) {
	if err := redis.AddToSet(ctx, consts.PostDirtyKey, strconv.FormatUint(postID, 10)); err != nil {
		log.WarnContext(ctx, "mark post dirty failed", "postID", postID, "err", err)
	}
}

func toCommentDTO(comment *model.Comment) *dto.CommentDTO {
	return &dto.CommentDTO{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Content:   comment.Content,
		Author:    toAuthorDTO(&comment.Author),
		CreatedAt: comment.CreatedAt,
	}
}

func toCommentDTOs(comments []*model.Comment) []*dto.CommentDTO {
	result := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		result = append(result, toCommentDTO(comment))
	}
	return result
}
