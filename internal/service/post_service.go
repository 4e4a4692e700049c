package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/kafka"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"
)

// maxSlugAttempts slug 冲突时最多尝试的后缀数
const maxSlugAttempts = 50

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, dto *dto.CreatePostDTO) (*dto.PostDetailDTO, error)
	GetPost(ctx context.Context, viewerID, postID uint64) (*dto.PostDetailDTO, error)
	ListLatestPosts(ctx context.Context) ([]*dto.PostSummaryDTO, error)
	ListPosts(ctx context.Context, viewerID uint64, query *dto.PostListQuery) (*dto.PostPageDTO, error)
	GetUserPosts(ctx context.Context, username string, cursor uint64, limit int) (*dto.PostPageDTO, error)
	UpdatePost(ctx context.Context, userID, postID uint64, dto *dto.UpdatePostDTO) (*dto.PostDetailDTO, error)
	DeletePost(ctx context.Context, userID, postID uint64) error
}

type postServiceImpl struct {
	postRepo   repository.PostRepo
	tagRepo    repository.TagRepo
	actionRepo repository.PostActionRepo
	userRepo   repository.UserRepo
	publisher  kafka.Publisher
}

func NewPostService(
	postRepo repository.PostRepo,
	tagRepo repository.TagRepo,
	actionRepo repository.PostActionRepo,
	userRepo repository.UserRepo,
	publisher kafka.Publisher,
) PostService {
	return &postServiceImpl{
		postRepo:   postRepo,
		tagRepo:    tagRepo,
		actionRepo: actionRepo,
		userRepo:   userRepo,
		publisher:  publisher,
	}
}

func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, postDTO *dto.CreatePostDTO) (*dto.PostDetailDTO, error) {
	postDTO.Title = strings.TrimSpace(postDTO.Title)
	postDTO.Content = strings.TrimSpace(postDTO.Content)
	if postDTO.Title == "" || postDTO.Content == "" {
		return nil, ErrPostContentEmpty
	}
	if postDTO.Status == "" {
		postDTO.Status = model.PostStatusPublished
	}
	if !model.IsValidPostStatus(postDTO.Status) {
		return nil, ErrPostStatusInvalid
	}
	if err := util.ValidateDTO(postDTO); err != nil {
		return nil, err
	}
	tags, err := normalizeTags(postDTO.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &model.Post{
		AuthorID:  userID,
		Title:     postDTO.Title,
		Content:   postDTO.Content,
		Status:    postDTO.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.insertWithUniqueSlug(ctx, post, tags); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "post created", "postID", post.ID, "slug", post.Slug, "authorID", userID)
	s.publisher.Publish(ctx, kafka.NewEvent(kafka.EventPostCreated, userID, post.ID))
	return s.GetPost(ctx, userID, post.ID)
}

// insertWithUniqueSlug 依次尝试 base、base-1、base-2...，以唯一索引为准，冲突时换下一个后缀重试
func (s *postServiceImpl) insertWithUniqueSlug(ctx context.Context, post *model.Post, tags []string) error {
	base := util.Slugify(post.Title)
	for n := 0; n < maxSlugAttempts; n++ {
		candidate := util.SlugCandidate(base, n)
		taken, err := s.postRepo.SlugExists(ctx, candidate)
		if err != nil {
			return err
		}
		if taken {
			continue
		}

		post.ID = 0
		post.Slug = candidate
		err = s.postRepo.CreatePost(ctx, post, tags)
		if err == nil {
			return nil
		}
		if !repository.IsDuplicateKey(err) {
			return err
		}
		log.WarnContext(ctx, "slug taken concurrently, retrying", "slug", candidate)
	}
	return fmt.Errorf("%w: %s", ErrSlugExhausted, base)
}

func (s *postServiceImpl) GetPost(ctx context.Context, viewerID, postID uint64) (*dto.PostDetailDTO, error) {
	post, err := loadVisiblePost(ctx, s.postRepo, viewerID, postID)
	if err != nil {
		return nil, err
	}

	detail := &dto.PostDetailDTO{}
	if err = copier.Copy(detail, post); err != nil {
		return nil, err
	}
	detail.Author = toAuthorDTO(&post.Author)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tags, err := s.tagRepo.GetTagNamesByPostIDs(gCtx, []uint64{postID})
		if err != nil {
			return err
		}
		detail.Tags = nonNilTags(tags[postID])
		return nil
	})
	g.Go(func() error {
		comments, err := s.actionRepo.GetCommentsByPostID(gCtx, postID)
		if err != nil {
			return err
		}
		detail.Comments = toCommentDTOs(comments)
		detail.CommentCount = int64(len(comments))
		return nil
	})
	g.Go(func() error {
		count, err := s.actionRepo.GetLikeCountByPostID(gCtx, postID)
		if err != nil {
			return err
		}
		detail.LikeCount = count
		return nil
	})
	if viewerID > 0 {
		g.Go(func() error {
			liked, err := s.actionRepo.CheckLikeExists(gCtx, viewerID, postID)
			if err != nil {
				return err
			}
			detail.LikedByMe = liked
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *postServiceImpl) ListLatestPosts(ctx context.Context) ([]*dto.PostSummaryDTO, error) {
	posts, err := s.postRepo.ListLatestPosts(ctx, model.PostStatusPublished, consts.LegacyListSize)
	if err != nil {
		return nil, err
	}
	return s.buildSummaries(ctx, posts)
}

func (s *postServiceImpl) ListPosts(ctx context.Context, viewerID uint64, query *dto.PostListQuery) (*dto.PostPageDTO, error) {
	repoQuery := &repository.PostQuery{
		Keyword: strings.TrimSpace(query.Keyword),
		Tag:     strings.TrimSpace(query.Tag),
		Status:  strings.ToUpper(strings.TrimSpace(query.Status)),
		Cursor:  query.Cursor,
		Limit:   pageLimit(query.Limit),
	}
	if repoQuery.Status == "" {
		repoQuery.Status = model.PostStatusPublished
	}
	if !model.IsValidPostStatus(repoQuery.Status) {
		return nil, ErrPostStatusInvalid
	}
	// 草稿只对作者本人可见
	if repoQuery.Status == model.PostStatusDraft {
		if viewerID == 0 {
			return nil, ErrUnauthorized
		}
		repoQuery.AuthorID = viewerID
	}
	return s.listPage(ctx, repoQuery)
}

func (s *postServiceImpl) GetUserPosts(ctx context.Context, username string, cursor uint64, limit int) (*dto.PostPageDTO, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.listPage(ctx, &repository.PostQuery{
		Status:   model.PostStatusPublished,
		AuthorID: user.ID,
		Cursor:   cursor,
		Limit:    pageLimit(limit),
	})
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, userID, postID uint64, postDTO *dto.UpdatePostDTO) (*dto.PostDetailDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.AuthorID != userID {
		return nil, ErrForbidden
	}

	postDTO.Title = strings.TrimSpace(postDTO.Title)
	postDTO.Content = strings.TrimSpace(postDTO.Content)
	if postDTO.Title == "" || postDTO.Content == "" {
		return nil, ErrPostContentEmpty
	}
	if postDTO.Status != nil && !model.IsValidPostStatus(*postDTO.Status) {
		return nil, ErrPostStatusInvalid
	}
	if err = util.ValidateDTO(postDTO); err != nil {
		return nil, err
	}

	var tags []string
	replaceTags := postDTO.Tags != nil
	if replaceTags {
		if tags, err = normalizeTags(*postDTO.Tags); err != nil {
			return nil, err
		}
	}

	post.Title = postDTO.Title
	post.Content = postDTO.Content
	if postDTO.Status != nil {
		post.Status = *postDTO.Status
	}
	post.UpdatedAt = time.Now()
	if err = s.postRepo.UpdatePost(ctx, post, tags, replaceTags); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "post updated", "postID", postID, "replaceTags", replaceTags)
	s.publisher.Publish(ctx, kafka.NewEvent(kafka.EventPostUpdated, userID, postID))
	return s.GetPost(ctx, userID, postID)
}

func (s *postServiceImpl) DeletePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.AuthorID != userID {
		return ErrForbidden
	}

	deleted, err := s.postRepo.DeletePost(ctx, postID)
	if err != nil {
		return err
	}
	if !deleted {
		// 并发删除已先提交
		return ErrPostNotFound
	}

	if err = redis.RemoveFromSet(ctx, consts.PostDirtyKey, strconv.FormatUint(postID, 10)); err != nil {
		log.WarnContext(ctx, "drop dirty mark failed", "postID", postID, "err", err)
	}

	log.InfoContext(ctx, "post deleted", "postID", postID, "authorID", userID)
	s.publisher.Publish(ctx, kafka.NewEvent(kafka.EventPostDeleted, userID, postID))
	return nil
}

func (s *postServiceImpl) listPage(ctx context.Context, query *repository.PostQuery) (*dto.PostPageDTO, error) {
	posts, err := s.postRepo.ListPosts(ctx, query)
	if err != nil {
		return nil, err
	}
	items, err := s.buildSummaries(ctx, posts)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	return &dto.PostPageDTO{
		Items:      items,
		NextCursor: util.NextCursor(ids, query.Limit),
	}, nil
}

// buildSummaries 一页帖子的标签与计数各用一次批量查询
func (s *postServiceImpl) buildSummaries(ctx context.Context, posts []*model.Post) ([]*dto.PostSummaryDTO, error) {
	summaries := make([]*dto.PostSummaryDTO, 0, len(posts))
	if len(posts) == 0 {
		return summaries, nil
	}

	ids := make([]uint64, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}

	var (
		tags     map[uint64][]string
		likes    map[uint64]int64
		comments map[uint64]int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tags, err = s.tagRepo.GetTagNamesByPostIDs(gCtx, ids)
		return err
	})
	g.Go(func() (err error) {
		likes, err = s.actionRepo.GetLikeCountsByPostIDs(gCtx, ids)
		return err
	})
	g.Go(func() (err error) {
		comments, err = s.actionRepo.GetCommentCountsByPostIDs(gCtx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, post := range posts {
		summary := &dto.PostSummaryDTO{}
		if err := copier.Copy(summary, post); err != nil {
			return nil, err
		}
		summary.Excerpt = util.Excerpt(post.Content, consts.ExcerptLength)
		summary.Author = toAuthorDTO(&post.Author)
		summary.Tags = nonNilTags(tags[post.ID])
		summary.LikeCount = likes[post.ID]
		summary.CommentCount = comments[post.ID]
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// loadVisiblePost 草稿仅作者可见，其他人一律视为不存在
func loadVisiblePost(ctx context.Context, postRepo repository.PostRepo, viewerID, postID uint64) (*model.Post, error) {
	post, err := postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.Status == model.PostStatusDraft && post.AuthorID != viewerID {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func normalizeTags(raw []string) ([]string, error) {
	tags := util.NormalizeTags(raw)
	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > consts.MaxTagLength {
			return nil, ErrTagTooLong
		}
	}
	return tags, nil
}

// pageLimit 未指定时使用默认分页大小
func pageLimit(limit int) int {
	if limit == 0 {
		return consts.DefaultPageSize
	}
	return util.ClampLimit(limit)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
