package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/kafka"
	"Inkwell/internal/repository"
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"gorm.io/gorm"
)

// conflictingPostRepo 在前 conflicts 次插入时模拟并发写入造成的唯一索引冲突
type conflictingPostRepo struct {
	repository.PostRepo
	conflicts int
	attempts  []string
}

func (r *conflictingPostRepo) SlugExists(context.Context, string) (bool, error) {
	return false, nil
}

func (r *conflictingPostRepo) CreatePost(ctx context.Context, post *model.Post, tags []string) error {
	r.attempts = append(r.attempts, post.Slug)
	if r.conflicts > 0 {
		r.conflicts--
		return gorm.ErrDuplicatedKey
	}
	return r.PostRepo.CreatePost(ctx, post, tags)
}

func TestCreatePostAssignsUniqueSlugs(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	first := env.createPost(t, alice.ID, "Hello World", "")
	second := env.createPost(t, alice.ID, "Hello World", "")
	third := env.createPost(t, alice.ID, "  !!!  ", "")

	if first.Slug != "hello-world" || second.Slug != "hello-world-1" {
		t.Fatalf("slugs = %q, %q", first.Slug, second.Slug)
	}
	if third.Slug != "post" {
		t.Fatalf("fallback slug = %q", third.Slug)
	}
	if first.Status != model.PostStatusPublished {
		t.Fatalf("default status = %q", first.Status)
	}
	if first.Author.Username != "alice" {
		t.Fatalf("author = %+v", first.Author)
	}
}

func TestCreatePostRetriesOnDuplicateKey(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	repo := &conflictingPostRepo{PostRepo: repository.NewPostRepository(env.db), conflicts: 1}
	svc := NewPostService(repo, repository.NewTagRepository(env.db), repository.NewPostActionRepo(env.db),
		repository.NewUserRepo(env.db), kafka.NoopPublisher{})

	post, err := svc.CreatePost(context.Background(), alice.ID, &dto.CreatePostDTO{Title: "Race", Content: "body"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.Slug != "race-1" {
		t.Fatalf("slug = %q, want race-1", post.Slug)
	}
	if !reflect.DeepEqual(repo.attempts, []string{"race", "race-1"}) {
		t.Fatalf("attempts = %v", repo.attempts)
	}
}

func TestCreatePostGivesUpAfterMaxAttempts(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	repo := &conflictingPostRepo{PostRepo: repository.NewPostRepository(env.db), conflicts: maxSlugAttempts + 1}
	svc := NewPostService(repo, repository.NewTagRepository(env.db), repository.NewPostActionRepo(env.db),
		repository.NewUserRepo(env.db), kafka.NoopPublisher{})

	_, err := svc.CreatePost(context.Background(), alice.ID, &dto.CreatePostDTO{Title: "Race", Content: "body"})
	if !errors.Is(err, ErrSlugExhausted) {
		t.Fatalf("err = %v", err)
	}
	if len(repo.attempts) != maxSlugAttempts {
		t.Fatalf("attempts = %d", len(repo.attempts))
	}
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreatePostDTO
		want error
	}{
		{"blank title", dto.CreatePostDTO{Title: "   ", Content: "body"}, ErrPostContentEmpty},
		{"blank content", dto.CreatePostDTO{Title: "Title", Content: "\n\t"}, ErrPostContentEmpty},
		{"bad status", dto.CreatePostDTO{Title: "Title", Content: "body", Status: "ARCHIVED"}, ErrPostStatusInvalid},
		{"long tag", dto.CreatePostDTO{Title: "Title", Content: "body", Tags: []string{strings.Repeat("x", 51)}}, ErrTagTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.posts.CreatePost(ctx, alice.ID, &tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
	if n := countRows(t, env.db, &model.Post{}, "1 = 1"); n != 0 {
		t.Fatalf("invalid requests persisted %d posts", n)
	}
}

func TestCreatePostNormalizesTags(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	post := env.createPost(t, alice.ID, "Tagged", "", " go ", "", "web", "go")
	if !reflect.DeepEqual(post.Tags, []string{"go", "web"}) {
		t.Fatalf("tags = %v", post.Tags)
	}
}

func TestDraftVisibleOnlyToAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	draft := env.createPost(t, alice.ID, "Secret plans", model.PostStatusDraft)

	if _, err := env.posts.GetPost(ctx, alice.ID, draft.ID); err != nil {
		t.Fatalf("author cannot read own draft: %v", err)
	}
	for _, viewer := range []uint64{0, bob.ID} {
		if _, err := env.posts.GetPost(ctx, viewer, draft.ID); !errors.Is(err, ErrPostNotFound) {
			t.Fatalf("viewer %d: err = %v", viewer, err)
		}
	}

	latest, err := env.posts.ListLatestPosts(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest) != 0 {
		t.Fatalf("legacy list leaked drafts: %d items", len(latest))
	}

	if _, err = env.posts.ListPosts(ctx, 0, &dto.PostListQuery{Status: model.PostStatusDraft}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous draft listing: %v", err)
	}
	page, err := env.posts.ListPosts(ctx, bob.ID, &dto.PostListQuery{Status: model.PostStatusDraft})
	if err != nil {
		t.Fatalf("bob drafts: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("bob sees alice's drafts")
	}
	page, err = env.posts.ListPosts(ctx, alice.ID, &dto.PostListQuery{Status: "draft"})
	if err != nil {
		t.Fatalf("alice drafts: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != draft.ID {
		t.Fatalf("alice drafts = %+v", page.Items)
	}
}

func TestListPostsCursorWalk(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	const total = 5
	for i := 0; i < total; i++ {
		env.createPost(t, alice.ID, "Post "+strconv.Itoa(i), "")
	}

	seen := make(map[uint64]bool)
	var cursor uint64
	var last uint64
	for pages := 0; ; pages++ {
		if pages > total {
			t.Fatal("cursor walk does not terminate")
		}
		page, err := env.posts.ListPosts(ctx, 0, &dto.PostListQuery{Cursor: cursor, Limit: 1})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, item := range page.Items {
			if seen[item.ID] {
				t.Fatalf("post %d visited twice", item.ID)
			}
			if last != 0 && item.ID >= last {
				t.Fatalf("ids not strictly decreasing: %d after %d", item.ID, last)
			}
			seen[item.ID] = true
			last = item.ID
		}
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}
	if len(seen) != total {
		t.Fatalf("visited %d posts, want %d", len(seen), total)
	}
}

func TestListPostsSummaries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	long := strings.Repeat("a", 500)
	post, err := env.posts.CreatePost(ctx, alice.ID, &dto.CreatePostDTO{Title: "Long read", Content: long, Tags: []string{"essay"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	env.createPost(t, alice.ID, "Unrelated", "", "misc")

	if _, err = env.actions.ToggleLike(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err = env.actions.CreateComment(ctx, bob.ID, post.ID, &dto.CommentCreateDTO{Content: "nice"}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	page, err := env.posts.ListPosts(ctx, 0, &dto.PostListQuery{Tag: "essay"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d", len(page.Items))
	}
	item := page.Items[0]
	if item.LikeCount != 1 || item.CommentCount != 1 {
		t.Fatalf("counts = %d likes, %d comments", item.LikeCount, item.CommentCount)
	}
	if !reflect.DeepEqual(item.Tags, []string{"essay"}) || item.Author.Username != "alice" {
		t.Fatalf("summary = %+v", item)
	}
	if n := len([]rune(item.Excerpt)); n != consts.ExcerptLength+1 {
		t.Fatalf("excerpt has %d runes", n)
	}
	if page.NextCursor != nil {
		t.Fatalf("partial page must not carry a cursor")
	}

	page, err = env.posts.ListPosts(ctx, 0, &dto.PostListQuery{Keyword: "UNRELATED"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "Unrelated" {
		t.Fatalf("keyword search = %+v", page.Items)
	}
}

func TestUpdatePostOwnershipAndTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	post := env.createPost(t, alice.ID, "Original", "", "go", "web")

	_, err := env.posts.UpdatePost(ctx, bob.ID, post.ID, &dto.UpdatePostDTO{Title: "Hijack", Content: "x"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author update: %v", err)
	}
	if _, err = env.posts.UpdatePost(ctx, alice.ID, 9999, &dto.UpdatePostDTO{Title: "x", Content: "x"}); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("missing post update: %v", err)
	}

	updated, err := env.posts.UpdatePost(ctx, alice.ID, post.ID, &dto.UpdatePostDTO{Title: "Renamed", Content: "new body"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Renamed" || updated.Slug != post.Slug {
		t.Fatalf("title %q slug %q", updated.Title, updated.Slug)
	}
	if !reflect.DeepEqual(updated.Tags, []string{"go", "web"}) {
		t.Fatalf("absent tags must be kept, got %v", updated.Tags)
	}

	draft := model.PostStatusDraft
	replaced := dto.TagList{"db"}
	updated, err = env.posts.UpdatePost(ctx, alice.ID, post.ID, &dto.UpdatePostDTO{Title: "Renamed", Content: "new body", Tags: &replaced, Status: &draft})
	if err != nil {
		t.Fatalf("update tags: %v", err)
	}
	if !reflect.DeepEqual(updated.Tags, []string{"db"}) || updated.Status != model.PostStatusDraft {
		t.Fatalf("tags %v status %q", updated.Tags, updated.Status)
	}

	cleared := dto.TagList{}
	updated, err = env.posts.UpdatePost(ctx, alice.ID, post.ID, &dto.UpdatePostDTO{Title: "Renamed", Content: "new body", Tags: &cleared})
	if err != nil {
		t.Fatalf("clear tags: %v", err)
	}
	if len(updated.Tags) != 0 {
		t.Fatalf("tags not cleared: %v", updated.Tags)
	}
}

func TestDeletePostCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	post := env.createPost(t, alice.ID, "Doomed", "", "tmp")
	comment, err := env.actions.CreateComment(ctx, bob.ID, post.ID, &dto.CommentCreateDTO{Content: "first"})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err = env.actions.ToggleLike(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	if err = env.posts.DeletePost(ctx, bob.ID, post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-author delete: %v", err)
	}
	if err = env.posts.DeletePost(ctx, alice.ID, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err = env.posts.GetPost(ctx, alice.ID, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("deleted post still readable: %v", err)
	}
	if n := countRows(t, env.db, &model.Comment{}, "id = ?", comment.ID); n != 0 {
		t.Fatal("comment survived delete")
	}
	if n := countRows(t, env.db, &model.PostLike{}, "post_id = ?", post.ID); n != 0 {
		t.Fatal("like survived delete")
	}
	if n := countRows(t, env.db, &model.PostTag{}, "post_id = ?", post.ID); n != 0 {
		t.Fatal("tag link survived delete")
	}
	if isDirty(t, env.mr, strconv.FormatUint(post.ID, 10)) {
		t.Fatal("dirty mark survived delete")
	}
	if err = env.posts.DeletePost(ctx, alice.ID, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestGetUserPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	env.createPost(t, alice.ID, "Alice one", "")
	env.createPost(t, alice.ID, "Alice two", "")
	env.createPost(t, alice.ID, "Alice draft", model.PostStatusDraft)
	env.createPost(t, bob.ID, "Bob one", "")

	page, err := env.posts.GetUserPosts(ctx, "alice", 0, 0)
	if err != nil {
		t.Fatalf("user posts: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2 published", len(page.Items))
	}
	if page.Items[0].ID < page.Items[1].ID {
		t.Fatal("user posts not ordered by id desc")
	}

	page, err = env.posts.GetUserPosts(ctx, "alice", 0, 1)
	if err != nil {
		t.Fatalf("user posts page: %v", err)
	}
	if page.NextCursor == nil || *page.NextCursor != page.Items[0].ID {
		t.Fatalf("next cursor = %v", page.NextCursor)
	}

	if _, err = env.posts.GetUserPosts(ctx, "nobody", 0, 20); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user: %v", err)
	}
}

// racedDeletePostRepo 模拟另一个删除请求在本次删除之前提交
type racedDeletePostRepo struct {
	repository.PostRepo
}

func (r *racedDeletePostRepo) DeletePost(ctx context.Context, id uint64) (bool, error) {
	if _, err := r.PostRepo.DeletePost(ctx, id); err != nil {
		return false, err
	}
	return r.PostRepo.DeletePost(ctx, id)
}

func TestDeletePostLosingRaceIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	post := env.createPost(t, alice.ID, "Contested", "")

	svc := NewPostService(&racedDeletePostRepo{PostRepo: repository.NewPostRepository(env.db)}, repository.NewTagRepository(env.db),
		repository.NewPostActionRepo(env.db), repository.NewUserRepo(env.db), kafka.NoopPublisher{})

	if err := svc.DeletePost(context.Background(), alice.ID, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("err = %v, want ErrPostNotFound", err)
	}
	if code, _, _ := StatusOf(ErrPostNotFound); code != 404 {
		t.Fatalf("status = %d", code)
	}
}
