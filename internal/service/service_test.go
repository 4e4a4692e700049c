package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/kafka"
	"Inkwell/internal/pkg/testutil"
	"Inkwell/internal/repository"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	mr      *miniredis.Miniredis
	users   UserService
	posts   PostService
	actions PostActionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	testutil.InitSecurity(t)
	db := testutil.NewTestDB(t)
	mr := testutil.NewTestRedis(t)

	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepository(db)
	tagRepo := repository.NewTagRepository(db)
	actionRepo := repository.NewPostActionRepo(db)
	publisher := kafka.NoopPublisher{}

	return &testEnv{
		db:      db,
		mr:      mr,
		users:   NewUserService(userRepo, publisher),
		posts:   NewPostService(postRepo, tagRepo, actionRepo, userRepo, publisher),
		actions: NewPostActionService(actionRepo, postRepo, publisher),
	}
}

func (e *testEnv) register(t *testing.T, username string) *dto.UserDTO {
	t.Helper()
	user, err := e.users.Register(context.Background(), &dto.RegisterDTO{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func (e *testEnv) createPost(t *testing.T, authorID uint64, title, status string, tags ...string) *dto.PostDetailDTO {
	t.Helper()
	post, err := e.posts.CreatePost(context.Background(), authorID, &dto.CreatePostDTO{
		Title:   title,
		Content: title + " content",
		Tags:    tags,
		Status:  status,
	})
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}

func countRows(t *testing.T, db *gorm.DB, table any, query string, args ...any) int64 {
	t.Helper()
	var count int64
	if err := db.Model(table).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return count
}

func isDirty(t *testing.T, mr *miniredis.Miniredis, id string) bool {
	t.Helper()
	ok, err := mr.SIsMember(consts.PostDirtyKey, id)
	if err != nil {
		return false
	}
	return ok
}
