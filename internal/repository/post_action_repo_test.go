package repository

import (
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/testutil"
	"context"
	"testing"
	"time"

	"gorm.io/gorm/clause"
)

func TestPostActionRepoLikes(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewPostActionRepo(db)
	posts := NewPostRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, posts, alice.ID, "Liked", "liked", model.PostStatusPublished)
	quiet := createPost(t, posts, alice.ID, "Quiet", "quiet", model.PostStatusPublished)

	if err := repo.CreateLike(ctx, &model.PostLike{UserID: bob.ID, PostID: post.ID}); err != nil {
		t.Fatalf("like: %v", err)
	}
	err := repo.CreateLike(ctx, &model.PostLike{UserID: bob.ID, PostID: post.ID})
	if !IsDuplicateKey(err) {
		t.Fatalf("second like should violate the primary key, got %v", err)
	}
	if err = repo.CreateLike(ctx, &model.PostLike{UserID: alice.ID, PostID: post.ID}); err != nil {
		t.Fatalf("like: %v", err)
	}

	liked, err := repo.CheckLikeExists(ctx, bob.ID, post.ID)
	if err != nil || !liked {
		t.Fatalf("expected like to exist: %v %v", liked, err)
	}

	counts, err := repo.GetLikeCountsByPostIDs(ctx, []uint64{post.ID, quiet.ID})
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[post.ID] != 2 || counts[quiet.ID] != 0 {
		t.Fatalf("counts = %v", counts)
	}

	removed, err := repo.DeleteLike(ctx, bob.ID, post.ID)
	if err != nil || !removed {
		t.Fatalf("delete like: %v %v", removed, err)
	}
	removed, err = repo.DeleteLike(ctx, bob.ID, post.ID)
	if err != nil || removed {
		t.Fatalf("second delete should be a no-op: %v %v", removed, err)
	}
	if n, _ := repo.GetLikeCountByPostID(ctx, post.ID); n != 1 {
		t.Fatalf("count = %d", n)
	}
}

func TestPostActionRepoComments(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewPostActionRepo(db)
	alice := createUser(t, db, "alice")
	post := createPost(t, NewPostRepository(db), alice.ID, "Talk", "talk", model.PostStatusPublished)

	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"first", "second", "third"} {
		c := &model.Comment{PostID: post.ID, AuthorID: alice.ID, Content: text, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.CreateComment(ctx, c); err != nil {
			t.Fatalf("comment: %v", err)
		}
	}

	comments, err := repo.GetCommentsByPostID(ctx, post.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 3 || comments[0].Content != "first" || comments[2].Content != "third" {
		t.Fatalf("comments out of order: %+v", comments)
	}
	if comments[0].Author.Username != "alice" {
		t.Fatalf("author not preloaded")
	}

	if n, _ := repo.GetCommentCountByPostID(ctx, post.ID); n != 3 {
		t.Fatalf("count = %d", n)
	}
	counts, _ := repo.GetCommentCountsByPostIDs(ctx, []uint64{post.ID})
	if counts[post.ID] != 3 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestChildRowsRequireExistingPost(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewPostActionRepo(db)
	alice := createUser(t, db, "alice")
	const missingPostID = 999

	err := repo.CreateComment(ctx, &model.Comment{PostID: missingPostID, AuthorID: alice.ID, Content: "orphan"})
	if !IsForeignKeyViolation(err) {
		t.Fatalf("comment on missing post: %v", err)
	}
	err = repo.CreateLike(ctx, &model.PostLike{UserID: alice.ID, PostID: missingPostID})
	if !IsForeignKeyViolation(err) {
		t.Fatalf("like on missing post: %v", err)
	}

	tag := &model.Tag{Name: "go"}
	if err = db.Create(tag).Error; err != nil {
		t.Fatalf("tag: %v", err)
	}
	err = db.WithContext(ctx).Omit(clause.Associations).Create(&model.PostTag{PostID: missingPostID, TagID: tag.ID}).Error
	if !IsForeignKeyViolation(err) {
		t.Fatalf("tag link on missing post: %v", err)
	}

	post := createPost(t, NewPostRepository(db), alice.ID, "Real", "real", model.PostStatusPublished)
	err = repo.CreateLike(ctx, &model.PostLike{UserID: 12345, PostID: post.ID})
	if !IsForeignKeyViolation(err) {
		t.Fatalf("like by missing user: %v", err)
	}

	for table, name := range map[any]string{&model.Comment{}: "comments", &model.PostLike{}: "likes", &model.PostTag{}: "tag links"} {
		var n int64
		db.Model(table).Count(&n)
		if n != 0 {
			t.Fatalf("%s rows left: %d", name, n)
		}
	}
}
