package store

import (
	"context"
	"testing"
)

func TestInMemoryCommentStore_Insert(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()

	c, err := s.Insert(ctx, Comment{PostID: "post-1", CreatorID: "user-a", Content: "hello"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if c.ID == "" {
		t.Fatal("expected non-empty id")
	}
	if c.Content != "hello" {
		t.Fatalf("expected content 'hello', got %q", c.Content)
	}
	if len(c.LikedBy) != 0 {
		t.Fatalf("expected empty liked_by, got %v", c.LikedBy)
	}
	if !c.UpdatedAt.Equal(c.CreatedAt) {
		t.Fatal("expected updated_at == created_at on insert")
	}
}

func TestInMemoryCommentStore_FindTopLevel_Ordering(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()

	first, _ := s.Insert(ctx, Comment{PostID: "post-1", CreatorID: "user-a", Content: "first"})
	second, _ := s.Insert(ctx, Comment{PostID: "post-1", CreatorID: "user-b", Content: "second"})
	// A reply must not show up among top-level comments.
	pid := first.ID
	_, _ = s.Insert(ctx, Comment{PostID: "post-1", CreatorID: "user-c", ParentID: &pid, Content: "reply"})

	got, err := s.FindTopLevel(ctx, "post-1", 0, 0)
	if err != nil {
		t.Fatalf("find top level: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 top-level comments, got %d", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("expected newest-first ordering, got %s, %s", got[0].Content, got[1].Content)
	}

	n, _ := s.CountTopLevel(ctx, "post-1")
	if n != 2 {
		t.Fatalf("expected top-level count 2, got %d", n)
	}
}

func TestInMemoryCommentStore_FindReplies_SkipLimit(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()

	root, _ := s.Insert(ctx, Comment{PostID: "post-1", CreatorID: "user-a", Content: "root"})
	pid := root.ID
	var ids []string
	for i := 0; i < 5; i++ {
		c, _ := s.Insert(ctx, Comment{PostID: "post-1", CreatorID: "user-b", ParentID: &pid, Content: "r"})
		ids = append(ids, c.ID)
	}

	n, _ := s.CountReplies(ctx, root.ID)
	if n != 5 {
		t.Fatalf("expected 5 replies, got %d", n)
	}

	page, err := s.FindReplies(ctx, root.ID, 2, 2)
	if err != nil {
		t.Fatalf("find replies: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page))
	}
	// Newest first: skip 2 of [4,3,2,1,0] leaves [2,1].
	if page[0].ID != ids[2] || page[1].ID != ids[1] {
		t.Fatalf("unexpected page window: %v", []string{page[0].ID, page[1].ID})
	}

	past, _ := s.FindReplies(ctx, root.ID, 10, 2)
	if len(past) != 0 {
		t.Fatalf("expected empty page past the end, got %d items", len(past))
	}
}

func TestInMemoryCommentStore_DeleteByIDs(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()

	a, _ := s.Insert(ctx, Comment{PostID: "post-1", CreatorID: "user-a", Content: "a"})
	b, _ := s.Insert(ctx, Comment{PostID: "post-1", CreatorID: "user-a", Content: "b"})
	keep, _ := s.Insert(ctx, Comment{PostID: "post-1", CreatorID: "user-a", Content: "keep"})

	if err := s.DeleteByIDs(ctx, []string{a.ID, b.ID, "missing-id"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetByID(ctx, a.ID); err != ErrNoComment {
		t.Fatalf("expected ErrNoComment for deleted a, got %v", err)
	}
	if _, err := s.GetByID(ctx, keep.ID); err != nil {
		t.Fatalf("expected keep to survive, got %v", err)
	}
}

func TestInMemoryCommentStore_Likes_Idempotent(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()

	c, _ := s.Insert(ctx, Comment{PostID: "post-1", CreatorID: "user-a", Content: "like me"})

	got, err := s.AddLike(ctx, c.ID, "user-b")
	if err != nil {
		t.Fatalf("add like: %v", err)
	}
	if len(got.LikedBy) != 1 {
		t.Fatalf("expected 1 like, got %d", len(got.LikedBy))
	}

	got, _ = s.AddLike(ctx, c.ID, "user-b")
	if len(got.LikedBy) != 1 {
		t.Fatalf("expected add-like to be idempotent, got %v", got.LikedBy)
	}

	got, _ = s.RemoveLike(ctx, c.ID, "user-b")
	if len(got.LikedBy) != 0 {
		t.Fatalf("expected like removed, got %v", got.LikedBy)
	}

	got, _ = s.RemoveLike(ctx, c.ID, "user-b")
	if len(got.LikedBy) != 0 {
		t.Fatalf("expected remove of absent like to be a no-op, got %v", got.LikedBy)
	}

	if _, err := s.AddLike(ctx, "missing-id", "user-b"); err != ErrNoComment {
		t.Fatalf("expected ErrNoComment, got %v", err)
	}
}

func TestInMemoryCommentStore_UpdateContent(t *testing.T) {
	s := NewInMemoryCommentStore()
	ctx := context.Background()

	c, _ := s.Insert(ctx, Comment{PostID: "post-1", CreatorID: "user-a", Content: "before"})

	got, err := s.UpdateContent(ctx, c.ID, "after")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Content != "after" {
		t.Fatalf("expected updated content, got %q", got.Content)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Fatal("expected updated_at to advance")
	}

	if _, err := s.UpdateContent(ctx, "missing-id", "x"); err != ErrNoComment {
		t.Fatalf("expected ErrNoComment, got %v", err)
	}
}

func TestInMemoryStores_PostsAndUsers(t *testing.T) {
	ctx := context.Background()

	ps := NewInMemoryPostStore()
	if ok, _ := ps.Exists(ctx, "post-1"); ok {
		t.Fatal("expected unknown post to not exist")
	}
	ps.Put("post-1")
	if ok, _ := ps.Exists(ctx, "post-1"); !ok {
		t.Fatal("expected registered post to exist")
	}

	us := NewInMemoryUserStore()
	us.Put(UserSummary{ID: "user-a", Name: "Ada", Username: "ada"})
	u, err := us.GetByID(ctx, "user-a")
	if err != nil || u == nil || u.Name != "Ada" {
		t.Fatalf("expected Ada, got %+v err=%v", u, err)
	}
	us.Remove("user-a")
	u, err = us.GetByID(ctx, "user-a")
	if err != nil || u != nil {
		t.Fatalf("expected nil summary for removed user, got %+v err=%v", u, err)
	}
}
