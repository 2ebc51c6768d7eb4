// Package comments implements the threaded-comment core: tree
// materialization, single-level pagination, cascading subtree deletion and
// idempotent like toggling over a flat parent-pointer store.
package comments

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/social-platform/internal/platform/events"
	"github.com/example/social-platform/services/social/internal/store"
)

// Service holds no mutable state of its own; consistency is delegated to
// the store's per-record atomicity.
type Service struct {
	comments store.CommentStore
	posts    store.PostStore
	mapper   *Mapper
	events   *events.Publisher
	log      *zap.Logger

	defaultLimit int
	maxDepth     int
}

type Options struct {
	Comments store.CommentStore
	Posts    store.PostStore
	Users    store.UserStore
	Events   *events.Publisher
	Logger   *zap.Logger

	// DefaultLimit is the page size used when callers omit one.
	DefaultLimit int
	// MaxDepth caps tree materialization depth.
	MaxDepth int
}

func New(opts Options) *Service {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 64
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		comments:     opts.Comments,
		posts:        opts.Posts,
		mapper:       NewMapper(opts.Users),
		events:       opts.Events,
		log:          opts.Logger,
		defaultLimit: opts.DefaultLimit,
		maxDepth:     opts.MaxDepth,
	}
}

// Create validates and inserts a comment. A reply's parent must exist and
// belong to the same post; mismatched pairs are rejected rather than
// silently accepted.
func (s *Service) Create(ctx context.Context, postID, creatorID, content string, parentID *string) (*CommentView, error) {
	if strings.TrimSpace(creatorID) == "" {
		return nil, fmt.Errorf("requester: %w", ErrForbidden)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content must not be empty: %w", ErrValidation)
	}

	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, wrapStore(err, "check post")
	}
	if !ok {
		return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}

	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil {
			return nil, wrapStore(err, "parent comment")
		}
		if parent.PostID != postID {
			return nil, fmt.Errorf("parent comment belongs to another post: %w", ErrValidation)
		}
	}

	created, err := s.comments.Insert(ctx, store.Comment{
		PostID:    postID,
		CreatorID: creatorID,
		ParentID:  parentID,
		Content:   content,
	})
	if err != nil {
		return nil, wrapStore(err, "insert comment")
	}

	s.events.Publish(events.SubjectCommentCreated, "comment_created", creatorID, map[string]any{
		"comment_id": created.ID,
		"post_id":    created.PostID,
	})
	s.log.Info("comment created",
		zap.String("comment_id", created.ID),
		zap.String("post_id", created.PostID),
		zap.Bool("reply", created.IsReply()))

	// A fresh comment has no children.
	return s.mapper.view(ctx, created, 0)
}

// Edit replaces a comment's content. Only the creator may edit.
func (s *Service) Edit(ctx context.Context, commentID, requesterID, content string) (*CommentView, error) {
	if strings.TrimSpace(requesterID) == "" {
		return nil, fmt.Errorf("requester: %w", ErrForbidden)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content must not be empty: %w", ErrValidation)
	}

	existing, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, wrapStore(err, "comment")
	}
	if existing.CreatorID != requesterID {
		return nil, fmt.Errorf("only the creator may edit: %w", ErrForbidden)
	}

	updated, err := s.comments.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, wrapStore(err, "update comment")
	}
	return s.viewWithChildCount(ctx, updated)
}

// Like adds the user to the comment's liked-by set; liking twice is a
// no-op. Any authenticated user may like any comment.
func (s *Service) Like(ctx context.Context, commentID, userID string) (*CommentView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("requester: %w", ErrForbidden)
	}
	c, err := s.comments.AddLike(ctx, commentID, userID)
	if err != nil {
		return nil, wrapStore(err, "comment")
	}
	s.events.Publish(events.SubjectCommentLiked, "comment_liked", userID, map[string]any{
		"comment_id": c.ID,
		"post_id":    c.PostID,
	})
	return s.viewWithChildCount(ctx, c)
}

// Unlike removes the user from the liked-by set; absent users are a no-op.
func (s *Service) Unlike(ctx context.Context, commentID, userID string) (*CommentView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("requester: %w", ErrForbidden)
	}
	c, err := s.comments.RemoveLike(ctx, commentID, userID)
	if err != nil {
		return nil, wrapStore(err, "comment")
	}
	return s.viewWithChildCount(ctx, c)
}

func (s *Service) viewWithChildCount(ctx context.Context, c store.Comment) (*CommentView, error) {
	n, err := s.comments.CountReplies(ctx, c.ID)
	if err != nil {
		return nil, wrapStore(err, "count replies")
	}
	return s.mapper.view(ctx, c, n)
}
