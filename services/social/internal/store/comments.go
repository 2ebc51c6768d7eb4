package store

import (
	"context"
	"errors"
	"time"
)

// Comment is a single flat comment record. Threading is expressed purely
// through ParentID; no child lists are stored.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	CreatorID string    `json:"creator_id"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Content   string    `json:"content"`
	LikedBy   []string  `json:"liked_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsReply reports whether the comment has a parent comment.
func (c Comment) IsReply() bool { return c.ParentID != nil }

// Liked reports whether userID is in the liked-by set.
func (c Comment) Liked(userID string) bool {
	for _, u := range c.LikedBy {
		if u == userID {
			return true
		}
	}
	return false
}

// Sentinel errors shared by all backends.
var (
	ErrNoComment = errors.New("comment not found")
	ErrNoPost    = errors.New("post not found")
)

// CommentStore defines the contract for comment persistence.
//
// FindTopLevel and FindReplies return records ordered by created_at
// descending (ties broken by id, also descending) so every read path
// observes the same ordering. A limit <= 0 means no limit.
type CommentStore interface {
	Insert(ctx context.Context, c Comment) (Comment, error)
	GetByID(ctx context.Context, id string) (Comment, error)
	UpdateContent(ctx context.Context, id, content string) (Comment, error)
	CountTopLevel(ctx context.Context, postID string) (int, error)
	FindTopLevel(ctx context.Context, postID string, skip, limit int) ([]Comment, error)
	CountReplies(ctx context.Context, parentID string) (int, error)
	FindReplies(ctx context.Context, parentID string, skip, limit int) ([]Comment, error)
	// DeleteByIDs removes every listed record in one operation. Missing
	// ids are ignored.
	DeleteByIDs(ctx context.Context, ids []string) error
	// AddLike and RemoveLike are atomic set operations on liked_by and
	// return the record as stored afterwards.
	AddLike(ctx context.Context, commentID, userID string) (Comment, error)
	RemoveLike(ctx context.Context, commentID, userID string) (Comment, error)
}

// PostStore is the boundary to the posts collaborator. The comments core
// only needs existence checks; post CRUD lives elsewhere.
type PostStore interface {
	Exists(ctx context.Context, postID string) (bool, error)
}

// UserSummary is the public identity shape resolved for presentation.
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Status   string `json:"status"`
	Role     string `json:"role"`
}

// UserStore resolves user identities. A missing user yields (nil, nil):
// orphaned creator references are expected after account deletion and are
// not errors.
type UserStore interface {
	GetByID(ctx context.Context, userID string) (*UserSummary, error)
}
