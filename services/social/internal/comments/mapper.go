package comments

import (
	"context"
	"time"

	"github.com/example/social-platform/services/social/internal/store"
)

// UserView is the creator identity attached to every returned comment.
// All fields serialize as strings; none is ever absent.
type UserView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Status   string `json:"status"`
	Role     string `json:"role"`
}

// DeletedUser stands in for creators whose account no longer resolves.
// Orphaned references degrade to it instead of failing the read.
var DeletedUser = UserView{Name: "Deleted User"}

// CommentView is the stable output shape for a comment on every read and
// write path. Replies is always non-nil; it stays empty on paginated
// reads, which never recurse.
type CommentView struct {
	ID           string         `json:"id"`
	PostID       string         `json:"post_id"`
	ParentID     string         `json:"parent_id,omitempty"`
	Content      string         `json:"content"`
	Creator      UserView       `json:"creator"`
	LikesCount   int            `json:"likes_count"`
	RepliesCount int            `json:"replies_count"`
	Replies      []*CommentView `json:"replies"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

// Mapper normalizes raw records into CommentViews. Every caller goes
// through it, so default substitution and orphan handling are uniform.
type Mapper struct {
	users store.UserStore
}

func NewMapper(users store.UserStore) *Mapper {
	return &Mapper{users: users}
}

// Creators resolves the deduplicated creator set of a comment batch.
// Unresolvable creators map to DeletedUser.
func (m *Mapper) Creators(ctx context.Context, batch []store.Comment) (map[string]UserView, error) {
	out := make(map[string]UserView, len(batch))
	for _, c := range batch {
		if _, done := out[c.CreatorID]; done {
			continue
		}
		u, err := m.users.GetByID(ctx, c.CreatorID)
		if err != nil {
			return nil, wrapStore(err, "resolve creator")
		}
		if u == nil {
			out[c.CreatorID] = DeletedUser
			continue
		}
		out[c.CreatorID] = UserView{
			ID:       u.ID,
			Name:     u.Name,
			Username: u.Username,
			Email:    u.Email,
			Avatar:   u.Avatar,
			Status:   u.Status,
			Role:     u.Role,
		}
	}
	return out, nil
}

// View builds the output node for one record. repliesCount is the
// immediate-child count supplied by the caller's read path.
func (m *Mapper) View(c store.Comment, creator UserView, repliesCount int) *CommentView {
	v := &CommentView{
		ID:           c.ID,
		PostID:       c.PostID,
		Content:      c.Content,
		Creator:      creator,
		LikesCount:   len(c.LikedBy),
		RepliesCount: repliesCount,
		Replies:      []*CommentView{},
		CreatedAt:    formatTime(c.CreatedAt),
		UpdatedAt:    formatTime(c.UpdatedAt),
	}
	if c.ParentID != nil {
		v.ParentID = *c.ParentID
	}
	return v
}

// view resolves the creator for a single record and maps it.
func (m *Mapper) view(ctx context.Context, c store.Comment, repliesCount int) (*CommentView, error) {
	creators, err := m.Creators(ctx, []store.Comment{c})
	if err != nil {
		return nil, err
	}
	return m.View(c, creators[c.CreatorID], repliesCount), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
