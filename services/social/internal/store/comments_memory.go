package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryCommentStore is a development and test implementation. All
// mutations run under one mutex, so per-record atomicity holds trivially.
type InMemoryCommentStore struct {
	mu          sync.RWMutex
	comments    map[string]Comment
	lastCreated time.Time
}

func NewInMemoryCommentStore() *InMemoryCommentStore {
	return &InMemoryCommentStore{comments: make(map[string]Comment)}
}

// now returns a strictly increasing timestamp so created_at ordering is
// total even when inserts land within one clock tick.
func (s *InMemoryCommentStore) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.lastCreated) {
		t = s.lastCreated.Add(time.Nanosecond)
	}
	s.lastCreated = t
	return t
}

func copyComment(c Comment) Comment {
	liked := make([]string, len(c.LikedBy))
	copy(liked, c.LikedBy)
	c.LikedBy = liked
	return c
}

func (s *InMemoryCommentStore) Insert(_ context.Context, c Comment) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.New().String()
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	c.LikedBy = []string{}
	s.comments[c.ID] = c
	return copyComment(c), nil
}

func (s *InMemoryCommentStore) GetByID(_ context.Context, id string) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return Comment{}, ErrNoComment
	}
	return copyComment(c), nil
}

func (s *InMemoryCommentStore) UpdateContent(_ context.Context, id, content string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return Comment{}, ErrNoComment
	}
	c.Content = content
	c.UpdatedAt = time.Now().UTC()
	s.comments[id] = c
	return copyComment(c), nil
}

func (s *InMemoryCommentStore) matching(keep func(Comment) bool) []Comment {
	var out []Comment
	for _, c := range s.comments {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func window(all []Comment, skip, limit int) []Comment {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(all) {
		return []Comment{}
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]Comment, len(all))
	for i, c := range all {
		out[i] = copyComment(c)
	}
	return out
}

func (s *InMemoryCommentStore) CountTopLevel(_ context.Context, postID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.comments {
		if c.PostID == postID && c.ParentID == nil {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryCommentStore) FindTopLevel(_ context.Context, postID string, skip, limit int) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.matching(func(c Comment) bool {
		return c.PostID == postID && c.ParentID == nil
	})
	return window(all, skip, limit), nil
}

func (s *InMemoryCommentStore) CountReplies(_ context.Context, parentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryCommentStore) FindReplies(_ context.Context, parentID string, skip, limit int) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.matching(func(c Comment) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	})
	return window(all, skip, limit), nil
}

func (s *InMemoryCommentStore) DeleteByIDs(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.comments, id)
	}
	return nil
}

func (s *InMemoryCommentStore) AddLike(_ context.Context, commentID, userID string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return Comment{}, ErrNoComment
	}
	if !c.Liked(userID) {
		c.LikedBy = append(append([]string{}, c.LikedBy...), userID)
		s.comments[commentID] = c
	}
	return copyComment(c), nil
}

func (s *InMemoryCommentStore) RemoveLike(_ context.Context, commentID, userID string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return Comment{}, ErrNoComment
	}
	if c.Liked(userID) {
		liked := make([]string, 0, len(c.LikedBy))
		for _, u := range c.LikedBy {
			if u != userID {
				liked = append(liked, u)
			}
		}
		c.LikedBy = liked
		s.comments[commentID] = c
	}
	return copyComment(c), nil
}
