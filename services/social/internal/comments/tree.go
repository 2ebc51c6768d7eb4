package comments

import (
	"context"

	"github.com/example/social-platform/services/social/internal/store"
)

// FullTree materializes every comment tree under a post, newest first at
// each level independently.
func (s *Service) FullTree(ctx context.Context, postID string) ([]*CommentView, error) {
	roots, err := s.comments.FindTopLevel(ctx, postID, 0, 0)
	if err != nil {
		return nil, wrapStore(err, "find top-level comments")
	}
	return s.materialize(ctx, roots)
}

// Subtree materializes one comment with its whole reply tree. Used for
// "show replies" expansion.
func (s *Service) Subtree(ctx context.Context, commentID string) (*CommentView, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, wrapStore(err, "comment")
	}
	views, err := s.materialize(ctx, []store.Comment{c})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// materialize expands the given roots breadth-first with an explicit
// frontier, never recursing, so stack depth stays constant however deep
// the thread goes. Levels below maxDepth are truncated: their nodes still
// report the true immediate-child count but carry no expanded replies.
func (s *Service) materialize(ctx context.Context, roots []store.Comment) ([]*CommentView, error) {
	type item struct {
		c      store.Comment
		parent *CommentView // nil for roots
	}

	out := make([]*CommentView, 0, len(roots))
	seen := make(map[string]bool, len(roots))

	frontier := make([]item, 0, len(roots))
	for _, r := range roots {
		frontier = append(frontier, item{c: r})
	}

	for depth := 0; len(frontier) > 0; depth++ {
		batch := make([]store.Comment, len(frontier))
		for i, it := range frontier {
			batch[i] = it.c
		}
		creators, err := s.mapper.Creators(ctx, batch)
		if err != nil {
			return nil, err
		}

		var next []item
		for _, it := range frontier {
			// The forest invariant rules out cycles; the guard keeps a
			// corrupted store from hanging the walk.
			if seen[it.c.ID] {
				continue
			}
			seen[it.c.ID] = true

			var children []store.Comment
			childCount := 0
			if depth < s.maxDepth {
				children, err = s.comments.FindReplies(ctx, it.c.ID, 0, 0)
				if err != nil {
					return nil, wrapStore(err, "find replies")
				}
				childCount = len(children)
			} else {
				childCount, err = s.comments.CountReplies(ctx, it.c.ID)
				if err != nil {
					return nil, wrapStore(err, "count replies")
				}
			}

			v := s.mapper.View(it.c, creators[it.c.CreatorID], childCount)
			if it.parent == nil {
				out = append(out, v)
			} else {
				it.parent.Replies = append(it.parent.Replies, v)
			}
			for _, child := range children {
				next = append(next, item{c: child, parent: v})
			}
		}
		frontier = next
	}
	return out, nil
}
