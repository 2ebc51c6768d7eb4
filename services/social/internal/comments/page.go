package comments

import (
	"context"
)

// Page is one window of a single tree level.
type Page struct {
	Items   []*CommentView
	Total   int
	HasMore bool
}

// ListComments returns one page of a post's top-level comments, each with
// its reply tree expanded.
func (s *Service) ListComments(ctx context.Context, postID string, page, limit int) (Page, error) {
	page, limit, skip := s.window(page, limit)

	roots, err := s.comments.FindTopLevel(ctx, postID, skip, limit)
	if err != nil {
		return Page{}, wrapStore(err, "find top-level comments")
	}
	total, err := s.comments.CountTopLevel(ctx, postID)
	if err != nil {
		return Page{}, wrapStore(err, "count top-level comments")
	}

	items, err := s.materialize(ctx, roots)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Total: total, HasMore: page*limit < total}, nil
}

// ListReplies returns one page of a comment's direct replies as leaf
// nodes: replies_count is still the immediate-child count, but nothing is
// recursed into. Deliberately a different path from tree materialization,
// trading completeness for bounded cost on wide or deep threads.
func (s *Service) ListReplies(ctx context.Context, commentID string, page, limit int) (Page, error) {
	page, limit, skip := s.window(page, limit)

	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return Page{}, wrapStore(err, "comment")
	}

	replies, err := s.comments.FindReplies(ctx, commentID, skip, limit)
	if err != nil {
		return Page{}, wrapStore(err, "find replies")
	}
	total, err := s.comments.CountReplies(ctx, commentID)
	if err != nil {
		return Page{}, wrapStore(err, "count replies")
	}

	creators, err := s.mapper.Creators(ctx, replies)
	if err != nil {
		return Page{}, err
	}
	items := make([]*CommentView, 0, len(replies))
	for _, r := range replies {
		n, err := s.comments.CountReplies(ctx, r.ID)
		if err != nil {
			return Page{}, wrapStore(err, "count replies")
		}
		items = append(items, s.mapper.View(r, creators[r.CreatorID], n))
	}
	return Page{Items: items, Total: total, HasMore: page*limit < total}, nil
}

// window normalizes pagination input: 1-based page, default page size.
func (s *Service) window(page, limit int) (p, l, skip int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return page, limit, (page - 1) * limit
}
