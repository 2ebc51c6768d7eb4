package comments

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/social-platform/internal/platform/events"
)

// Delete removes a comment and every transitive descendant. Collection
// walks the tree breadth-first, visiting each node once; the whole id set
// then goes to the store as one bulk delete, so a failure before that
// point leaves the tree unmodified.
func (s *Service) Delete(ctx context.Context, commentID, requesterID string) error {
	if strings.TrimSpace(requesterID) == "" {
		return fmt.Errorf("requester: %w", ErrForbidden)
	}

	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return wrapStore(err, "comment")
	}
	if c.CreatorID != requesterID {
		return fmt.Errorf("only the creator may delete: %w", ErrForbidden)
	}

	ids, err := s.collectSubtreeIDs(ctx, commentID)
	if err != nil {
		return err
	}

	if err := s.comments.DeleteByIDs(ctx, ids); err != nil {
		return wrapStore(err, "delete subtree")
	}

	s.events.Publish(events.SubjectCommentDeleted, "comment_deleted", requesterID, map[string]any{
		"comment_id": commentID,
		"post_id":    c.PostID,
		"removed":    len(ids),
	})
	s.log.Info("comment subtree deleted",
		zap.String("comment_id", commentID),
		zap.String("post_id", c.PostID),
		zap.Int("removed", len(ids)))
	return nil
}

// collectSubtreeIDs returns the root id plus all transitive descendant
// ids. Termination is guaranteed by the forest invariant; the seen set
// additionally shields the walk from corrupted parent pointers.
func (s *Service) collectSubtreeIDs(ctx context.Context, rootID string) ([]string, error) {
	ids := []string{rootID}
	seen := map[string]bool{rootID: true}

	frontier := []string{rootID}
	for len(frontier) > 0 {
		var next []string
		for _, id := range frontier {
			children, err := s.comments.FindReplies(ctx, id, 0, 0)
			if err != nil {
				return nil, wrapStore(err, "find replies")
			}
			for _, child := range children {
				if seen[child.ID] {
					continue
				}
				seen[child.ID] = true
				ids = append(ids, child.ID)
				next = append(next, child.ID)
			}
		}
		frontier = next
	}
	return ids, nil
}
