package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCommentStore persists comments in Postgres.
//
// Schema:
//
//	CREATE TABLE comments (
//	    id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
//	    post_id    text NOT NULL,
//	    creator_id text NOT NULL,
//	    parent_id  uuid REFERENCES comments(id),
//	    content    text NOT NULL,
//	    liked_by   text[] NOT NULL DEFAULT '{}',
//	    created_at timestamptz NOT NULL DEFAULT now(),
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE INDEX comments_post_toplevel_idx ON comments (post_id, created_at DESC) WHERE parent_id IS NULL;
//	CREATE INDEX comments_parent_idx ON comments (parent_id, created_at DESC);
type PostgresCommentStore struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentStore(pool *pgxpool.Pool) *PostgresCommentStore {
	return &PostgresCommentStore{pool: pool}
}

const commentCols = `id, post_id, creator_id, parent_id, content, liked_by, created_at, updated_at`

func scanComment(row pgx.Row) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.PostID, &c.CreatorID, &c.ParentID,
		&c.Content, &c.LikedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Comment{}, ErrNoComment
	}
	if err != nil {
		return Comment{}, err
	}
	if c.LikedBy == nil {
		c.LikedBy = []string{}
	}
	return c, nil
}

func (s *PostgresCommentStore) Insert(ctx context.Context, c Comment) (Comment, error) {
	q := `INSERT INTO comments (post_id, creator_id, parent_id, content)
	      VALUES ($1, $2, $3, $4)
	      RETURNING ` + commentCols
	return scanComment(s.pool.QueryRow(ctx, q, c.PostID, c.CreatorID, c.ParentID, c.Content))
}

func (s *PostgresCommentStore) GetByID(ctx context.Context, id string) (Comment, error) {
	q := `SELECT ` + commentCols + ` FROM comments WHERE id = $1`
	return scanComment(s.pool.QueryRow(ctx, q, id))
}

func (s *PostgresCommentStore) UpdateContent(ctx context.Context, id, content string) (Comment, error) {
	q := `UPDATE comments SET content = $2, updated_at = now()
	      WHERE id = $1
	      RETURNING ` + commentCols
	return scanComment(s.pool.QueryRow(ctx, q, id, content))
}

func (s *PostgresCommentStore) CountTopLevel(ctx context.Context, postID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM comments WHERE post_id = $1 AND parent_id IS NULL`, postID).Scan(&n)
	return n, err
}

func (s *PostgresCommentStore) FindTopLevel(ctx context.Context, postID string, skip, limit int) ([]Comment, error) {
	q := `SELECT ` + commentCols + `
	      FROM comments
	      WHERE post_id = $1 AND parent_id IS NULL
	      ORDER BY created_at DESC, id DESC
	      OFFSET $2`
	args := []any{postID, nonNegative(skip)}
	if limit > 0 {
		q += ` LIMIT $3`
		args = append(args, limit)
	}
	return s.scanComments(ctx, q, args...)
}

func (s *PostgresCommentStore) CountReplies(ctx context.Context, parentID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM comments WHERE parent_id = $1`, parentID).Scan(&n)
	return n, err
}

func (s *PostgresCommentStore) FindReplies(ctx context.Context, parentID string, skip, limit int) ([]Comment, error) {
	q := `SELECT ` + commentCols + `
	      FROM comments
	      WHERE parent_id = $1
	      ORDER BY created_at DESC, id DESC
	      OFFSET $2`
	args := []any{parentID, nonNegative(skip)}
	if limit > 0 {
		q += ` LIMIT $3`
		args = append(args, limit)
	}
	return s.scanComments(ctx, q, args...)
}

// DeleteByIDs removes the whole id set as one statement, so a collected
// subtree disappears atomically.
func (s *PostgresCommentStore) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("bulk delete %d comments: %w", len(ids), err)
	}
	return nil
}

// AddLike appends userID to liked_by as a single guarded update, the
// atomic add-to-set primitive. An already-present user leaves the row
// untouched.
func (s *PostgresCommentStore) AddLike(ctx context.Context, commentID, userID string) (Comment, error) {
	q := `UPDATE comments SET liked_by = array_append(liked_by, $2)
	      WHERE id = $1 AND NOT ($2 = ANY(liked_by))
	      RETURNING ` + commentCols
	c, err := scanComment(s.pool.QueryRow(ctx, q, commentID, userID))
	if errors.Is(err, ErrNoComment) {
		// Either the comment is gone or the user already liked it.
		return s.GetByID(ctx, commentID)
	}
	return c, err
}

// RemoveLike drops userID from liked_by; removing an absent user is a no-op.
func (s *PostgresCommentStore) RemoveLike(ctx context.Context, commentID, userID string) (Comment, error) {
	q := `UPDATE comments SET liked_by = array_remove(liked_by, $2)
	      WHERE id = $1
	      RETURNING ` + commentCols
	return scanComment(s.pool.QueryRow(ctx, q, commentID, userID))
}

func (s *PostgresCommentStore) scanComments(ctx context.Context, q string, args ...any) ([]Comment, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
