package store

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InMemoryPostStore tracks post ids for development and tests.
type InMemoryPostStore struct {
	mu    sync.RWMutex
	posts map[string]struct{}
}

func NewInMemoryPostStore() *InMemoryPostStore {
	return &InMemoryPostStore{posts: make(map[string]struct{})}
}

// Put registers a post id.
func (s *InMemoryPostStore) Put(postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[postID] = struct{}{}
}

func (s *InMemoryPostStore) Exists(_ context.Context, postID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.posts[postID]
	return ok, nil
}

// PostgresPostStore reads the posts table owned by the posts service.
type PostgresPostStore struct {
	pool *pgxpool.Pool
}

func NewPostgresPostStore(pool *pgxpool.Pool) *PostgresPostStore {
	return &PostgresPostStore{pool: pool}
}

func (s *PostgresPostStore) Exists(ctx context.Context, postID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists)
	return exists, err
}
