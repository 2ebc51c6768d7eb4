package store

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InMemoryUserStore holds user summaries for development and tests.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]UserSummary
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]UserSummary)}
}

// Put registers or replaces a user summary.
func (s *InMemoryUserStore) Put(u UserSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// Remove drops a user, simulating account deletion.
func (s *InMemoryUserStore) Remove(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}

func (s *InMemoryUserStore) GetByID(_ context.Context, userID string) (*UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	out := u
	return &out, nil
}

// PostgresUserStore reads the users table owned by the accounts service.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (s *PostgresUserStore) GetByID(ctx context.Context, userID string) (*UserSummary, error) {
	var u UserSummary
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, username, email, coalesce(avatar, ''), coalesce(status, ''), coalesce(role, '')
		 FROM users WHERE id = $1`, userID).
		Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Avatar, &u.Status, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
