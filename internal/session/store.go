// Package session keeps the bearer token of each chat. Possession of a
// token is the only authentication signal; the token itself is opaque and
// its expiry is discovered reactively when the backend answers 401.
package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a store. ttl = 0 keeps tokens until logout.
func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(chatID int64) string {
	return keyPrefix + strconv.FormatInt(chatID, 10)
}

// Token returns the stored token or "" when the chat has none.
func (s *Store) Token(ctx context.Context, chatID int64) (string, error) {
	v, err := s.client.Get(ctx, s.key(chatID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: get: %w", err)
	}
	return v, nil
}

// IsAuthenticated reports whether any token is stored for the chat. The
// token is not validated here.
func (s *Store) IsAuthenticated(ctx context.Context, chatID int64) bool {
	t, err := s.Token(ctx, chatID)
	return err == nil && t != ""
}

func (s *Store) Set(ctx context.Context, chatID int64, token string) error {
	if err := s.client.Set(ctx, s.key(chatID), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, s.key(chatID)).Err(); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}
