package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const adminSessionPrefix = "admin_sessions:"

var ErrAdminSessionNotFound = errors.New("admin session not found")

// AdminSessionRepo stores moderator sessions keyed by SID. Each read
// slides the idle TTL forward, so a session survives as long as the
// moderator keeps working.
type AdminSessionRepo struct {
	client *goredis.Client
}

func NewAdminSessionRepo(client *goredis.Client) *AdminSessionRepo {
	return &AdminSessionRepo{client: client}
}

func (r *AdminSessionRepo) Create(ctx context.Context, sid, username string, idle time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(sid) == "" || strings.TrimSpace(username) == "" || idle <= 0 {
		return fmt.Errorf("invalid admin session payload")
	}

	if err := r.client.Set(ctx, adminSessionKey(sid), username, idle).Err(); err != nil {
		return fmt.Errorf("create admin session: %w", err)
	}
	return nil
}

// Touch returns the session owner and extends the idle window.
func (r *AdminSessionRepo) Touch(ctx context.Context, sid string, idle time.Duration) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(sid) == "" {
		return "", ErrAdminSessionNotFound
	}

	username, err := r.client.GetEx(ctx, adminSessionKey(sid), idle).Result()
	if err == goredis.Nil {
		return "", ErrAdminSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("touch admin session: %w", err)
	}
	return username, nil
}

func (r *AdminSessionRepo) Delete(ctx context.Context, sid string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(sid) == "" {
		return nil
	}

	if err := r.client.Del(ctx, adminSessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("delete admin session: %w", err)
	}
	return nil
}

func adminSessionKey(sid string) string {
	return adminSessionPrefix + sid
}
