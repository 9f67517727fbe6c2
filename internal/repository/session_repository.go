package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
)

// ErrSessionNotFound is returned for unknown, expired or revoked sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository keeps signed-in sessions in Redis until they expire or are revoked.
type SessionRepository struct {
	client *redis.Client
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Save stores the session with a TTL matching its expiry.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("save session %s: already expired", session.ID)
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Get returns a live session.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete revokes a session. Unknown ids are ignored.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// SignInLimiter counts failed sign-ins per email inside a fixed window.
type SignInLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewSignInLimiter constructs the limiter.
func NewSignInLimiter(client *redis.Client, maxAttempts int, window time.Duration) *SignInLimiter {
	return &SignInLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

func signInKey(email string) string {
	return "signin_attempts:" + strings.ToLower(strings.TrimSpace(email))
}

// Allowed reports whether another sign-in attempt may be made for email.
func (l *SignInLimiter) Allowed(ctx context.Context, email string) (bool, error) {
	if l.client == nil || l.maxAttempts <= 0 {
		return true, nil
	}
	count, err := l.client.Get(ctx, signInKey(email)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("redis get sign-in attempts: %w", err)
	}
	return count < l.maxAttempts, nil
}

// RecordFailure increments the counter, starting the window on the first failure.
func (l *SignInLimiter) RecordFailure(ctx context.Context, email string) error {
	if l.client == nil {
		return nil
	}
	key := signInKey(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis incr sign-in attempts: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("redis expire sign-in attempts: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful sign-in.
func (l *SignInLimiter) Reset(ctx context.Context, email string) error {
	if l.client == nil {
		return nil
	}
	if err := l.client.Del(ctx, signInKey(email)).Err(); err != nil {
		return fmt.Errorf("redis delete sign-in attempts: %w", err)
	}
	return nil
}
