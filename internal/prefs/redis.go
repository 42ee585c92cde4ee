package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps visitor preferences in Redis.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisStore creates a Redis-backed preference store. A zero ttl keeps
// entries until explicitly cleared.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: client, ttl: ttl}
}

func (s *RedisStore) key(visitorID, field string) string {
	return fmt.Sprintf("prefs:%s:%s", visitorID, field)
}

// Profile retrieves the remembered client profile, nil when absent.
func (s *RedisStore) Profile(ctx context.Context, visitorID string) (*Profile, error) {
	data, err := s.redis.Get(ctx, s.key(visitorID, "client")).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("prefs: get profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("prefs: unmarshal profile: %w", err)
	}
	return &p, nil
}

// SaveProfile overwrites the remembered client profile.
func (s *RedisStore) SaveProfile(ctx context.Context, visitorID string, p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("prefs: marshal profile: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(visitorID, "client"), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("prefs: set profile: %w", err)
	}
	return nil
}

// Theme retrieves the saved UI theme, defaulting to light.
func (s *RedisStore) Theme(ctx context.Context, visitorID string) (string, error) {
	theme, err := s.redis.Get(ctx, s.key(visitorID, "theme")).Result()
	if err == redis.Nil {
		return ThemeLight, nil
	}
	if err != nil {
		return "", fmt.Errorf("prefs: get theme: %w", err)
	}
	return theme, nil
}

// SaveTheme stores the UI theme.
func (s *RedisStore) SaveTheme(ctx context.Context, visitorID, theme string) error {
	if err := s.redis.Set(ctx, s.key(visitorID, "theme"), theme, s.ttl).Err(); err != nil {
		return fmt.Errorf("prefs: set theme: %w", err)
	}
	return nil
}

// SearchPhone retrieves the last my-bookings search phone.
func (s *RedisStore) SearchPhone(ctx context.Context, visitorID string) (string, error) {
	phone, err := s.redis.Get(ctx, s.key(visitorID, "search_phone")).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("prefs: get search phone: %w", err)
	}
	return phone, nil
}

// SaveSearchPhone stores the my-bookings search phone.
func (s *RedisStore) SaveSearchPhone(ctx context.Context, visitorID, phone string) error {
	if err := s.redis.Set(ctx, s.key(visitorID, "search_phone"), phone, s.ttl).Err(); err != nil {
		return fmt.Errorf("prefs: set search phone: %w", err)
	}
	return nil
}

// WelcomeDismissedAt retrieves the welcome-dialog dismissal time, zero when
// it was never dismissed.
func (s *RedisStore) WelcomeDismissedAt(ctx context.Context, visitorID string) (time.Time, error) {
	raw, err := s.redis.Get(ctx, s.key(visitorID, "welcome_at")).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("prefs: get welcome dismissal: %w", err)
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("prefs: parse welcome dismissal: %w", err)
	}
	return at, nil
}

// MarkWelcomeDismissed stores the welcome-dialog dismissal time.
func (s *RedisStore) MarkWelcomeDismissed(ctx context.Context, visitorID string, at time.Time) error {
	if err := s.redis.Set(ctx, s.key(visitorID, "welcome_at"), at.UTC().Format(time.RFC3339), s.ttl).Err(); err != nil {
		return fmt.Errorf("prefs: set welcome dismissal: %w", err)
	}
	return nil
}

// Clear forgets everything stored for the visitor.
func (s *RedisStore) Clear(ctx context.Context, visitorID string) error {
	keys := []string{
		s.key(visitorID, "client"),
		s.key(visitorID, "theme"),
		s.key(visitorID, "search_phone"),
		s.key(visitorID, "welcome_at"),
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("prefs: clear: %w", err)
	}
	return nil
}
