package prefs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, 0)
}

func TestRedisStore_ProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

	p, err := store.Profile(ctx, "v1")
	require.NoError(t, err)
	assert.Nil(t, p, "absent profile is nil, not an error")

	want := Profile{Name: "Анастасия", Phone: "79001234567", Email: "a@example.com"}
	require.NoError(t, store.SaveProfile(ctx, "v1", want))

	p, err = store.Profile(ctx, "v1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, want, *p)
}

func TestRedisStore_ThemeDefaultsToLight(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

	theme, err := store.Theme(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	require.NoError(t, store.SaveTheme(ctx, "v1", ThemeDark))
	theme, err = store.Theme(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)
}

func TestRedisStore_SearchPhone(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

	phone, err := store.SearchPhone(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, phone)

	require.NoError(t, store.SaveSearchPhone(ctx, "v1", "+7 (900) 123-45-67"))
	phone, err = store.SearchPhone(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "+7 (900) 123-45-67", phone)
}

func TestRedisStore_WelcomeDismissal(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

	at, err := store.WelcomeDismissedAt(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, at.IsZero())

	dismissed := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.MarkWelcomeDismissed(ctx, "v1", dismissed))

	at, err = store.WelcomeDismissedAt(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, at.Equal(dismissed))
}

func TestRedisStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

	require.NoError(t, store.SaveProfile(ctx, "v1", Profile{Name: "Мария", Phone: "79001112233"}))
	require.NoError(t, store.SaveTheme(ctx, "v1", ThemeDark))
	require.NoError(t, store.Clear(ctx, "v1"))

	p, err := store.Profile(ctx, "v1")
	require.NoError(t, err)
	assert.Nil(t, p)

	theme, err := store.Theme(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)
}

func TestMemoryStore_MatchesRedisSemantics(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p, err := store.Profile(ctx, "v1")
	require.NoError(t, err)
	assert.Nil(t, p)

	theme, err := store.Theme(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	require.NoError(t, store.SaveProfile(ctx, "v1", Profile{Name: "Ольга", Phone: "79005556677"}))
	require.NoError(t, store.SaveSearchPhone(ctx, "v1", "+7 (900) 555-66-77"))

	p, err = store.Profile(ctx, "v1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ольга", p.Name)

	require.NoError(t, store.Clear(ctx, "v1"))
	p, err = store.Profile(ctx, "v1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestShouldShowWelcome(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, ShouldShowWelcome(time.Time{}, now), "first visit")
	assert.False(t, ShouldShowWelcome(now.Add(-24*time.Hour), now), "dismissed yesterday")
	assert.False(t, ShouldShowWelcome(now.Add(-WelcomeReshowAfter), now), "exactly at the boundary")
	assert.True(t, ShouldShowWelcome(now.Add(-WelcomeReshowAfter-time.Minute), now), "past the re-show window")
}
