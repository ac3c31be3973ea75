package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	games []models.GameResult
	err   error
	calls int
}

func (f *countingFetcher) FetchSchedule(ctx context.Context, date time.Time) ([]models.GameResult, error) {
	f.calls++
	return f.games, f.err
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	store.now = fixedNow(now)

	var out []int
	assert.ErrorIs(t, store.GetJSON(ctx, "missing", &out), ErrCacheMiss)

	require.NoError(t, store.SetJSON(ctx, "k", []int{1, 2, 3}, time.Hour))
	require.NoError(t, store.GetJSON(ctx, "k", &out))
	assert.Equal(t, []int{1, 2, 3}, out)

	store.now = fixedNow(now.Add(2 * time.Hour))
	assert.ErrorIs(t, store.GetJSON(ctx, "k", &out), ErrCacheMiss, "expired entries miss")

	require.NoError(t, store.SetJSON(ctx, "forever", "x", 0))
	store.now = fixedNow(now.Add(24 * 365 * time.Hour))
	var s string
	require.NoError(t, store.GetJSON(ctx, "forever", &s))
	assert.Equal(t, "x", s)
}

func TestCachedSchedule_SettledDaysHitCache(t *testing.T) {
	ctx := context.Background()
	home, away := 5, 2
	next := &countingFetcher{games: []models.GameResult{{
		GameID: 1, Status: models.StatusFinal, GameType: models.GameTypeRegular,
		HomeTeam: "Chicago Cubs", AwayTeam: "Cincinnati Reds", HomeScore: &home, AwayScore: &away,
	}}}

	cached := NewCachedSchedule(next, NewMemoryStore(), time.Hour)
	cached.now = fixedNow(time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC))
	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	first, err := cached.FetchSchedule(ctx, day)
	require.NoError(t, err)
	second, err := cached.FetchSchedule(ctx, day)
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, 5, *second[0].HomeScore)
}

func TestCachedSchedule_RecentDaysBypassCache(t *testing.T) {
	ctx := context.Background()
	next := &countingFetcher{}
	store := NewMemoryStore()

	cached := NewCachedSchedule(next, store, time.Hour)
	cached.now = fixedNow(time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC))
	yesterday := time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)

	_, err := cached.FetchSchedule(ctx, yesterday)
	require.NoError(t, err)
	_, err = cached.FetchSchedule(ctx, yesterday)
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
	assert.Zero(t, store.Len())
}

func TestCachedSchedule_EmptyDayIsCached(t *testing.T) {
	ctx := context.Background()
	next := &countingFetcher{}

	cached := NewCachedSchedule(next, NewMemoryStore(), time.Hour)
	cached.now = fixedNow(time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC))
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		games, err := cached.FetchSchedule(ctx, day)
		require.NoError(t, err)
		assert.Empty(t, games)
	}
	assert.Equal(t, 1, next.calls)
}

func TestCachedSchedule_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	next := &countingFetcher{err: errors.New("timeout")}
	store := NewMemoryStore()

	cached := NewCachedSchedule(next, store, time.Hour)
	cached.now = fixedNow(time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC))

	_, err := cached.FetchSchedule(ctx, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	assert.Error(t, err)
	assert.Zero(t, store.Len())
}
