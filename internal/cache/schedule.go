package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/metrics"
	"github.com/zackcline/fantasy-baseball-tracker/internal/models"

	"github.com/rs/zerolog/log"
)

// settledAfter is how old a day must be before its schedule is treated as final.
// Late games and suspended-game updates can still change yesterday's results.
const settledAfter = 48 * time.Hour

// ScheduleFetcher returns the games on one calendar date
type ScheduleFetcher interface {
	FetchSchedule(ctx context.Context, date time.Time) ([]models.GameResult, error)
}

// CachedSchedule serves settled days from a Store and fetches everything else
type CachedSchedule struct {
	next  ScheduleFetcher
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewCachedSchedule wraps next with store
func NewCachedSchedule(next ScheduleFetcher, store Store, ttl time.Duration) *CachedSchedule {
	return &CachedSchedule{
		next:  next,
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// FetchSchedule implements ScheduleFetcher
func (c *CachedSchedule) FetchSchedule(ctx context.Context, date time.Time) ([]models.GameResult, error) {
	if !c.settled(date) {
		return c.next.FetchSchedule(ctx, date)
	}

	key := scheduleKey(date)

	var games []models.GameResult
	err := c.store.GetJSON(ctx, key, &games)
	switch {
	case err == nil:
		metrics.RecordCacheHit()
		return games, nil
	case !errors.Is(err, ErrCacheMiss):
		log.Warn().Err(err).Str("key", key).Msg("Schedule cache read failed, fetching")
	}
	metrics.RecordCacheMiss()

	games, err = c.next.FetchSchedule(ctx, date)
	if err != nil {
		return nil, err
	}

	if games == nil {
		games = []models.GameResult{}
	}
	if err := c.store.SetJSON(ctx, key, games, c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache schedule")
	}

	return games, nil
}

func (c *CachedSchedule) settled(date time.Time) bool {
	return c.now().Sub(date) >= settledAfter
}

func scheduleKey(date time.Time) string {
	return fmt.Sprintf("schedule:%s", date.Format("2006-01-02"))
}
