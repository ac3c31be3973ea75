package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zackcline/fantasy-baseball-tracker/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	latestStandingsKey = "standings:latest"
	standingsStream    = "standings.updates"
	streamMaxLen       = 1000
)

// StandingsPublisher keeps the latest checkpoint in Redis and appends every
// snapshot to a stream for downstream consumers
type StandingsPublisher struct {
	client *redis.Client
}

// NewStandingsPublisher creates a publisher from an existing client
func NewStandingsPublisher(client *redis.Client) *StandingsPublisher {
	return &StandingsPublisher{client: client}
}

// Publish writes snap to the stream, and to the latest key when it is the checkpoint
func (p *StandingsPublisher) Publish(ctx context.Context, snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if snap.Kind == models.KindCheckpoint {
		if err := p.client.Set(ctx, latestStandingsKey, data, 0).Err(); err != nil {
			return fmt.Errorf("failed to set latest standings: %w", err)
		}
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: standingsStream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"kind":      string(snap.Kind),
			"label":     snap.Label,
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}

// Latest returns the last published checkpoint
func (p *StandingsPublisher) Latest(ctx context.Context) (*models.Snapshot, error) {
	val, err := p.client.Get(ctx, latestStandingsKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal latest standings: %w", err)
	}
	return &snap, nil
}
