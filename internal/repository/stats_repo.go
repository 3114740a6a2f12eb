package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nsvirk/nsegateway/internal/models"
	"github.com/redis/go-redis/v9"
)

var StatsKey = "NSE:GATEWAY:STATS"
var DispatchChannel = "CH:NSE:GATEWAY:DISPATCH"

// StatsRepository keeps dispatch counters in a Redis hash and publishes each outcome
type StatsRepository struct {
	redisClient *redis.Client
}

// NewStatsRepository creates a new stats repository, redisClient may be nil
func NewStatsRepository(redisClient *redis.Client) *StatsRepository {
	return &StatsRepository{redisClient: redisClient}
}

// StatsField is the hash field counting dispatches of kind with outcome
func StatsField(kind, outcome string) string {
	return kind + ":" + outcome
}

// Record implements service.Recorder
func (r *StatsRepository) Record(ctx context.Context, o models.DispatchOutcome) error {
	if r.redisClient == nil {
		return nil
	}
	event, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch event: %v", err)
	}

	pipe := r.redisClient.TxPipeline()
	pipe.HIncrBy(ctx, StatsKey, StatsField(o.Kind, o.Outcome), 1)
	pipe.HIncrBy(ctx, StatsKey, "attempts", int64(o.Attempts))
	pipe.Publish(ctx, DispatchChannel, event)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record stats: %v", err)
	}
	return nil
}

// GetStats returns all counters, empty when Redis is not configured
func (r *StatsRepository) GetStats(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64)
	if r.redisClient == nil {
		return stats, nil
	}

	values, err := r.redisClient.HGetAll(ctx, StatsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %v", err)
	}
	for field, value := range values {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		stats[field] = n
	}
	return stats, nil
}
