package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/ref-assign-api/internal/models"
)

const latestReportKey = "assigner:run_report:latest"

// ErrReportNotCached signals that no run report is currently cached.
var ErrReportNotCached = errors.New("run report not cached")

// RunReportCache keeps the most recent run report in Redis so report reads
// and exports do not rebuild it from assignment rows.
type RunReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRunReportCache constructs a RunReportCache.
func NewRunReportCache(client *redis.Client, ttl time.Duration) *RunReportCache {
	return &RunReportCache{client: client, ttl: ttl}
}

// SaveLatest stores the report under the latest key.
func (c *RunReportCache) SaveLatest(ctx context.Context, report *models.RunReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode run report: %w", err)
	}
	if err := c.client.Set(ctx, latestReportKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache run report: %w", err)
	}
	return nil
}

// Latest returns the cached report, or ErrReportNotCached when absent/expired.
func (c *RunReportCache) Latest(ctx context.Context) (*models.RunReport, error) {
	payload, err := c.client.Get(ctx, latestReportKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrReportNotCached
		}
		return nil, fmt.Errorf("read cached run report: %w", err)
	}
	var report models.RunReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("decode cached run report: %w", err)
	}
	return &report, nil
}
