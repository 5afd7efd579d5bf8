package store

import "context"

// UsageModelCache is the distinguished model label recorded for cache hits,
// so billing can tell replays from real generations.
const UsageModelCache = "cache"

// UsageLog records the token cost of one answered query.
type UsageLog struct {
	ID          int32
	TenantID    string
	UserID      string
	Model       string
	TokensUsed  int
	CitedTitles []string
	CreatedTs   int64
}

// FindUsageLog is the find condition for usage logs.
type FindUsageLog struct {
	TenantID *string
	UserID   *string
	Model    *string
	Limit    int
}

// CreateUsageLog records a usage event.
func (s *Store) CreateUsageLog(ctx context.Context, create *UsageLog) (*UsageLog, error) {
	return s.driver.CreateUsageLog(ctx, create)
}

// ListUsageLogs lists usage events, most recent first.
func (s *Store) ListUsageLogs(ctx context.Context, find *FindUsageLog) ([]*UsageLog, error) {
	return s.driver.ListUsageLogs(ctx, find)
}
