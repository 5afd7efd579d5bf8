package store

import "context"

// CachedResponse is a content-addressed cached chat answer.
//
// The key is the triple (tenant id, query hash, context hash). The context
// hash fingerprints which items were retrieved and how fresh they were, not
// their content, so an update to any underlying document or alert changes
// the key and bypasses the stale entry. At most one live entry exists per
// triple; writes are idempotent upserts.
type CachedResponse struct {
	ID          int32
	TenantID    string
	QueryHash   string
	ContextHash string
	Answer      string
	Citations   []*Citation
	TokensUsed  int
	Model       string
	ExpiresAt   int64
	CreatedTs   int64
	UpdatedTs   int64
}

// FindCachedResponse is the lookup key for a cached response.
type FindCachedResponse struct {
	TenantID    string
	QueryHash   string
	ContextHash string
	// Now is the current unix time; entries with ExpiresAt <= Now are
	// treated as absent. A stale entry must never be served.
	Now int64
}

// GetCachedResponse returns the live cached response for the key triple, or
// nil when there is no non-expired entry.
func (s *Store) GetCachedResponse(ctx context.Context, find *FindCachedResponse) (*CachedResponse, error) {
	return s.driver.GetCachedResponse(ctx, find)
}

// UpsertCachedResponse inserts or replaces the cache entry for the key
// triple. Concurrent identical writers are last-writer-wins, never an error.
func (s *Store) UpsertCachedResponse(ctx context.Context, upsert *CachedResponse) (*CachedResponse, error) {
	return s.driver.UpsertCachedResponse(ctx, upsert)
}
