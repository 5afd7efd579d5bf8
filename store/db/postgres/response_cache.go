package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/workbenchhq/workbench/store"
)

// GetCachedResponse returns the live cached response for the key triple.
// Expired entries are filtered out here; they are never served.
func (d *DB) GetCachedResponse(ctx context.Context, find *store.FindCachedResponse) (*store.CachedResponse, error) {
	query := `
		SELECT id, tenant_id, query_hash, context_hash, answer, citations,
			tokens_used, model, expires_at, created_ts, updated_ts
		FROM response_cache
		WHERE tenant_id = $1 AND query_hash = $2 AND context_hash = $3 AND expires_at > $4
	`
	var cached store.CachedResponse
	var citations string
	err := d.db.QueryRowContext(ctx, query,
		find.TenantID,
		find.QueryHash,
		find.ContextHash,
		find.Now,
	).Scan(
		&cached.ID,
		&cached.TenantID,
		&cached.QueryHash,
		&cached.ContextHash,
		&cached.Answer,
		&citations,
		&cached.TokensUsed,
		&cached.Model,
		&cached.ExpiresAt,
		&cached.CreatedTs,
		&cached.UpdatedTs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cached response")
	}
	if err := json.Unmarshal([]byte(citations), &cached.Citations); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal cached citations")
	}
	return &cached, nil
}

// UpsertCachedResponse inserts or replaces the cache entry for the key
// triple. Concurrent writers on the same key are last-writer-wins.
func (d *DB) UpsertCachedResponse(ctx context.Context, upsert *store.CachedResponse) (*store.CachedResponse, error) {
	citations, err := json.Marshal(upsert.Citations)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal citations")
	}
	if upsert.Citations == nil {
		citations = []byte("[]")
	}

	stmt := `
		INSERT INTO response_cache (tenant_id, query_hash, context_hash, answer,
			citations, tokens_used, model, expires_at, created_ts, updated_ts)
		VALUES (` + placeholders(10) + `)
		ON CONFLICT (tenant_id, query_hash, context_hash)
		DO UPDATE SET
			answer = EXCLUDED.answer,
			citations = EXCLUDED.citations,
			tokens_used = EXCLUDED.tokens_used,
			model = EXCLUDED.model,
			expires_at = EXCLUDED.expires_at,
			updated_ts = EXCLUDED.updated_ts
		RETURNING id, created_ts, updated_ts
	`
	err = d.db.QueryRowContext(ctx, stmt,
		upsert.TenantID,
		upsert.QueryHash,
		upsert.ContextHash,
		upsert.Answer,
		string(citations),
		upsert.TokensUsed,
		upsert.Model,
		upsert.ExpiresAt,
		upsert.CreatedTs,
		upsert.UpdatedTs,
	).Scan(&upsert.ID, &upsert.CreatedTs, &upsert.UpdatedTs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert cached response")
	}
	return upsert, nil
}
