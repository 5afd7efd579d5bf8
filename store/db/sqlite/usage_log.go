package sqlite

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/workbenchhq/workbench/store"
)

// CreateUsageLog records a usage event.
func (d *DB) CreateUsageLog(ctx context.Context, create *store.UsageLog) (*store.UsageLog, error) {
	citedTitles, err := json.Marshal(create.CitedTitles)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal cited titles")
	}
	if create.CitedTitles == nil {
		citedTitles = []byte("[]")
	}

	stmt := `
		INSERT INTO usage_log (tenant_id, user_id, model, tokens_used, cited_titles, created_ts)
		VALUES (` + placeholders(6) + `)
		RETURNING id
	`
	err = d.db.QueryRowContext(ctx, stmt,
		create.TenantID,
		create.UserID,
		create.Model,
		create.TokensUsed,
		string(citedTitles),
		create.CreatedTs,
	).Scan(&create.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create usage log")
	}
	return create, nil
}

// ListUsageLogs lists usage events, most recent first.
func (d *DB) ListUsageLogs(ctx context.Context, find *store.FindUsageLog) ([]*store.UsageLog, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.TenantID != nil {
		where, args = append(where, "tenant_id = ?"), append(args, *find.TenantID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.Model != nil {
		where, args = append(where, "model = ?"), append(args, *find.Model)
	}

	query := `
		SELECT id, tenant_id, user_id, model, tokens_used, cited_titles, created_ts
		FROM usage_log
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	if find.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list usage logs")
	}
	defer rows.Close()

	list := []*store.UsageLog{}
	for rows.Next() {
		var log store.UsageLog
		var citedTitles string
		if err := rows.Scan(
			&log.ID,
			&log.TenantID,
			&log.UserID,
			&log.Model,
			&log.TokensUsed,
			&citedTitles,
			&log.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan usage log")
		}
		if err := json.Unmarshal([]byte(citedTitles), &log.CitedTitles); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal cited titles")
		}
		list = append(list, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
