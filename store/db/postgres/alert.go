package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/workbenchhq/workbench/store"
)

// CreateAlert creates an alert.
func (d *DB) CreateAlert(ctx context.Context, create *store.Alert) (*store.Alert, error) {
	stmt := `
		INSERT INTO alert (uid, tenant_id, title, description, severity, status, created_ts, updated_ts)
		VALUES (` + placeholders(8) + `)
		RETURNING id
	`
	err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.TenantID,
		create.Title,
		create.Description,
		create.Severity,
		create.Status,
		create.CreatedTs,
		create.UpdatedTs,
	).Scan(&create.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create alert")
	}
	return create, nil
}

// ListAlerts lists alerts ordered by update time descending.
func (d *DB) ListAlerts(ctx context.Context, find *store.FindAlert) ([]*store.Alert, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.TenantID != nil {
		where, args = append(where, "tenant_id = "+placeholder(len(args)+1)), append(args, *find.TenantID)
	}
	if find.Status != nil {
		where, args = append(where, "status = "+placeholder(len(args)+1)), append(args, *find.Status)
	}

	query := `
		SELECT id, uid, tenant_id, title, description, severity, status, created_ts, updated_ts
		FROM alert
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_ts DESC
	`
	if find.Limit > 0 {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list alerts")
	}
	defer rows.Close()

	list := []*store.Alert{}
	for rows.Next() {
		var alert store.Alert
		if err := rows.Scan(
			&alert.ID,
			&alert.UID,
			&alert.TenantID,
			&alert.Title,
			&alert.Description,
			&alert.Severity,
			&alert.Status,
			&alert.CreatedTs,
			&alert.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan alert")
		}
		list = append(list, &alert)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
