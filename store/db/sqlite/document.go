package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/workbenchhq/workbench/store"
)

// ErrSQLiteVectorNotSupported is returned when vector features are requested
// on SQLite. The chat pipeline treats it as a fallback-retrieval trigger.
var ErrSQLiteVectorNotSupported = errors.New("vector search requires PostgreSQL with pgvector extension")

// CreateDocument creates a document.
func (d *DB) CreateDocument(ctx context.Context, create *store.Document) (*store.Document, error) {
	stmt := `
		INSERT INTO document (uid, tenant_id, title, content, summary, created_ts, updated_ts)
		VALUES (` + placeholders(7) + `)
		RETURNING id
	`
	err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.TenantID,
		create.Title,
		create.Content,
		create.Summary,
		create.CreatedTs,
		create.UpdatedTs,
	).Scan(&create.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create document")
	}
	return create, nil
}

// ListDocuments lists documents ordered by creation time descending.
func (d *DB) ListDocuments(ctx context.Context, find *store.FindDocument) ([]*store.Document, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.TenantID != nil {
		where, args = append(where, "tenant_id = ?"), append(args, *find.TenantID)
	}

	query := `
		SELECT id, uid, tenant_id, title, content, summary, created_ts, updated_ts
		FROM document
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	if find.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}
	defer rows.Close()

	list := []*store.Document{}
	for rows.Next() {
		var doc store.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.UID,
			&doc.TenantID,
			&doc.Title,
			&doc.Content,
			&doc.Summary,
			&doc.CreatedTs,
			&doc.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan document")
		}
		list = append(list, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// UpsertDocumentEmbedding is NOT supported for SQLite.
// Vector storage requires PostgreSQL with the pgvector extension.
func (d *DB) UpsertDocumentEmbedding(_ context.Context, _ *store.DocumentEmbedding) (*store.DocumentEmbedding, error) {
	return nil, ErrSQLiteVectorNotSupported
}

// VectorSearch is NOT supported for SQLite.
func (d *DB) VectorSearch(_ context.Context, _ *store.VectorSearchOptions) ([]*store.DocumentWithScore, error) {
	return nil, ErrSQLiteVectorNotSupported
}
