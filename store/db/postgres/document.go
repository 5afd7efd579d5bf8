package postgres

import (
	"context"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/workbenchhq/workbench/store"
)

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
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.TenantID != nil {
		where, args = append(where, "tenant_id = "+placeholder(len(args)+1)), append(args, *find.TenantID)
	}

	query := `
		SELECT id, uid, tenant_id, title, content, summary, created_ts, updated_ts
		FROM document
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	if find.Limit > 0 {
		query += " LIMIT " + placeholder(len(args)+1)
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

// UpsertDocumentEmbedding inserts or updates a document embedding.
func (d *DB) UpsertDocumentEmbedding(ctx context.Context, embedding *store.DocumentEmbedding) (*store.DocumentEmbedding, error) {
	stmt := `
		INSERT INTO document_embedding (document_id, embedding, model, created_ts, updated_ts)
		VALUES (` + placeholders(5) + `)
		ON CONFLICT (document_id, model)
		DO UPDATE SET
			embedding = EXCLUDED.embedding,
			updated_ts = EXCLUDED.updated_ts
		RETURNING id, created_ts, updated_ts
	`
	vector := pgvector.NewVector(embedding.Embedding)
	err := d.db.QueryRowContext(ctx, stmt,
		embedding.DocumentID,
		vector,
		embedding.Model,
		embedding.CreatedTs,
		embedding.UpdatedTs,
	).Scan(&embedding.ID, &embedding.CreatedTs, &embedding.UpdatedTs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert document embedding")
	}
	return embedding, nil
}

// VectorSearch performs vector similarity search using pgvector, joined
// back to the parent document.
func (d *DB) VectorSearch(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.DocumentWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 5
	}

	// The <=> operator computes cosine distance (1 - cosine_similarity).
	query := `
		SELECT
			doc.id, doc.uid, doc.tenant_id, doc.title, doc.content, doc.summary,
			doc.created_ts, doc.updated_ts,
			1 - (de.embedding <=> $1) AS score
		FROM document_embedding de
		JOIN document doc ON doc.id = de.document_id
		WHERE doc.tenant_id = $2
		ORDER BY de.embedding <=> $1
		LIMIT $3
	`

	vector := pgvector.NewVector(opts.Vector)
	rows, err := d.db.QueryContext(ctx, query, vector, opts.TenantID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to vector search")
	}
	defer rows.Close()

	results := []*store.DocumentWithScore{}
	for rows.Next() {
		var doc store.Document
		var score float32
		if err := rows.Scan(
			&doc.ID,
			&doc.UID,
			&doc.TenantID,
			&doc.Title,
			&doc.Content,
			&doc.Summary,
			&doc.CreatedTs,
			&doc.UpdatedTs,
			&score,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan vector search result")
		}
		results = append(results, &store.DocumentWithScore{
			Document: &doc,
			Score:    score,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
