package store

import "context"

// Document represents an indexed knowledge-base document of a workspace.
type Document struct {
	ID        int32
	UID       string
	TenantID  string
	Title     string
	Content   string
	Summary   string
	CreatedTs int64
	UpdatedTs int64
}

// FindDocument is the find condition for documents.
type FindDocument struct {
	ID       *int32
	UID      *string
	TenantID *string
	// Limit caps the number of returned rows. Zero means no limit.
	Limit int
}

// DocumentEmbedding represents the vector embedding of a document.
type DocumentEmbedding struct {
	ID         int32
	DocumentID int32
	Embedding  []float32
	Model      string
	CreatedTs  int64
	UpdatedTs  int64
}

// DocumentWithScore represents a vector search result with similarity score.
type DocumentWithScore struct {
	Document *Document
	Score    float32 // cosine similarity, 0-1, higher is more similar
}

// VectorSearchOptions represents the options for vector search.
type VectorSearchOptions struct {
	TenantID string    // Required, only search documents of this tenant
	Vector   []float32 // Query vector
	Limit    int       // Number of results to return, default 5
}

// CreateDocument creates a document.
func (s *Store) CreateDocument(ctx context.Context, create *Document) (*Document, error) {
	return s.driver.CreateDocument(ctx, create)
}

// ListDocuments lists documents ordered by creation time descending.
func (s *Store) ListDocuments(ctx context.Context, find *FindDocument) ([]*Document, error) {
	return s.driver.ListDocuments(ctx, find)
}

// UpsertDocumentEmbedding inserts or updates a document embedding.
func (s *Store) UpsertDocumentEmbedding(ctx context.Context, embedding *DocumentEmbedding) (*DocumentEmbedding, error) {
	return s.driver.UpsertDocumentEmbedding(ctx, embedding)
}

// VectorSearch performs vector similarity search over a tenant's documents.
func (s *Store) VectorSearch(ctx context.Context, opts *VectorSearchOptions) ([]*DocumentWithScore, error) {
	return s.driver.VectorSearch(ctx, opts)
}

// RecentDocuments returns the tenant's most recently created documents.
func (s *Store) RecentDocuments(ctx context.Context, tenantID string, limit int) ([]*Document, error) {
	return s.driver.ListDocuments(ctx, &FindDocument{
		TenantID: &tenantID,
		Limit:    limit,
	})
}
