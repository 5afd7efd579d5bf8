package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate creates the latest schema if it does not exist yet.
	Migrate(ctx context.Context) error

	// Document model related methods.
	CreateDocument(ctx context.Context, create *Document) (*Document, error)
	ListDocuments(ctx context.Context, find *FindDocument) ([]*Document, error)

	// DocumentEmbedding model related methods.
	UpsertDocumentEmbedding(ctx context.Context, embedding *DocumentEmbedding) (*DocumentEmbedding, error)
	// VectorSearch performs semantic search using vector similarity,
	// joined back to the parent document. Drivers without a vector index
	// return an error; callers treat that as a fallback trigger.
	VectorSearch(ctx context.Context, opts *VectorSearchOptions) ([]*DocumentWithScore, error)

	// Alert model related methods.
	CreateAlert(ctx context.Context, create *Alert) (*Alert, error)
	ListAlerts(ctx context.Context, find *FindAlert) ([]*Alert, error)

	// ChatSession model related methods.
	CreateChatSession(ctx context.Context, create *ChatSession) (*ChatSession, error)
	ListChatSessions(ctx context.Context, find *FindChatSession) ([]*ChatSession, error)
	UpdateChatSession(ctx context.Context, update *UpdateChatSession) (*ChatSession, error)
	DeleteChatSession(ctx context.Context, delete *DeleteChatSession) error

	// ChatMessage model related methods. Message pairs are appended in a
	// single transaction.
	CreateChatMessagePair(ctx context.Context, userMsg, assistantMsg *ChatMessage) ([]*ChatMessage, error)
	ListChatMessages(ctx context.Context, find *FindChatMessage) ([]*ChatMessage, error)

	// CachedResponse model related methods.
	GetCachedResponse(ctx context.Context, find *FindCachedResponse) (*CachedResponse, error)
	UpsertCachedResponse(ctx context.Context, upsert *CachedResponse) (*CachedResponse, error)

	// UsageLog model related methods.
	CreateUsageLog(ctx context.Context, create *UsageLog) (*UsageLog, error)
	ListUsageLogs(ctx context.Context, find *FindUsageLog) ([]*UsageLog, error)
}
