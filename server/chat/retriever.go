package chat

import (
	"context"
	"log/slog"

	"github.com/workbenchhq/workbench/internal/errors"
	"github.com/workbenchhq/workbench/internal/observability"
	"github.com/workbenchhq/workbench/plugin/ai"
	"github.com/workbenchhq/workbench/plugin/ai/timeout"
	"github.com/workbenchhq/workbench/store"
)

const (
	// primaryTopK is the number of results requested from vector search.
	primaryTopK = 5
	// fallbackLimit is the number of recent documents used when vector
	// search is unavailable or empty.
	fallbackLimit = 5
	// fallbackContentCap bounds the synthetic content of a fallback
	// document, in characters.
	fallbackContentCap = 1500

	// headerPrimary discloses that context comes from similarity search.
	headerPrimary = "Relevant workspace documents (similarity search):"
	// headerFallback discloses that similarity search did not produce the
	// context. The wording is a user-visible trust signal, not cosmetic.
	headerFallback = "Recent workspace documents (Vector Search Unavailable - results may be less relevant):"
)

// RetrievedItem is an ephemeral retrieval result. It exists only for
// context assembly and fingerprinting and is never persisted.
type RetrievedItem struct {
	UID       string
	Title     string
	Content   string
	Summary   string
	Score     float32
	UpdatedTs int64
}

// RetrievalResult carries the retrieved items plus the context header
// disclosing which strategy produced them.
type RetrievalResult struct {
	Items    []*RetrievedItem
	Header   string
	Degraded bool
}

// Retriever orchestrates primary (embedding + vector search) retrieval with
// graceful degradation to recency-based fallback.
type Retriever struct {
	store     *store.Store
	embedding ai.EmbeddingService
}

// NewRetriever creates a retriever.
func NewRetriever(st *store.Store, embedding ai.EmbeddingService) *Retriever {
	return &Retriever{
		store:     st,
		embedding: embedding,
	}
}

// Retrieve runs the two-state retrieval strategy: PRIMARY, then FALLBACK if
// primary raises or returns nothing. Primary failures never propagate; the
// only hard error is the fallback path itself failing, which means the
// persistence layer is down.
func (r *Retriever) Retrieve(ctx context.Context, rc *observability.RequestContext, tenantID, query string) (*RetrievalResult, error) {
	items, err := r.retrievePrimary(ctx, tenantID, query)
	if err == nil && len(items) > 0 {
		return &RetrievalResult{
			Items:  items,
			Header: headerPrimary,
		}, nil
	}
	if err != nil {
		rc.Warn("primary retrieval failed, falling back to recent documents",
			slog.String("error", err.Error()))
	}

	items, err = r.retrieveFallback(ctx, tenantID)
	if err != nil {
		return nil, errors.StorageFailure("fallback retrieval failed", err)
	}
	return &RetrievalResult{
		Items:    items,
		Header:   headerFallback,
		Degraded: true,
	}, nil
}

func (r *Retriever) retrievePrimary(ctx context.Context, tenantID, query string) ([]*RetrievedItem, error) {
	if r.embedding == nil {
		return nil, errors.RetrievalDegraded(errors.Configuration("embedding service not configured"))
	}

	// Primary retrieval is time-boxed as a whole; hitting the deadline
	// degrades to fallback like any other primary failure.
	ctx, cancel := context.WithTimeout(ctx, timeout.RetrievalTimeout)
	defer cancel()

	vector, err := r.embedding.Embed(ctx, query)
	if err != nil {
		return nil, errors.RetrievalDegraded(err)
	}

	results, err := r.store.VectorSearch(ctx, &store.VectorSearchOptions{
		TenantID: tenantID,
		Vector:   vector,
		Limit:    primaryTopK,
	})
	if err != nil {
		return nil, errors.RetrievalDegraded(err)
	}

	items := make([]*RetrievedItem, 0, len(results))
	for _, result := range results {
		items = append(items, &RetrievedItem{
			UID:       result.Document.UID,
			Title:     result.Document.Title,
			Content:   result.Document.Content,
			Summary:   result.Document.Summary,
			Score:     result.Score,
			UpdatedTs: result.Document.UpdatedTs,
		})
	}
	return items, nil
}

func (r *Retriever) retrieveFallback(ctx context.Context, tenantID string) ([]*RetrievedItem, error) {
	documents, err := r.store.RecentDocuments(ctx, tenantID, fallbackLimit)
	if err != nil {
		return nil, err
	}

	items := make([]*RetrievedItem, 0, len(documents))
	for _, doc := range documents {
		content := truncateChars(doc.Content, fallbackContentCap)
		items = append(items, &RetrievedItem{
			UID:       doc.UID,
			Title:     doc.Title,
			Content:   content,
			Summary:   doc.Summary,
			UpdatedTs: doc.UpdatedTs,
		})
	}
	return items, nil
}
