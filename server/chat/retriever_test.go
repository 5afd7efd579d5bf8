package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/workbenchhq/workbench/internal/observability"
	"github.com/workbenchhq/workbench/store"
)

func newTestRequestContext() *observability.RequestContext {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return observability.NewRequestContext(logger, "t1", "u1")
}

func seedDocument(t *testing.T, st *store.Store, uid, title, content string) *store.Document {
	t.Helper()
	doc, err := st.CreateDocument(context.Background(), &store.Document{
		UID:       uid,
		TenantID:  "t1",
		Title:     title,
		Content:   content,
		CreatedTs: time.Now().Unix(),
		UpdatedTs: time.Now().Unix(),
	})
	require.NoError(t, err)
	return doc
}

func TestRetrieverFallbackOnSearchError(t *testing.T) {
	st := newTestStore(t)
	seedDocument(t, st, "doc-1", "Runbook", "deploy steps")

	// sqlite has no vector index, so primary retrieval always degrades.
	r := NewRetriever(st, &fakeEmbedding{})
	result, err := r.Retrieve(context.Background(), newTestRequestContext(), "t1", "how do we deploy?")
	require.NoError(t, err)
	require.True(t, result.Degraded)
	require.Equal(t, headerFallback, result.Header)
	require.Len(t, result.Items, 1)
	require.Equal(t, "Runbook", result.Items[0].Title)
}

func TestRetrieverFallbackOnEmbeddingError(t *testing.T) {
	st := newTestStore(t)
	seedDocument(t, st, "doc-1", "Runbook", "deploy steps")

	r := NewRetriever(st, &fakeEmbedding{err: errors.New("embedding down")})
	result, err := r.Retrieve(context.Background(), newTestRequestContext(), "t1", "query")
	require.NoError(t, err)
	require.True(t, result.Degraded)
	require.Equal(t, headerFallback, result.Header)
}

func TestRetrieverFallbackWithoutEmbeddingService(t *testing.T) {
	st := newTestStore(t)

	r := NewRetriever(st, nil)
	result, err := r.Retrieve(context.Background(), newTestRequestContext(), "t1", "query")
	require.NoError(t, err)
	require.True(t, result.Degraded)
	require.Empty(t, result.Items)
}

func TestRetrieverFallbackContentCap(t *testing.T) {
	st := newTestStore(t)
	seedDocument(t, st, "doc-1", "Huge", strings.Repeat("x", fallbackContentCap+500))

	r := NewRetriever(st, &fakeEmbedding{})
	result, err := r.Retrieve(context.Background(), newTestRequestContext(), "t1", "query")
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Len(t, result.Items[0].Content, fallbackContentCap)
}

func TestRetrieverFallbackContentCapMultibyte(t *testing.T) {
	st := newTestStore(t)
	seedDocument(t, st, "doc-1", "CJK", strings.Repeat("語", fallbackContentCap+200))

	r := NewRetriever(st, &fakeEmbedding{})
	result, err := r.Retrieve(context.Background(), newTestRequestContext(), "t1", "query")
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	// The cap counts characters; a rune at the boundary is never split.
	require.True(t, utf8.ValidString(result.Items[0].Content))
	require.Equal(t, fallbackContentCap, utf8.RuneCountInString(result.Items[0].Content))
}

func TestRetrieverPrimaryIsTimeBoxed(t *testing.T) {
	st := newTestStore(t)
	fe := &fakeEmbedding{}

	r := NewRetriever(st, fe)
	_, err := r.Retrieve(context.Background(), newTestRequestContext(), "t1", "query")
	require.NoError(t, err)
	require.True(t, fe.sawDeadline)
}

func TestRetrieverFallbackLimit(t *testing.T) {
	st := newTestStore(t)
	for i := 0; i < fallbackLimit+3; i++ {
		seedDocument(t, st, "doc-"+strings.Repeat("i", i+1), "Doc", "content")
	}

	r := NewRetriever(st, &fakeEmbedding{})
	result, err := r.Retrieve(context.Background(), newTestRequestContext(), "t1", "query")
	require.NoError(t, err)
	require.Len(t, result.Items, fallbackLimit)
}

func TestRetrieverFallbackTenantScoped(t *testing.T) {
	st := newTestStore(t)
	seedDocument(t, st, "doc-1", "Mine", "content")
	_, err := st.CreateDocument(context.Background(), &store.Document{
		UID:       "doc-other",
		TenantID:  "t2",
		Title:     "Theirs",
		Content:   "content",
		CreatedTs: time.Now().Unix(),
		UpdatedTs: time.Now().Unix(),
	})
	require.NoError(t, err)

	r := NewRetriever(st, &fakeEmbedding{})
	result, err := r.Retrieve(context.Background(), newTestRequestContext(), "t1", "query")
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, "Mine", result.Items[0].Title)
}
