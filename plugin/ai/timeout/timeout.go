// Package timeout defines centralized timeout constants for AI operations.
package timeout

import "time"

const (
	// CompletionTimeout is the timeout for a single completion call.
	CompletionTimeout = 60 * time.Second

	// EmbeddingTimeout is the timeout for embedding generation.
	EmbeddingTimeout = 30 * time.Second

	// RetrievalTimeout bounds the vector search round trip.
	RetrievalTimeout = 10 * time.Second
)
