package database

import (
	"context"
	"time"

	"github.com/tieubaoca/retriever-be/types"
)

// VectorIndex defines chunk-level similarity search over indexed documents.
type VectorIndex interface {
	// AddDocument chunks, embeds and stores the document content. Indexing
	// the same document id again replaces its previous chunk set.
	AddDocument(ctx context.Context, doc *types.Document) error

	// SearchSimilar returns up to limit documents reconstructed from their
	// best-matching chunks, sorted by descending similarity score.
	SearchSimilar(ctx context.Context, query string, limit int) ([]types.ScoredDocument, error)

	// DocumentCount reports how many distinct documents are indexed.
	// Failures are reported as 0, never as an error.
	DocumentCount(ctx context.Context) int
}

// DocumentCache is a key/value cache for single documents and search result
// lists. Lookups never error: expired or unreadable entries are misses, and
// failed writes report false. The system stays correct without the cache.
type DocumentCache interface {
	GetDocument(ctx context.Context, documentID string) (*types.Document, bool)
	SetDocument(ctx context.Context, doc *types.Document, ttl time.Duration) bool
	GetSearchResults(ctx context.Context, query string) ([]types.Document, bool)
	SetSearchResults(ctx context.Context, query string, docs []types.Document, ttl time.Duration) bool
	Clear(ctx context.Context) error
	Len(ctx context.Context) int
}

// Embedder produces vector embeddings for text. The weaviate index uses it
// to vectorize chunks and queries client-side.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
