//go:build integration

package database

import (
	"context"
	"hash/fnv"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/retriever-be/types"
)

// wordHashEmbedder produces deterministic vectors from word counts so the
// test only depends on a local Weaviate instance, not an embedding provider.
type wordHashEmbedder struct{}

func (wordHashEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 16)
	h := fnv.New32a()
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h.Reset()
		h.Write([]byte(word))
		vec[h.Sum32()%16]++
	}
	return vec, nil
}

func (e wordHashEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// Run against a local instance with:
//
//	WEAVIATE_HOST=http://localhost:8080 go test -tags integration ./database
func newIntegrationIndex(t *testing.T) *WeaviateIndex {
	t.Helper()
	host := os.Getenv("WEAVIATE_HOST")
	if host == "" {
		t.Skip("WEAVIATE_HOST not set")
	}

	index, err := NewWeaviateIndex(host, os.Getenv("WEAVIATE_APIKEY"), wordHashEmbedder{}, 5, 2, 0)
	require.NoError(t, err)
	require.NoError(t, index.ReInit())
	return index
}

func TestWeaviateReindexIsIdempotent(t *testing.T) {
	index := newIntegrationIndex(t)
	ctx := context.Background()

	doc := &types.Document{
		Metadata: types.DocumentMetadata{
			ID:          "doc-1",
			Title:       "Quarterly Sales Report",
			Source:      "sales_department",
			ContentType: types.ContentTypeText,
		},
		Content: "revenue grew in the third quarter across all regions with enterprise deals leading the increase",
	}
	require.Greater(t, len(chunkText(doc.Content, 5, 2)), 1, "document must span multiple chunks")

	require.NoError(t, index.AddDocument(ctx, doc))
	require.Equal(t, 1, index.DocumentCount(ctx))

	// same content again: the chunk set is replaced, not duplicated
	require.NoError(t, index.AddDocument(ctx, doc))
	assert.Equal(t, 1, index.DocumentCount(ctx))

	// shorter content must not leave stale chunks from the earlier pass
	doc.Content = "revenue summary"
	require.NoError(t, index.AddDocument(ctx, doc))
	assert.Equal(t, 1, index.DocumentCount(ctx))

	results, err := index.SearchSimilar(ctx, "revenue summary", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-1", results[0].Document.Metadata.ID)
	assert.Equal(t, "revenue summary", results[0].Document.Content)
}

func TestWeaviateSearchRanksNearestDocumentFirst(t *testing.T) {
	index := newIntegrationIndex(t)
	ctx := context.Background()

	docs := []*types.Document{
		{
			Metadata: types.DocumentMetadata{ID: "doc-sales", Title: "Sales", Source: "sales_department", ContentType: types.ContentTypeText},
			Content:  "quarterly revenue targets and pipeline forecasts",
		},
		{
			Metadata: types.DocumentMetadata{ID: "doc-hr", Title: "HR", Source: "human_resources", ContentType: types.ContentTypeText},
			Content:  "vacation policy and onboarding checklist",
		},
	}
	for _, doc := range docs {
		require.NoError(t, index.AddDocument(ctx, doc))
	}
	require.Equal(t, 2, index.DocumentCount(ctx))

	results, err := index.SearchSimilar(ctx, "quarterly revenue targets", 2)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "doc-sales", results[0].Document.Metadata.ID)
}
