package database

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate/entities/models"
)

func TestChunkText(t *testing.T) {
	t.Run("short text fits in one chunk", func(t *testing.T) {
		chunks := chunkText("one two three", 500, 50)
		require.Len(t, chunks, 1)
		assert.Equal(t, "one two three", chunks[0])
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		assert.Nil(t, chunkText("", 500, 50))
		assert.Nil(t, chunkText("   \n\t  ", 500, 50))
	})

	t.Run("chunks overlap by the configured word count", func(t *testing.T) {
		words := make([]string, 12)
		for i := range words {
			words[i] = fmt.Sprintf("w%d", i)
		}
		chunks := chunkText(strings.Join(words, " "), 5, 2)

		// step = 3, so chunks start at word 0, 3, 6, 9
		require.Len(t, chunks, 4)
		assert.Equal(t, "w0 w1 w2 w3 w4", chunks[0])
		assert.Equal(t, "w3 w4 w5 w6 w7", chunks[1])
		assert.Equal(t, "w9 w10 w11", chunks[3])

		// last two words of each chunk reappear in the next
		for i := 1; i < len(chunks); i++ {
			prev := strings.Fields(chunks[i-1])
			cur := strings.Fields(chunks[i])
			assert.Equal(t, prev[len(prev)-2:], cur[:2])
		}
	})

	t.Run("exact multiple does not emit an empty trailing chunk", func(t *testing.T) {
		chunks := chunkText("a b c d e", 5, 2)
		require.Len(t, chunks, 1)
	})
}

func TestChunkObjectID(t *testing.T) {
	a := chunkObjectID("doc-1", 0)
	b := chunkObjectID("doc-1", 0)
	c := chunkObjectID("doc-1", 1)
	d := chunkObjectID("doc-2", 0)

	assert.Equal(t, a, b, "same document and index must map to the same object id")
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)

	_, err := uuid.Parse(a.String())
	assert.NoError(t, err, "chunk object ids must be valid UUIDs")
}

// Re-indexing a document must target the objects written by the first pass,
// so identical content has to produce an identical id sequence.
func TestReindexTargetsSameObjects(t *testing.T) {
	content := "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu"

	first := chunkText(content, 5, 2)
	second := chunkText(content, 5, 2)
	require.Equal(t, first, second)
	require.Greater(t, len(first), 1)

	for i := range first {
		assert.Equal(t, chunkObjectID("doc-1", i), chunkObjectID("doc-1", i))
	}
}

func TestGroupChunkHits(t *testing.T) {
	hits := []chunkHit{
		{DocumentID: "doc-a", Title: "Doc A", Source: "file", ContentType: "text", ChunkIndex: 2, Content: "a middle", Distance: 0.4},
		{DocumentID: "doc-b", Title: "Doc B", Source: "api", ContentType: "pdf", ChunkIndex: 0, Content: "b start", Distance: 0.1},
		{DocumentID: "doc-a", Title: "Doc A", Source: "file", ContentType: "text", ChunkIndex: 0, Content: "a start", Distance: 0.2},
	}

	results := groupChunkHits(hits, 10, 0)
	require.Len(t, results, 2)

	// doc-b's best chunk (0.1) beats doc-a's best chunk (0.2)
	assert.Equal(t, "doc-b", results[0].Document.Metadata.ID)
	assert.InDelta(t, 0.9, results[0].Score, 1e-9)
	assert.Equal(t, "doc-a", results[1].Document.Metadata.ID)
	assert.InDelta(t, 0.8, results[1].Score, 1e-9)

	// content is rebuilt from the matching chunks in neighbor order
	assert.Equal(t, "a middle\n\na start", results[1].Document.Content)
	assert.Equal(t, []string{"a middle", "a start"}, results[1].Document.Chunks)

	// metadata carried through from the chunk properties
	assert.Equal(t, "Doc B", results[0].Document.Metadata.Title)
	assert.Equal(t, "api", results[0].Document.Metadata.Source)
	assert.Equal(t, "pdf", results[0].Document.Metadata.ContentType)
}

func TestGroupChunkHitsLimit(t *testing.T) {
	var hits []chunkHit
	for i := 0; i < 5; i++ {
		hits = append(hits, chunkHit{
			DocumentID: fmt.Sprintf("doc-%d", i),
			Content:    "content",
			Distance:   0.1 * float64(i),
		})
	}

	results := groupChunkHits(hits, 3, 0)
	require.Len(t, results, 3)
	assert.Equal(t, "doc-0", results[0].Document.Metadata.ID)
	assert.Equal(t, "doc-2", results[2].Document.Metadata.ID)
}

func TestGroupChunkHitsThreshold(t *testing.T) {
	hits := []chunkHit{
		{DocumentID: "near", Content: "x", Distance: 0.1},
		{DocumentID: "far", Content: "y", Distance: 0.9},
	}

	results := groupChunkHits(hits, 10, 0.5)
	require.Len(t, results, 1)
	assert.Equal(t, "near", results[0].Document.Metadata.ID)
}

func TestGroupChunkHitsEmpty(t *testing.T) {
	assert.Empty(t, groupChunkHits(nil, 10, 0))
}

func TestParseChunkHits(t *testing.T) {
	data := map[string]models.JSONObject{
		"Get": map[string]interface{}{
			CHUNK_CLASS: []interface{}{
				map[string]interface{}{
					"documentId":  "doc-1",
					"title":       "Doc 1",
					"source":      "file",
					"contentType": "text",
					"chunkIndex":  float64(3),
					"content":     "some content",
					"_additional": map[string]interface{}{"distance": 0.25},
				},
				// missing documentId gets dropped
				map[string]interface{}{
					"content": "orphan chunk",
				},
			},
		},
	}

	hits := parseChunkHits(data)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-1", hits[0].DocumentID)
	assert.Equal(t, 3, hits[0].ChunkIndex)
	assert.Equal(t, 0.25, hits[0].Distance)
	assert.Equal(t, "some content", hits[0].Content)
}

func TestParseChunkHitsMalformed(t *testing.T) {
	assert.Empty(t, parseChunkHits(map[string]models.JSONObject{}))
	assert.Empty(t, parseChunkHits(map[string]models.JSONObject{"Get": "bogus"}))
}
