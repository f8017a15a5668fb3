package database

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/tieubaoca/retriever-be/types"
)

const BATCH_SIZE = 200

// chunksPerDocument is how many chunk neighbors are fetched per requested
// document so that multi-chunk matches still fill the result list.
const chunksPerDocument = 4

var (
	CHUNK_CLASS        = "DocumentChunk"
	CHUNK_CLASS_OBJECT = &models.Class{
		Class: CHUNK_CLASS,
		Properties: []*models.Property{
			{Name: "documentId", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "source", DataType: []string{"text"}},
			{Name: "contentType", DataType: []string{"text"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
			{Name: "content", DataType: []string{"text"}},
		},
		// Vectors are supplied client-side by the embedder.
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
)

// WeaviateIndex stores overlapping document chunks with their embeddings and
// answers nearest-neighbor queries grouped back into documents.
type WeaviateIndex struct {
	client       *weaviate.Client
	embedder     Embedder
	chunkSize    int
	chunkOverlap int
	threshold    float64
}

func NewWeaviateIndex(host, apiKey string, embedder Embedder, chunkSize, chunkOverlap int, threshold float64) (*WeaviateIndex, error) {
	var scheme string
	if strings.Contains(host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host = strings.TrimPrefix(host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if apiKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: apiKey,
		}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasChunkClass := false
	for _, class := range schema.Classes {
		if class.Class == CHUNK_CLASS {
			hasChunkClass = true
			break
		}
	}
	if !hasChunkClass {
		err = client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create DocumentChunk class: %v", err)
		}
	}
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 10
	}
	return &WeaviateIndex{
		client:       client,
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		threshold:    threshold,
	}, nil
}

// ReInit drops and recreates the chunk class, wiping the whole index.
func (s *WeaviateIndex) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(CHUNK_CLASS).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete DocumentChunk class: %v", err)
	}

	err = s.client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create DocumentChunk class: %v", err)
	}
	return nil
}

// AddDocument splits the document into overlapping word-count chunks, embeds
// them and stores one object per chunk. Any chunks previously stored for the
// same document id are removed first, so re-indexing is idempotent.
func (s *WeaviateIndex) AddDocument(ctx context.Context, doc *types.Document) error {
	chunks := chunkText(doc.Content, s.chunkSize, s.chunkOverlap)
	doc.Chunks = chunks
	if len(chunks) == 0 {
		return nil
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return fmt.Errorf("failed to embed chunks for document %s: %v", doc.Metadata.ID, err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}

	// Replace any previous chunk set for this document.
	_, err = s.client.Batch().ObjectsBatchDeleter().
		WithClassName(CHUNK_CLASS).
		WithWhere(filters.Where().
			WithPath([]string{"documentId"}).
			WithOperator(filters.Equal).
			WithValueString(doc.Metadata.ID)).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete previous chunks for document %s: %v", doc.Metadata.ID, err)
	}

	total := len(chunks)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			properties := map[string]interface{}{
				"documentId":  doc.Metadata.ID,
				"title":       doc.Metadata.Title,
				"source":      doc.Metadata.Source,
				"contentType": doc.Metadata.ContentType,
				"chunkIndex":  j,
				"content":     chunks[j],
			}
			batcher = batcher.WithObjects(&models.Object{
				Class:      CHUNK_CLASS,
				ID:         chunkObjectID(doc.Metadata.ID, j),
				Properties: properties,
				Vector:     embeddings[j],
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("failed to insert chunk batch %d-%d for document %s: %v", i, end, doc.Metadata.ID, err)
		}
	}

	log.Printf("Indexed document %s with %d chunks", doc.Metadata.ID, len(chunks))
	return nil
}

// SearchSimilar embeds the query, fetches nearest chunk neighbors and regroups
// them by owning document. The returned documents are synthetic: their content
// is the concatenation of the matching chunks, not the original full text.
func (s *WeaviateIndex) SearchSimilar(ctx context.Context, query string, limit int) ([]types.ScoredDocument, error) {
	if limit <= 0 {
		limit = 10
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %v", err)
	}

	fields := []graphql.Field{
		{Name: "documentId"},
		{Name: "title"},
		{Name: "source"},
		{Name: "contentType"},
		{Name: "chunkIndex"},
		{Name: "content"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
	}
	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(queryVector)

	result, err := s.client.GraphQL().Get().
		WithClassName(CHUNK_CLASS).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(limit * chunksPerDocument).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("chunk search failed: %v", result.Errors[0].Message)
	}

	hits := parseChunkHits(result.Data)
	return groupChunkHits(hits, limit, s.threshold), nil
}

// DocumentCount reports the number of distinct indexed documents. Count
// failures are reported as 0.
func (s *WeaviateIndex) DocumentCount(ctx context.Context) int {
	result, err := s.client.GraphQL().Aggregate().
		WithClassName(CHUNK_CLASS).
		WithGroupBy("documentId").
		WithFields(graphql.Field{
			Name:   "groupedBy",
			Fields: []graphql.Field{{Name: "value"}},
		}).
		Do(ctx)
	if err != nil {
		log.Printf("Error counting indexed documents: %v", err)
		return 0
	}
	if result.Errors != nil {
		log.Printf("Error counting indexed documents: %v", result.Errors[0].Message)
		return 0
	}

	aggregate, ok := result.Data["Aggregate"].(map[string]interface{})
	if !ok {
		return 0
	}
	groups, ok := aggregate[CHUNK_CLASS].([]interface{})
	if !ok {
		return 0
	}
	return len(groups)
}

// chunkHit is one nearest-neighbor chunk returned by the store.
type chunkHit struct {
	DocumentID  string
	Title       string
	Source      string
	ContentType string
	ChunkIndex  int
	Content     string
	Distance    float64
}

func parseChunkHits(data map[string]models.JSONObject) []chunkHit {
	var hits []chunkHit
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return hits
	}
	items, ok := get[CHUNK_CLASS].([]interface{})
	if !ok {
		return hits
	}
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		hit := chunkHit{
			DocumentID:  stringProp(obj, "documentId"),
			Title:       stringProp(obj, "title"),
			Source:      stringProp(obj, "source"),
			ContentType: stringProp(obj, "contentType"),
			Content:     stringProp(obj, "content"),
		}
		if idx, ok := obj["chunkIndex"].(float64); ok {
			hit.ChunkIndex = int(idx)
		}
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			if distance, ok := additional["distance"].(float64); ok {
				hit.Distance = distance
			}
		}
		if hit.DocumentID != "" {
			hits = append(hits, hit)
		}
	}
	return hits
}

// groupChunkHits regroups chunk neighbors by owning document. A document may
// contribute several chunks to one query; its score comes from the best
// (minimum-distance) chunk, converted with similarity = 1 - distance. The
// reconstructed content joins the matching chunks in neighbor order.
func groupChunkHits(hits []chunkHit, limit int, threshold float64) []types.ScoredDocument {
	type docGroup struct {
		metadata    types.DocumentMetadata
		chunks      []string
		minDistance float64
	}

	groups := make(map[string]*docGroup)
	var order []string
	for _, hit := range hits {
		group, exists := groups[hit.DocumentID]
		if !exists {
			group = &docGroup{
				metadata: types.DocumentMetadata{
					ID:          hit.DocumentID,
					Title:       hit.Title,
					Source:      hit.Source,
					ContentType: hit.ContentType,
				},
				minDistance: hit.Distance,
			}
			groups[hit.DocumentID] = group
			order = append(order, hit.DocumentID)
		}
		group.chunks = append(group.chunks, hit.Content)
		if hit.Distance < group.minDistance {
			group.minDistance = hit.Distance
		}
	}

	results := make([]types.ScoredDocument, 0, len(order))
	for _, id := range order {
		group := groups[id]
		score := 1.0 - group.minDistance
		if score < threshold {
			continue
		}
		results = append(results, types.ScoredDocument{
			Document: types.Document{
				Metadata: group.metadata,
				Content:  strings.Join(group.chunks, "\n\n"),
				Chunks:   group.chunks,
			},
			Score: score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// chunkText splits text into overlapping word-count chunks.
func chunkText(text string, chunkSize, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	step := chunkSize - overlap
	for i := 0; i < len(words); i += step {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

// chunkObjectID derives a stable object id for a chunk so that re-indexing
// a document writes over the same objects.
func chunkObjectID(documentID string, index int) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s_chunk_%d", documentID, index))).String())
}

func stringProp(obj map[string]interface{}, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}
