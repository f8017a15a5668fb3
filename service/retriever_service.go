package service

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/tieubaoca/retriever-be/database"
	"github.com/tieubaoca/retriever-be/types"
)

// DefaultSourceScore is the relevance score assigned to documents found
// only by a source's own search, where no vector similarity is available.
const DefaultSourceScore = 0.5

// RetrieverService coordinates a cache, a vector index and an ordered
// list of document sources. Collaborator failures are logged and
// absorbed here; callers only ever see absent documents or shorter
// result lists.
type RetrieverService struct {
	cache       database.DocumentCache
	vectorIndex database.VectorIndex
	sources     []DocumentSource
	documentTTL time.Duration
	searchTTL   time.Duration
	maxResults  int
	autoIndex   bool
}

type RetrieverOptions struct {
	DocumentTTL time.Duration
	SearchTTL   time.Duration
	MaxResults  int
	AutoIndex   bool
}

// NewRetrieverService wires the retriever. cache may be nil to disable
// caching, vectorIndex may be nil to fall back to source search only.
func NewRetrieverService(cache database.DocumentCache, vectorIndex database.VectorIndex, sources []DocumentSource, opts RetrieverOptions) *RetrieverService {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}
	return &RetrieverService{
		cache:       cache,
		vectorIndex: vectorIndex,
		sources:     sources,
		documentTTL: opts.DocumentTTL,
		searchTTL:   opts.SearchTTL,
		maxResults:  opts.MaxResults,
		autoIndex:   opts.AutoIndex,
	}
}

// RetrieveDocument fetches a document by id, trying the cache first and
// then each source in order. Returns nil when no source has it.
func (s *RetrieverService) RetrieveDocument(ctx context.Context, id string, useCache bool) *types.Document {
	if useCache && s.cache != nil {
		if doc, ok := s.cache.GetDocument(ctx, id); ok {
			log.Printf("Cache hit for document %s", id)
			return doc
		}
	}

	for _, source := range s.sources {
		doc, err := source.RetrieveDocument(ctx, id)
		if err != nil {
			log.Printf("Source %s failed retrieving document %s: %v", source.Name(), id, err)
			continue
		}
		if doc == nil {
			continue
		}

		if useCache && s.cache != nil {
			s.cache.SetDocument(ctx, doc, s.documentTTL)
		}
		if s.autoIndex && s.vectorIndex != nil {
			if err := s.vectorIndex.AddDocument(ctx, doc); err != nil {
				log.Printf("Failed to index document %s: %v", id, err)
			}
		}
		return doc
	}
	return nil
}

// SearchDocuments runs a vector similarity search and every source's
// own search concurrently, then merges the results. Vector hits keep
// their similarity score and win over source hits with the same id;
// source-only hits get DefaultSourceScore.
func (s *RetrieverService) SearchDocuments(ctx context.Context, query string, limit int, useCache bool) []types.Document {
	if limit <= 0 {
		limit = s.maxResults
	}

	if useCache && s.cache != nil {
		if docs, ok := s.cache.GetSearchResults(ctx, query); ok {
			log.Printf("Cache hit for search %q", query)
			if len(docs) > limit {
				docs = docs[:limit]
			}
			return docs
		}
	}

	var vectorResults []types.ScoredDocument
	sourceResults := make([][]types.Document, len(s.sources))

	var wg sync.WaitGroup
	if s.vectorIndex != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := s.vectorIndex.SearchSimilar(ctx, query, limit)
			if err != nil {
				log.Printf("Vector search failed for %q: %v", query, err)
				return
			}
			vectorResults = results
		}()
	}
	for i, source := range s.sources {
		wg.Add(1)
		go func(i int, source DocumentSource) {
			defer wg.Done()
			docs, err := source.SearchDocuments(ctx, query, limit)
			if err != nil {
				log.Printf("Source %s search failed for %q: %v", source.Name(), query, err)
				return
			}
			sourceResults[i] = docs
		}(i, source)
	}
	wg.Wait()

	merged := make([]types.ScoredDocument, 0, len(vectorResults))
	seen := make(map[string]bool)
	for _, scored := range vectorResults {
		if seen[scored.Document.Metadata.ID] {
			continue
		}
		seen[scored.Document.Metadata.ID] = true
		merged = append(merged, scored)
	}
	for _, docs := range sourceResults {
		for _, doc := range docs {
			if seen[doc.Metadata.ID] {
				continue
			}
			seen[doc.Metadata.ID] = true
			merged = append(merged, types.ScoredDocument{
				Document: doc,
				Score:    DefaultSourceScore,
			})
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	results := make([]types.Document, 0, len(merged))
	for _, scored := range merged {
		results = append(results, scored.Document)
	}

	if useCache && s.cache != nil {
		s.cache.SetSearchResults(ctx, query, results, s.searchTTL)
	}
	return results
}

// ListAllDocuments collects document metadata from every source,
// deduplicated by id. The first source listing an id wins, matching the
// source priority of RetrieveDocument.
func (s *RetrieverService) ListAllDocuments(ctx context.Context, limit int) []types.DocumentMetadata {
	seen := make(map[string]bool)
	all := make([]types.DocumentMetadata, 0)
	for _, source := range s.sources {
		metadatas, err := source.ListDocuments(ctx, limit)
		if err != nil {
			log.Printf("Source %s failed listing documents: %v", source.Name(), err)
			continue
		}
		for _, metadata := range metadatas {
			if seen[metadata.ID] {
				continue
			}
			seen[metadata.ID] = true
			all = append(all, metadata)
		}
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// AddDocumentToIndex indexes a document for similarity search and
// reports whether indexing succeeded.
func (s *RetrieverService) AddDocumentToIndex(ctx context.Context, doc *types.Document) bool {
	if s.vectorIndex == nil {
		return false
	}
	if err := s.vectorIndex.AddDocument(ctx, doc); err != nil {
		log.Printf("Failed to index document %s: %v", doc.Metadata.ID, err)
		return false
	}
	return true
}

// ClearCache drops all cached documents and search results.
func (s *RetrieverService) ClearCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		log.Printf("Failed to clear cache: %v", err)
	}
}

// Stats reports the current size of the retriever's moving parts.
func (s *RetrieverService) Stats(ctx context.Context) types.RetrieverStats {
	stats := types.RetrieverStats{
		SourcesAvailable: len(s.sources),
	}
	if s.vectorIndex != nil {
		stats.TotalDocuments = s.vectorIndex.DocumentCount(ctx)
	}
	if s.cache != nil {
		stats.CacheSize = s.cache.Len(ctx)
	}
	return stats
}
