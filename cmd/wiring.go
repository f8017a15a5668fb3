package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tieubaoca/retriever-be/config"
	"github.com/tieubaoca/retriever-be/database"
	"github.com/tieubaoca/retriever-be/service"
)

// buildEmbedder picks the embedding backend from config.
func buildEmbedder(ctx context.Context, cfg *config.Config) (database.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return service.NewOpenAIEmbedder(cfg.Embedding.Endpoint, cfg.Embedding.APIKey, cfg.Embedding.Model), nil
	case "gemini":
		return service.NewGeminiEmbedder(ctx, cfg.Embedding.APIKey, cfg.Embedding.Model)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}
}

// buildSources assembles the ordered source list: local files first, then
// the remote knowledge base when one is configured.
func buildSources(cfg *config.Config) []service.DocumentSource {
	sources := make([]service.DocumentSource, 0, 2)
	if cfg.DocumentDir != "" {
		sources = append(sources, service.NewFileDocumentSource(cfg.DocumentDir, service.NewPDFService()))
	}
	if cfg.RemoteSource.BaseURL != "" {
		sources = append(sources, service.NewAPIDocumentSource(
			cfg.RemoteSource.BaseURL,
			cfg.RemoteSource.APIKey,
			time.Duration(cfg.RemoteSource.TimeoutSeconds)*time.Second,
		))
	}
	return sources
}

// buildRetriever wires the cache, vector index and sources into a retriever.
func buildRetriever(ctx context.Context, cfg *config.Config) (*service.RetrieverService, *database.WeaviateIndex, error) {
	embedder, err := buildEmbedder(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	vectorIndex, err := database.NewWeaviateIndex(
		cfg.VectorIndex.Host,
		cfg.VectorIndex.APIKey,
		embedder,
		cfg.VectorIndex.ChunkSize,
		cfg.VectorIndex.ChunkOverlap,
		cfg.VectorIndex.SimilarityThreshold,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to vector index: %w", err)
	}

	var cache database.DocumentCache
	if cfg.Cache.Enabled {
		sqliteCache, err := database.NewSQLiteCache(cfg.Cache.Directory, cfg.Cache.MaxSizeMB)
		if err != nil {
			log.Printf("Cache disabled, failed to open: %v", err)
		} else {
			cache = sqliteCache
		}
	}

	retriever := service.NewRetrieverService(cache, vectorIndex, buildSources(cfg), service.RetrieverOptions{
		DocumentTTL: time.Duration(cfg.Cache.DocumentTTLSecs) * time.Second,
		SearchTTL:   time.Duration(cfg.Cache.SearchTTLSecs) * time.Second,
		MaxResults:  cfg.MaxResults,
		AutoIndex:   cfg.AutoIndex,
	})
	return retriever, vectorIndex, nil
}
