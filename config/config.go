package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string          `mapstructure:"port"`
	APIKey        string          `mapstructure:"API_KEY"`
	MongoURI      string          `mapstructure:"MONGODB_URI"`
	MongoDatabase string          `mapstructure:"mongo_database"`
	DocumentDir   string          `mapstructure:"document_dir"`
	RemoteSource  RemoteConfig    `mapstructure:"remote_source"`
	Cache         CacheConfig     `mapstructure:"cache"`
	VectorIndex   VectorConfig    `mapstructure:"vector_index"`
	Embedding     EmbeddingConfig `mapstructure:"embedding"`
	MaxResults    int             `mapstructure:"max_results"`
	AutoIndex     bool            `mapstructure:"auto_index"`
}

// RemoteConfig configures the API-backed document source.
type RemoteConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"REMOTE_SOURCE_API_KEY"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type CacheConfig struct {
	Directory       string `mapstructure:"directory"`
	MaxSizeMB       int    `mapstructure:"max_size_mb"`
	DocumentTTLSecs int    `mapstructure:"document_ttl_seconds"`
	SearchTTLSecs   int    `mapstructure:"search_ttl_seconds"`
	Enabled         bool   `mapstructure:"enabled"`
}

type VectorConfig struct {
	Host                string  `mapstructure:"host"`
	APIKey              string  `mapstructure:"WEAVIATE_APIKEY"`
	ChunkSize           int     `mapstructure:"chunk_size"`
	ChunkOverlap        int     `mapstructure:"chunk_overlap"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
}

type EmbeddingConfig struct {
	Provider string `mapstructure:"provider"` // "openai" or "gemini"
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"EMBEDDING_API_KEY"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("port", "8080")
	v.SetDefault("mongo_database", "knowledgebase")
	v.SetDefault("document_dir", "./documents")
	v.SetDefault("remote_source.timeout_seconds", 30)
	v.SetDefault("cache.directory", "./cache")
	v.SetDefault("cache.max_size_mb", 1000)
	v.SetDefault("cache.document_ttl_seconds", 3600)
	v.SetDefault("cache.search_ttl_seconds", 1800)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("vector_index.chunk_size", 500)
	v.SetDefault("vector_index.chunk_overlap", 50)
	v.SetDefault("vector_index.similarity_threshold", 0.3)
	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("max_results", 20)
	v.SetDefault("auto_index", true)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables for secrets
	v.BindEnv("API_KEY")
	v.BindEnv("MONGODB_URI")
	v.BindEnv("remote_source.REMOTE_SOURCE_API_KEY", "REMOTE_SOURCE_API_KEY")
	v.BindEnv("vector_index.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")
	v.BindEnv("embedding.EMBEDDING_API_KEY", "EMBEDDING_API_KEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.VectorIndex.ChunkOverlap >= config.VectorIndex.ChunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)",
			config.VectorIndex.ChunkOverlap, config.VectorIndex.ChunkSize)
	}

	return &config, nil
}
