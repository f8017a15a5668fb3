package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// DocumentResponse is the wire format for GET /documents/{id}.
type DocumentResponse struct {
	Metadata DocumentMetadata `json:"metadata"`
	Content  string           `json:"content"`
}

// SearchResponse is the wire format for GET /search.
type SearchResponse struct {
	Query        string             `json:"query"`
	TotalResults int                `json:"total_results"`
	Results      []DocumentResponse `json:"results"`
}

// DocumentListResponse is the wire format for GET /documents.
type DocumentListResponse struct {
	Documents  []DocumentMetadata `json:"documents"`
	TotalCount int64              `json:"total_count"`
}

// RetrieverStats reports aggregate state of the retrieval system.
type RetrieverStats struct {
	TotalDocuments   int `json:"total_documents"`
	SourcesAvailable int `json:"sources_available"`
	CacheSize        int `json:"cache_size"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	Timestamp       string `json:"timestamp"`
	DocumentsLoaded int64  `json:"documents_loaded"`
}
