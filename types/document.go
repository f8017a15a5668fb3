package types

import "fmt"

// Allowed content type tags for documents.
const (
	ContentTypePDF      = "pdf"
	ContentTypeText     = "text"
	ContentTypeHTML     = "html"
	ContentTypeMarkdown = "markdown"
	ContentTypeJSON     = "json"
	ContentTypeXML      = "xml"
)

var allowedContentTypes = map[string]bool{
	ContentTypePDF:      true,
	ContentTypeText:     true,
	ContentTypeHTML:     true,
	ContentTypeMarkdown: true,
	ContentTypeJSON:     true,
	ContentTypeXML:      true,
}

// ValidateContentType checks the content type tag against the allowed set.
func ValidateContentType(contentType string) error {
	if !allowedContentTypes[contentType] {
		return fmt.Errorf("invalid content type: %s", contentType)
	}
	return nil
}

// DocumentMetadata contains identity and descriptive attributes of a document.
// The ID is unique across all sources wired into one retriever; updates
// replace the whole object, there are no partial updates.
type DocumentMetadata struct {
	ID          string   `bson:"_id" json:"id"`
	Title       string   `bson:"title" json:"title"`
	Source      string   `bson:"source" json:"source"`
	ContentType string   `bson:"content_type" json:"content_type"`
	CreatedAt   string   `bson:"created_at,omitempty" json:"created_at,omitempty"`
	ModifiedAt  string   `bson:"modified_at,omitempty" json:"modified_at,omitempty"`
	Author      string   `bson:"author,omitempty" json:"author,omitempty"`
	FileSize    int64    `bson:"file_size,omitempty" json:"file_size,omitempty"`
	PageCount   int      `bson:"page_count,omitempty" json:"page_count,omitempty"`
	Keywords    []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
}

// Document pairs metadata with full text content. Chunks is filled in by the
// vector index when the document is indexed; Embedding is optional and only
// set when a caller computed a whole-document vector.
type Document struct {
	Metadata  DocumentMetadata `bson:"metadata" json:"metadata"`
	Content   string           `bson:"content" json:"content"`
	Chunks    []string         `bson:"chunks,omitempty" json:"chunks,omitempty"`
	Embedding []float32        `bson:"embedding,omitempty" json:"embedding,omitempty"`
}

// ScoredDocument pairs a document with a relevance score. Scores from the
// vector index are derived from embedding distance; plain source hits carry
// a fixed default score assigned during merging.
type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}
