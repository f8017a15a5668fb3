package service

import (
	"context"

	"github.com/tieubaoca/retriever-be/types"
)

// DocumentSource is a backend the retriever can pull documents from.
// RetrieveDocument returns (nil, nil) when the document does not exist;
// errors are reserved for backend failures.
type DocumentSource interface {
	Name() string
	RetrieveDocument(ctx context.Context, id string) (*types.Document, error)
	SearchDocuments(ctx context.Context, query string, limit int) ([]types.Document, error)
	ListDocuments(ctx context.Context, limit int) ([]types.DocumentMetadata, error)
}
