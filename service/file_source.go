package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tieubaoca/retriever-be/types"
)

// supportedExtensions maps file extensions to their content types, in
// lookup order.
var supportedExtensions = []struct {
	ext         string
	contentType string
}{
	{".pdf", types.ContentTypePDF},
	{".txt", types.ContentTypeText},
	{".md", types.ContentTypeMarkdown},
}

// FileDocumentSource serves documents from a local directory. A document
// with id "report_q3" is any of report_q3.pdf, report_q3.txt or
// report_q3.md under the configured directory.
type FileDocumentSource struct {
	documentDir string
	pdfService  *PDFService
}

func NewFileDocumentSource(documentDir string, pdfService *PDFService) *FileDocumentSource {
	return &FileDocumentSource{
		documentDir: documentDir,
		pdfService:  pdfService,
	}
}

func (s *FileDocumentSource) Name() string {
	return "file"
}

func (s *FileDocumentSource) RetrieveDocument(ctx context.Context, id string) (*types.Document, error) {
	for _, candidate := range supportedExtensions {
		path := filepath.Join(s.documentDir, id+candidate.ext)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		return s.loadDocument(path, id, candidate.contentType, info)
	}
	return nil, nil
}

// SearchDocuments matches the query as a case-insensitive substring of
// the file name. An empty query matches everything.
func (s *FileDocumentSource) SearchDocuments(ctx context.Context, query string, limit int) ([]types.Document, error) {
	entries, err := os.ReadDir(s.documentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read document directory: %w", err)
	}

	needle := strings.ToLower(query)
	results := make([]types.Document, 0)
	for _, entry := range entries {
		if entry.IsDir() || len(results) >= limit {
			continue
		}
		contentType, ok := contentTypeForFile(entry.Name())
		if !ok {
			continue
		}
		stem := fileNameWithoutExt(entry.Name())
		if !strings.Contains(strings.ToLower(stem), needle) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(s.documentDir, entry.Name())
		doc, err := s.loadDocument(path, stem, contentType, info)
		if err != nil {
			log.Printf("Warning: failed to load %s: %v", path, err)
			continue
		}
		results = append(results, *doc)
	}
	return results, nil
}

func (s *FileDocumentSource) ListDocuments(ctx context.Context, limit int) ([]types.DocumentMetadata, error) {
	entries, err := os.ReadDir(s.documentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read document directory: %w", err)
	}

	metadatas := make([]types.DocumentMetadata, 0)
	for _, entry := range entries {
		if entry.IsDir() || len(metadatas) >= limit {
			continue
		}
		contentType, ok := contentTypeForFile(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		metadatas = append(metadatas, s.metadataFromFile(fileNameWithoutExt(entry.Name()), contentType, info))
	}
	sort.Slice(metadatas, func(i, j int) bool { return metadatas[i].ID < metadatas[j].ID })
	return metadatas, nil
}

func (s *FileDocumentSource) loadDocument(path, id, contentType string, info os.FileInfo) (*types.Document, error) {
	metadata := s.metadataFromFile(id, contentType, info)

	var content string
	if contentType == types.ContentTypePDF {
		text, err := s.pdfService.ExtractText(path)
		if err != nil {
			return nil, fmt.Errorf("failed to extract PDF text: %w", err)
		}
		content = text
		if pages, err := s.pdfService.PageCount(path); err == nil {
			metadata.PageCount = pages
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		content = string(data)
	}

	return &types.Document{
		Metadata: metadata,
		Content:  content,
	}, nil
}

func (s *FileDocumentSource) metadataFromFile(id, contentType string, info os.FileInfo) types.DocumentMetadata {
	return types.DocumentMetadata{
		ID:          id,
		Title:       id,
		Source:      s.Name(),
		ContentType: contentType,
		CreatedAt:   info.ModTime().UTC().Format(time.RFC3339),
		ModifiedAt:  info.ModTime().UTC().Format(time.RFC3339),
		FileSize:    info.Size(),
	}
}

func contentTypeForFile(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range supportedExtensions {
		if candidate.ext == ext {
			return candidate.contentType, true
		}
	}
	return "", false
}
