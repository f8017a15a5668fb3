package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tieubaoca/retriever-be/types"
)

// APIDocumentSource serves documents from a remote knowledge base over
// HTTP. A missing document (404) is reported as absent, not as an error.
type APIDocumentSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewAPIDocumentSource(baseURL, apiKey string, timeout time.Duration) *APIDocumentSource {
	return &APIDocumentSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *APIDocumentSource) Name() string {
	return "api"
}

func (s *APIDocumentSource) RetrieveDocument(ctx context.Context, id string) (*types.Document, error) {
	resp, err := s.get(ctx, "/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d retrieving document %s", resp.StatusCode, id)
	}

	var docResp types.DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&docResp); err != nil {
		return nil, fmt.Errorf("failed to decode document response: %w", err)
	}
	return &types.Document{
		Metadata: docResp.Metadata,
		Content:  docResp.Content,
	}, nil
}

func (s *APIDocumentSource) SearchDocuments(ctx context.Context, query string, limit int) ([]types.Document, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	resp, err := s.get(ctx, "/search", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d searching documents", resp.StatusCode)
	}

	var searchResp types.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	docs := make([]types.Document, 0, len(searchResp.Results))
	for _, result := range searchResp.Results {
		docs = append(docs, types.Document{
			Metadata: result.Metadata,
			Content:  result.Content,
		})
	}
	return docs, nil
}

func (s *APIDocumentSource) ListDocuments(ctx context.Context, limit int) ([]types.DocumentMetadata, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	resp, err := s.get(ctx, "/documents", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d listing documents", resp.StatusCode)
	}

	var listResp types.DocumentListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to decode document list response: %w", err)
	}
	return listResp.Documents, nil
}

func (s *APIDocumentSource) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	endpoint := s.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	return resp, nil
}
