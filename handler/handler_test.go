package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/tieubaoca/retriever-be/types"
)

type stubDocumentRepo struct {
	docs    map[string]*types.Document
	created []*types.Document
}

func newStubRepo() *stubDocumentRepo {
	return &stubDocumentRepo{docs: make(map[string]*types.Document)}
}

func (s *stubDocumentRepo) CreateDocument(ctx context.Context, doc *types.Document) error {
	s.created = append(s.created, doc)
	s.docs[doc.Metadata.ID] = doc
	return nil
}

func (s *stubDocumentRepo) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return doc, nil
}

func (s *stubDocumentRepo) ListDocuments(ctx context.Context, limit int, contentType, source string) ([]types.DocumentMetadata, int64, error) {
	var metadatas []types.DocumentMetadata
	for _, doc := range s.docs {
		if contentType != "" && doc.Metadata.ContentType != contentType {
			continue
		}
		if source != "" && doc.Metadata.Source != source {
			continue
		}
		metadatas = append(metadatas, doc.Metadata)
	}
	total := int64(len(metadatas))
	if len(metadatas) > limit {
		metadatas = metadatas[:limit]
	}
	return metadatas, total, nil
}

func (s *stubDocumentRepo) SearchDocuments(ctx context.Context, query string, limit int) ([]types.ScoredDocument, error) {
	var scored []types.ScoredDocument
	for _, doc := range s.docs {
		scored = append(scored, types.ScoredDocument{Document: *doc, Score: 0.5})
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (s *stubDocumentRepo) DeleteDocument(ctx context.Context, id string) error {
	delete(s.docs, id)
	return nil
}

func (s *stubDocumentRepo) CountDocuments(ctx context.Context) (int64, error) {
	return int64(len(s.docs)), nil
}

func newTestRouter(repo *stubDocumentRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	documentHandler := NewDocumentHandler(repo)
	searchHandler := NewSearchHandler(repo)
	statsHandler := NewStatsHandler(repo)

	router.GET("/health", statsHandler.HandleHealth)
	router.GET("/documents", documentHandler.HandleListDocuments)
	router.GET("/documents/:id", documentHandler.HandleGetDocument)
	router.POST("/documents", documentHandler.HandleCreateDocument)
	router.DELETE("/documents/:id", documentHandler.HandleDeleteDocument)
	router.GET("/search", searchHandler.HandleSearch)
	return router
}

func seedDoc(repo *stubDocumentRepo, id string) {
	repo.docs[id] = &types.Document{
		Metadata: types.DocumentMetadata{ID: id, Title: "Title " + id, Source: "api", ContentType: types.ContentTypeText},
		Content:  "content " + id,
	}
}

func TestHandleGetDocument(t *testing.T) {
	repo := newStubRepo()
	seedDoc(repo, "doc-1")
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/documents/doc-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.DocumentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "doc-1", resp.Metadata.ID)
	assert.Equal(t, "content doc-1", resp.Content)
}

func TestHandleGetDocumentNotFound(t *testing.T) {
	router := newTestRouter(newStubRepo())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/documents/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleListDocuments(t *testing.T) {
	repo := newStubRepo()
	seedDoc(repo, "doc-1")
	seedDoc(repo, "doc-2")
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/documents?limit=10", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.DocumentListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Len(t, resp.Documents, 2)
}

func TestHandleCreateDocument(t *testing.T) {
	repo := newStubRepo()
	router := newTestRouter(repo)

	body, _ := json.Marshal(types.CreateDocumentRequest{
		Metadata: types.DocumentMetadata{ID: "new-doc", Title: "New", ContentType: types.ContentTypeText},
		Content:  "fresh content",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "new-doc", repo.created[0].Metadata.ID)
}

func TestHandleCreateDocumentRejectsBadContentType(t *testing.T) {
	router := newTestRouter(newStubRepo())

	body, _ := json.Marshal(types.CreateDocumentRequest{
		Metadata: types.DocumentMetadata{ID: "new-doc", ContentType: "docx"},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateDocumentRequiresID(t *testing.T) {
	router := newTestRouter(newStubRepo())

	body, _ := json.Marshal(types.CreateDocumentRequest{
		Metadata: types.DocumentMetadata{ContentType: types.ContentTypeText},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDeleteDocument(t *testing.T) {
	repo := newStubRepo()
	seedDoc(repo, "doc-1")
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/documents/doc-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.docs)
}

func TestHandleSearch(t *testing.T) {
	repo := newStubRepo()
	seedDoc(repo, "doc-1")
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search?q=title&limit=5", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "title", resp.Query)
	assert.Equal(t, 1, resp.TotalResults)
}

func TestHandleSearchRequiresQuery(t *testing.T) {
	router := newTestRouter(newStubRepo())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleHealth(t *testing.T) {
	repo := newStubRepo()
	seedDoc(repo, "doc-1")
	router := newTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, int64(1), resp.DocumentsLoaded)
}
