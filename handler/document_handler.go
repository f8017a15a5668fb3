package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/retriever-be/repository"
	"github.com/tieubaoca/retriever-be/types"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type DocumentHandler struct {
	documentRepo repository.DocumentRepo
}

func NewDocumentHandler(documentRepo repository.DocumentRepo) *DocumentHandler {
	return &DocumentHandler{
		documentRepo: documentRepo,
	}
}

func (h *DocumentHandler) HandleGetDocument(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.documentRepo.GetDocument(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, types.DataResponse{
				Status:  "error",
				Message: "Document not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DocumentResponse{
		Metadata: doc.Metadata,
		Content:  doc.Content,
	})
}

func (h *DocumentHandler) HandleListDocuments(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	contentType := c.Query("content_type")
	source := c.Query("source")

	metadatas, total, err := h.documentRepo.ListDocuments(c.Request.Context(), limit, contentType, source)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	if metadatas == nil {
		metadatas = []types.DocumentMetadata{}
	}
	c.JSON(http.StatusOK, types.DocumentListResponse{
		Documents:  metadatas,
		TotalCount: total,
	})
}

func (h *DocumentHandler) HandleCreateDocument(c *gin.Context) {
	var req types.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	if req.Metadata.ID == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Document id is required",
		})
		return
	}
	if err := types.ValidateContentType(req.Metadata.ContentType); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	doc := &types.Document{
		Metadata: req.Metadata,
		Content:  req.Content,
	}
	if err := h.documentRepo.CreateDocument(c.Request.Context(), doc); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Status: "success",
		Data:   doc.Metadata,
	})
}

func (h *DocumentHandler) HandleDeleteDocument(c *gin.Context) {
	id := c.Param("id")
	if err := h.documentRepo.DeleteDocument(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
	})
}
