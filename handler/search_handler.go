package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/retriever-be/repository"
	"github.com/tieubaoca/retriever-be/types"
)

type SearchHandler struct {
	documentRepo repository.DocumentRepo
}

func NewSearchHandler(documentRepo repository.DocumentRepo) *SearchHandler {
	return &SearchHandler{
		documentRepo: documentRepo,
	}
}

func (h *SearchHandler) HandleSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Query parameter 'q' is required",
		})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	scored, err := h.documentRepo.SearchDocuments(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	results := make([]types.DocumentResponse, 0, len(scored))
	for _, item := range scored {
		results = append(results, types.DocumentResponse{
			Metadata: item.Document.Metadata,
			Content:  item.Document.Content,
		})
	}
	c.JSON(http.StatusOK, types.SearchResponse{
		Query:        query,
		TotalResults: len(results),
		Results:      results,
	})
}
