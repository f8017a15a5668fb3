package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/retriever-be/repository"
	"github.com/tieubaoca/retriever-be/types"
)

type StatsHandler struct {
	documentRepo repository.DocumentRepo
}

func NewStatsHandler(documentRepo repository.DocumentRepo) *StatsHandler {
	return &StatsHandler{
		documentRepo: documentRepo,
	}
}

func (h *StatsHandler) HandleHealth(c *gin.Context) {
	total, err := h.documentRepo.CountDocuments(c.Request.Context())
	if err != nil {
		log.Printf("Failed to count documents: %v", err)
	}
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:          "ok",
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		DocumentsLoaded: total,
	})
}

func (h *StatsHandler) HandleStats(c *gin.Context) {
	total, err := h.documentRepo.CountDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data: map[string]interface{}{
			"total_documents": total,
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
		},
	})
}
