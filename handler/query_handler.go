package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	services "github.com/tieubaoca/pdf-rag-be/service"
	"github.com/tieubaoca/pdf-rag-be/types"
)

type QueryHandler struct {
	queryService *services.QueryService
}

func NewQueryHandler(queryService *services.QueryService) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
	}
}

// HandleQuery answers a free-text question with the top-k nearest chunks.
// Zero matches yields an empty result list; a failing embed or store call
// is reported as a gateway error.
func (h *QueryHandler) HandleQuery(c *gin.Context) {
	var req types.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'query' field"})
		return
	}

	response, err := h.queryService.Query(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Query failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, response)
}
