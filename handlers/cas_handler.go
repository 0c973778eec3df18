package handlers

import (
	"errors"
	"net/http"

	"tariffdesk-backend/service"

	"github.com/gin-gonic/gin"
)

// CasHandler handles HTTP requests for CAS number lookups
type CasHandler struct {
	svc *service.CasService
}

// NewCasHandler creates a new CAS handler
func NewCasHandler(svc *service.CasService) *CasHandler {
	return &CasHandler{svc: svc}
}

// Lookup handles POST /api/cas-lookup
func (h *CasHandler) Lookup(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"suggestions": []any{}})
		return
	}

	result, err := h.svc.Lookup(c.Request.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingQuery):
			c.JSON(http.StatusBadRequest, gin.H{"suggestions": []any{}})
		case errors.Is(err, service.ErrAIUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"suggestions": []any{}})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"suggestions": []any{}})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"suggestions": result.Suggestions,
		"source":      result.Source,
	})
}
