package handlers

import (
	"errors"
	"net/http"

	"tariffdesk-backend/service"

	"github.com/gin-gonic/gin"
)

// AssistHandler handles HTTP requests for the explain and search-assist
// helpers. Both keep the original flat response shapes.
type AssistHandler struct {
	explain *service.ExplainService
	assist  *service.AssistService
}

// NewAssistHandler creates a new assist handler
func NewAssistHandler(explain *service.ExplainService, assist *service.AssistService) *AssistHandler {
	return &AssistHandler{explain: explain, assist: assist}
}

// Explain handles POST /api/explain
func (h *AssistHandler) Explain(c *gin.Context) {
	var req struct {
		HsCode string `json:"hs_code"`
		NameEn string `json:"name_en"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"text": nil})
		return
	}

	text, err := h.explain.Explain(c.Request.Context(), req.HsCode, req.NameEn)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingExplainInput):
			c.JSON(http.StatusBadRequest, gin.H{"text": nil})
		case errors.Is(err, service.ErrAIUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"text": nil})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"text": nil})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// SearchAssist handles POST /api/search-assist
func (h *AssistHandler) SearchAssist(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"suggestions": []string{}})
		return
	}

	keywords, err := h.assist.Keywords(c.Request.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingQuery):
			c.JSON(http.StatusBadRequest, gin.H{"suggestions": []string{}})
		case errors.Is(err, service.ErrAIUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"suggestions": []string{}})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"suggestions": []string{}})
		}
		return
	}
	if keywords == nil {
		keywords = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": keywords})
}
