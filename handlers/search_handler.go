package handlers

import (
	"net/http"
	"strings"

	"tariffdesk-backend/models"
	"tariffdesk-backend/search"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles HTTP requests for ranked free-text dataset search
type SearchHandler struct {
	vn *search.Pipeline
	us *search.Pipeline
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(vn, us *search.Pipeline) *SearchHandler {
	return &SearchHandler{vn: vn, us: us}
}

// HsSearch handles GET /api/hs-search?q=
func (h *SearchHandler) HsSearch(c *gin.Context) {
	h.searchWith(c, h.vn)
}

// UsHtsSearch handles GET /api/us-hts-search?q=
func (h *SearchHandler) UsHtsSearch(c *gin.Context) {
	h.searchWith(c, h.us)
}

func (h *SearchHandler) searchWith(c *gin.Context, pipeline *search.Pipeline) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" || pipeline == nil {
		c.JSON(http.StatusOK, gin.H{"results": []models.SearchResult{}})
		return
	}
	results := pipeline.QuickSearch(q)
	if results == nil {
		results = []models.SearchResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
