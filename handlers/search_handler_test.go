package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tariffdesk-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchRouter(t *testing.T) *gin.Engine {
	t.Helper()
	h := NewSearchHandler(handlerPipeline(t), nil)
	r := gin.New()
	r.GET("/api/hs-search", h.HsSearch)
	r.GET("/api/us-hts-search", h.UsHtsSearch)
	return r
}

func getPath(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type searchResponse struct {
	Results []models.SearchResult `json:"results"`
}

func TestHsSearch_EmptyQueryIsOK(t *testing.T) {
	w := getPath(searchRouter(t), "/api/hs-search?q=")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}

func TestHsSearch_ReturnsRankedResults(t *testing.T) {
	w := getPath(searchRouter(t), "/api/hs-search?q=tea")

	require.Equal(t, http.StatusOK, w.Code)
	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "09021000", resp.Results[0].Slug)
}

func TestUsHtsSearch_MissingPipelineStillOK(t *testing.T) {
	// The US dataset may be absent; the route degrades to empty results.
	w := getPath(searchRouter(t), "/api/us-hts-search?q=horses")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Results)
}
