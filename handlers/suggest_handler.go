package handlers

import (
	"errors"
	"net/http"

	"tariffdesk-backend/dataset"
	"tariffdesk-backend/service"

	"github.com/gin-gonic/gin"
)

// SuggestHandler handles HTTP requests for tariff-code suggestions. Response
// shapes match the public API contract: a suggestions array plus the image
// hint, never an envelope.
type SuggestHandler struct {
	svc *service.SuggestService
}

// NewSuggestHandler creates a new suggest handler
func NewSuggestHandler(svc *service.SuggestService) *SuggestHandler {
	return &SuggestHandler{svc: svc}
}

type suggestRequest struct {
	Description  string `json:"description"`
	ImageDataURL string `json:"imageDataUrl"`
}

// HsSuggest handles POST /api/hs-suggest
func (h *SuggestHandler) HsSuggest(c *gin.Context) {
	h.suggest(c, dataset.KindVietnamHS)
}

// UsHtsSuggest handles POST /api/us-hts-suggest
func (h *SuggestHandler) UsHtsSuggest(c *gin.Context) {
	h.suggest(c, dataset.KindUsHTS)
}

func (h *SuggestHandler) suggest(c *gin.Context, kind dataset.Kind) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"suggestions": []any{}, "error": "invalid request body"})
		return
	}

	result, err := h.svc.Suggest(c.Request.Context(), service.SuggestRequest{
		Kind:         kind,
		Description:  req.Description,
		ImageDataURL: req.ImageDataURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingInput):
			c.JSON(http.StatusBadRequest, gin.H{"suggestions": []any{}, "error": "Provide description and/or image"})
		case errors.Is(err, service.ErrVisionUnavailable), errors.Is(err, service.ErrDatasetUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"suggestions": []any{}, "error": err.Error()})
		case errors.Is(err, service.ErrVisionFailed):
			c.JSON(http.StatusBadGateway, gin.H{"suggestions": []any{}, "error": "Vision model error"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"suggestions": []any{}, "error": "internal error"})
		}
		return
	}

	resp := gin.H{"suggestions": result.Suggestions}
	if result.ImageHint != "" {
		resp["imageHint"] = result.ImageHint
	} else {
		resp["imageHint"] = nil
	}
	c.JSON(http.StatusOK, resp)
}
