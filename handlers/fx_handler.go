package handlers

import (
	"net/http"

	"tariffdesk-backend/service"

	"github.com/gin-gonic/gin"
)

// FxHandler handles HTTP requests for the USD/VND reference rate
type FxHandler struct {
	svc *service.FxService
}

// NewFxHandler creates a new FX handler
func NewFxHandler(svc *service.FxService) *FxHandler {
	return &FxHandler{svc: svc}
}

// Rate handles GET /api/fx-rate
func (h *FxHandler) Rate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"base":  "USD",
		"quote": "VND",
		"rate":  h.svc.UsdVnd(c.Request.Context()),
	})
}
