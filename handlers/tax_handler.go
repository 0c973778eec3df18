package handlers

import (
	"net/http"

	"tariffdesk-backend/tax"

	"github.com/gin-gonic/gin"
)

// TaxHandler handles HTTP requests for the duty calculator
type TaxHandler struct{}

// NewTaxHandler creates a new tax handler
func NewTaxHandler() *TaxHandler {
	return &TaxHandler{}
}

// ComputeImport handles POST /api/tax/import
func (h *TaxHandler) ComputeImport(c *gin.Context) {
	var in tax.ImportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_INPUT",
				"message": err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tax.ComputeImport(in),
	})
}

// ComputeExport handles POST /api/tax/export
func (h *TaxHandler) ComputeExport(c *gin.Context) {
	var in tax.ExportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_INPUT",
				"message": err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tax.ComputeExport(in),
	})
}
