package handlers

import (
	"net/http"

	"tariffdesk-backend/dataset"
	"tariffdesk-backend/models"

	"github.com/gin-gonic/gin"
)

const relatedLimit = 12

// RecordHandler handles HTTP requests for direct record and chapter lookups
// backing the code detail pages
type RecordHandler struct {
	vn *dataset.Store
	us *dataset.Store
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(vn, us *dataset.Store) *RecordHandler {
	return &RecordHandler{vn: vn, us: us}
}

// GetHsCode handles GET /api/hs-code/:slug
func (h *RecordHandler) GetHsCode(c *gin.Context) {
	h.getRecord(c, h.vn)
}

// GetUsHts handles GET /api/us-hts/:slug
func (h *RecordHandler) GetUsHts(c *gin.Context) {
	h.getRecord(c, h.us)
}

func (h *RecordHandler) getRecord(c *gin.Context, store *dataset.Store) {
	slug := models.SlugFromCode(c.Param("slug"))
	rec, ok := store.BySlug(slug)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RECORD_NOT_FOUND",
				"message": "No record for this code",
			},
		})
		return
	}

	related := store.RelatedByChapter(rec.Slug, relatedLimit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"record":       rec,
			"display_code": models.DisplayCode(rec.Slug),
			"related":      related,
		},
	})
}

// Chapters handles GET /api/chapters
func (h *RecordHandler) Chapters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"chapters": h.vn.Chapters()},
	})
}

// ChapterRecords handles GET /api/chapter/:chapter
func (h *RecordHandler) ChapterRecords(c *gin.Context) {
	chapter := models.SlugFromCode(c.Param("chapter"))
	if len(chapter) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CHAPTER",
				"message": "Chapter must be a 2-digit prefix",
			},
		})
		return
	}

	records := h.vn.ByChapter(chapter, 0)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"chapter": chapter,
			"records": records,
		},
	})
}
