package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordRouter(t *testing.T) *gin.Engine {
	t.Helper()
	h := NewRecordHandler(handlerStore(t), handlerStore(t))
	r := gin.New()
	r.GET("/api/hs-code/:slug", h.GetHsCode)
	r.GET("/api/us-hts/:slug", h.GetUsHts)
	r.GET("/api/chapters", h.Chapters)
	r.GET("/api/chapter/:chapter", h.ChapterRecords)
	return r
}

func TestGetHsCode_Found(t *testing.T) {
	w := getPath(recordRouter(t), "/api/hs-code/09011100")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Record struct {
				Slug   string `json:"slug"`
				NameEn string `json:"name_en"`
			} `json:"record"`
			DisplayCode string `json:"display_code"`
			Related     []any  `json:"related"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "09011100", resp.Data.Record.Slug)
	assert.Equal(t, "0901.11.00", resp.Data.DisplayCode)
	// Related records share the chapter but exclude the record itself.
	assert.Len(t, resp.Data.Related, 1)
}

func TestGetHsCode_AcceptsDottedCode(t *testing.T) {
	w := getPath(recordRouter(t), "/api/hs-code/0901.11.00")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetHsCode_NotFound(t *testing.T) {
	w := getPath(recordRouter(t), "/api/hs-code/99999999")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "RECORD_NOT_FOUND", resp.Error.Code)
}

func TestChapters_SortedList(t *testing.T) {
	w := getPath(recordRouter(t), "/api/chapters")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Chapters []string `json:"chapters"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"09", "40", "87"}, resp.Data.Chapters)
}

func TestChapterRecords(t *testing.T) {
	w := getPath(recordRouter(t), "/api/chapter/09")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Chapter string `json:"chapter"`
			Records []any  `json:"records"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "09", resp.Data.Chapter)
	assert.Len(t, resp.Data.Records, 2)
}

func TestChapterRecords_InvalidChapter(t *testing.T) {
	w := getPath(recordRouter(t), "/api/chapter/0901")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CHAPTER", resp.Error.Code)
}
