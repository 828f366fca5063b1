package handlers

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// DownloadHandler streams purchased files.
type DownloadHandler struct {
	facade DownloadFacade
}

// NewDownloadHandler constructs DownloadHandler.
func NewDownloadHandler(facade DownloadFacade) *DownloadHandler {
	return &DownloadHandler{facade: facade}
}

// Download handles GET /api/download?token=.
func (h *DownloadHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		badRequest(c, "token is required")
		return
	}

	file, err := h.facade.OpenDownload(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Body.Close()

	c.DataFromReader(http.StatusOK, file.Size, file.ContentType, file.Body, map[string]string{
		"Content-Disposition":   mime.FormatMediaType("attachment", map[string]string{"filename": file.FileName}),
		"Cache-Control":         "no-store",
		"X-Downloads-Remaining": strconv.Itoa(file.Remaining),
	})
}
