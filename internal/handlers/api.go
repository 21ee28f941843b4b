package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

type uploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// uploadURL issues a presigned direct-upload URL so clients can push
// bytes to the backend without proxying through this service.
func (h *Handler) uploadURL(c *gin.Context) {
	if identityFrom(c) == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "please log in first"})
		return
	}

	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileName and contentType are required"})
		return
	}

	if !h.services.IsValidImageType(req.ContentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file format"})
		return
	}

	res, err := h.services.PresignUpload(c.Request.Context(), req.FileName, req.ContentType)
	if err != nil {
		h.log.Errorw("presign_failed", "fileName", req.FileName, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate upload URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"uploadUrl": res.UploadURL,
		"key":       res.Key,
		"publicUrl": res.PublicURL,
		"provider":  res.Provider,
	})
}

// downloadZip streams every image of a share as a single zip archive.
// The read is public; absent shares answer 404 with a plain-text body.
func (h *Handler) downloadZip(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.String(http.StatusBadRequest, "missing parameter id")
		return
	}

	share, err := h.services.GetShareByID(c.Request.Context(), id, "")
	if err != nil {
		h.log.Errorw("load_share_failed", "id", id, "err", err)
		c.String(http.StatusInternalServerError, "download failed")
		return
	}
	if share == nil {
		c.String(http.StatusNotFound, "share not found")
		return
	}

	archive, err := h.services.BuildArchive(c.Request.Context(), *share)
	if err != nil {
		h.log.Errorw("archive_failed", "id", id, "err", err)
		c.String(http.StatusInternalServerError, "download failed")
		return
	}

	c.Header("Content-Disposition", zipDisposition(share.Title))
	c.Data(http.StatusOK, "application/zip", archive)
}

// zipDisposition suggests the share title as the download name,
// percent-encoded for non-ASCII safety and defaulting to "images".
func zipDisposition(title string) string {
	if title == "" {
		title = "images"
	}
	encoded := url.PathEscape(title)
	plain := strings.ReplaceAll(encoded, "%20", " ")
	return fmt.Sprintf(`attachment; filename="%s.zip"; filename*=UTF-8''%s.zip`, plain, encoded)
}
