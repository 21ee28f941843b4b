package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"imageshare/internal/models"
	"imageshare/internal/service"

	"github.com/gin-gonic/gin"
)

// shareForm is the multipart contract shared by add and edit: title,
// name, description, a comma-joined URL list, optional file attachments.
type shareForm struct {
	Title       string
	Name        string
	Description string
	Images      []models.Image
}

func (h *Handler) bindShareForm(c *gin.Context) (*shareForm, bool) {
	form := &shareForm{
		Title:       c.PostForm("title"),
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Images:      parseImageURLs(c.PostForm("images")),
	}

	if form.Title == "" || form.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "title and creator name are required",
			"share": gin.H{
				"title":       form.Title,
				"name":        form.Name,
				"description": form.Description,
				"images":      form.Images,
			},
		})
		return nil, false
	}

	uploaded, err := h.uploadAttachments(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return nil, false
	}
	form.Images = append(form.Images, uploaded...)

	return form, true
}

// parseImageURLs splits a comma-joined URL list, dropping blanks.
// Externally supplied URLs are treated as already hosted: the preview
// falls back to the original and the content type stays unknown.
func parseImageURLs(raw string) []models.Image {
	images := []models.Image{}
	for _, u := range strings.Split(raw, ",") {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		images = append(images, models.Image{URL: u, PreviewURL: u})
	}
	return images
}

// uploadAttachments pushes any multipart file attachments through image
// ingress and returns their stored descriptors in submission order.
func (h *Handler) uploadAttachments(c *gin.Context) ([]models.Image, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Plain form posts without attachments are fine.
		return nil, nil
	}

	var images []models.Image
	for _, fh := range form.File["files"] {
		img, err := h.uploadAttachment(c, fh)
		if err != nil {
			return nil, err
		}
		images = append(images, *img)
	}
	return images, nil
}

func (h *Handler) uploadAttachment(c *gin.Context, fh *multipart.FileHeader) (*models.Image, error) {
	contentType := fh.Header.Get("Content-Type")
	if !h.services.IsValidImageType(contentType) {
		return nil, errors.New("unsupported file format: " + fh.Filename)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, errors.New("failed to read attachment " + fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.New("failed to read attachment " + fh.Filename)
	}

	key := h.services.GenerateUniqueFileName(fh.Filename)
	res := h.services.UploadFile(c.Request.Context(), data, key, contentType)
	if !res.Success {
		return nil, errors.New("upload failed: " + res.Error)
	}

	previewURL := res.PreviewURL
	if previewURL == "" {
		previewURL = res.URL
	}
	return &models.Image{
		URL:         res.URL,
		PreviewURL:  previewURL,
		Filename:    fh.Filename,
		ContentType: contentType,
	}, nil
}

func (h *Handler) listShares(c *gin.Context) {
	identity := identityFrom(c)
	shares, err := h.services.GetAllShares(c.Request.Context(), identity.ID, identity.IsAdmin())
	if err != nil {
		h.log.Errorw("list_shares_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load shares"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shares": shares, "isAdmin": identity.IsAdmin()})
}

// newShare returns the blank form payload for the add page.
func (h *Handler) newShare(c *gin.Context) {
	identity := identityFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"share": gin.H{
			"title":       "",
			"name":        "",
			"description": "",
			"images":      []models.Image{},
		},
		"isAdmin": identity.IsAdmin(),
	})
}

func (h *Handler) createShare(c *gin.Context) {
	form, ok := h.bindShareForm(c)
	if !ok {
		return
	}
	identity := identityFrom(c)

	_, err := h.services.CreateShare(c.Request.Context(), models.Share{
		Title:       form.Title,
		Name:        form.Name,
		Description: form.Description,
		Images:      form.Images,
	}, identity.ID)
	if err != nil {
		h.log.Errorw("create_share_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save share"})
		return
	}

	c.Redirect(http.StatusSeeOther, adminRootPath)
}

// editShare loads a share for editing; non-admins only see their own,
// and a non-owned id answers exactly like a missing one.
func (h *Handler) editShare(c *gin.Context) {
	identity := identityFrom(c)
	ownerFilter := identity.ID
	if identity.IsAdmin() {
		ownerFilter = ""
	}

	share, err := h.services.GetShareByID(c.Request.Context(), c.Param("id"), ownerFilter)
	if err != nil {
		h.log.Errorw("load_share_failed", "id", c.Param("id"), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load share"})
		return
	}
	if share == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "share not found or access denied"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"share": share})
}

func (h *Handler) updateShare(c *gin.Context) {
	form, ok := h.bindShareForm(c)
	if !ok {
		return
	}
	identity := identityFrom(c)

	_, err := h.services.UpdateShare(c.Request.Context(), c.Param("id"), models.Share{
		Title:       form.Title,
		Name:        form.Name,
		Description: form.Description,
		Images:      form.Images,
	}, identity.ID, identity.IsAdmin())
	if err != nil {
		if errors.Is(err, service.ErrNotFoundOrForbidden) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		h.log.Errorw("update_share_failed", "id", c.Param("id"), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save share"})
		return
	}

	c.Redirect(http.StatusSeeOther, adminRootPath)
}

func (h *Handler) deleteShare(c *gin.Context) {
	identity := identityFrom(c)

	err := h.services.DeleteShare(c.Request.Context(), c.Param("id"), identity.ID, identity.IsAdmin())
	if err != nil {
		if errors.Is(err, service.ErrNotFoundOrForbidden) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		h.log.Errorw("delete_share_failed", "id", c.Param("id"), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete share"})
		return
	}

	c.Redirect(http.StatusSeeOther, adminRootPath)
}

// viewShare is the public read by id; no auth required.
func (h *Handler) viewShare(c *gin.Context) {
	share, err := h.services.GetShareByID(c.Request.Context(), c.Param("id"), "")
	if err != nil {
		h.log.Errorw("load_share_failed", "id", c.Param("id"), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load share"})
		return
	}
	if share == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "share not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"share": share})
}
