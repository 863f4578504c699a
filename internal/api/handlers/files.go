package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"bucket-browser/internal/browser"
	"bucket-browser/internal/utils"
)

// multipartOverhead is the room left for boundaries, part headers and the
// prefix field on top of the file size limit.
const multipartOverhead = 64 << 10

// FileHandler serves listings, previews, downloads and uploads.
type FileHandler struct {
	svc *browser.Service
}

func NewFileHandler(svc *browser.Service) *FileHandler {
	return &FileHandler{svc: svc}
}

// ListFiles returns the folders and files one level below ?prefix=.
func (h *FileHandler) ListFiles(c *gin.Context) {
	prefix := c.Query("prefix")

	items, err := h.svc.List(c.Request.Context(), prefix)
	if err != nil {
		fail(c, err, "Failed to list files")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "prefix": prefix})
}

// MediaFiles returns only the images and videos under ?prefix=, in listing
// order, for the slideshow.
func (h *FileHandler) MediaFiles(c *gin.Context) {
	prefix := c.Query("prefix")

	items, err := h.svc.Media(c.Request.Context(), prefix)
	if err != nil {
		fail(c, err, "Failed to list files")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "prefix": prefix})
}

func (h *FileHandler) Breadcrumbs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": browser.Breadcrumbs(c.Query("prefix"))})
}

// Preview streams the object with its stored content type.
func (h *FileHandler) Preview(c *gin.Context) {
	key := c.Query("path")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File path is required"})
		return
	}

	obj, err := h.svc.Open(c.Request.Context(), key)
	if err != nil {
		fail(c, err, "Failed to preview file")
		return
	}
	// Always close the storage stream to prevent connection leaks
	defer obj.Body.Close()

	c.DataFromReader(http.StatusOK, obj.ContentLength, obj.ContentType, obj.Body, nil)
}

// Download streams the object as an attachment.
func (h *FileHandler) Download(c *gin.Context) {
	key := c.Query("path")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File path is required"})
		return
	}

	obj, err := h.svc.Open(c.Request.Context(), key)
	if err != nil {
		fail(c, err, "Failed to download file")
		return
	}
	defer obj.Body.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": `attachment; filename="` + url.PathEscape(utils.DownloadName(key)) + `"`,
	}
	c.DataFromReader(http.StatusOK, obj.ContentLength, browser.DefaultContentType, obj.Body, extraHeaders)
}

// Upload stores the multipart field "file" under the form field "prefix".
func (h *FileHandler) Upload(c *gin.Context) {
	limit := h.svc.MaxUploadSize()
	if limit > 0 {
		if c.Request.ContentLength > limit+multipartOverhead {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	if limit > 0 && fileHeader.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error("failed to open upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}
	defer file.Close()

	key, err := h.svc.Upload(
		c.Request.Context(),
		c.PostForm("prefix"),
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		fail(c, err, "Failed to upload file")
		return
	}

	uploadedBytes.Add(float64(fileHeader.Size))
	slog.Info("uploaded", "key", key, "size", humanize.Bytes(uint64(fileHeader.Size)))
	c.JSON(http.StatusOK, gin.H{"success": true, "path": key})
}

// PresignedURL returns a time-limited direct link to ?path=.
func (h *FileHandler) PresignedURL(c *gin.Context) {
	key := c.Query("path")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File path is required"})
		return
	}

	u, err := h.svc.PresignURL(c.Request.Context(), key)
	if err != nil {
		fail(c, err, "Failed to generate download URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": u})
}
