package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bucket-browser/internal/browser"
)

type FolderHandler struct {
	svc *browser.Service
}

func NewFolderHandler(svc *browser.Service) *FolderHandler {
	return &FolderHandler{svc: svc}
}

type createFolderRequest struct {
	FolderName string `json:"folderName"`
	Prefix     string `json:"prefix"`
}

func (h *FolderHandler) CreateFolder(c *gin.Context) {
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if strings.TrimSpace(req.FolderName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Folder name is required"})
		return
	}

	path, err := h.svc.CreateFolder(c.Request.Context(), req.Prefix, req.FolderName)
	if err != nil {
		fail(c, err, "Failed to create folder")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "path": path})
}

// BucketHandler makes sure the configured bucket exists.
type BucketHandler struct {
	svc *browser.Service
}

func NewBucketHandler(svc *browser.Service) *BucketHandler {
	return &BucketHandler{svc: svc}
}

func (h *BucketHandler) CheckBucket(c *gin.Context) {
	bucket, err := h.svc.EnsureBucket(c.Request.Context())
	if err != nil {
		fail(c, err, "Failed to check bucket")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bucket": bucket})
}
