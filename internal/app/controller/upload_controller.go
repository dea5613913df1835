package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vestra/vestra-backend/internal/errors"
	"github.com/vestra/vestra-backend/internal/middleware"
	"github.com/vestra/vestra-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required,gt=0"`
	Kind        string `json:"kind"` // image (default) or video
}

// GeneratePresignedURL issues a direct-to-S3 upload URL
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	allowedTypes := storage.AllowedImageTypes
	maxSize := storage.MaxImageSize
	folder := "images"
	if req.Kind == "video" {
		allowedTypes = storage.AllowedVideoTypes
		maxSize = storage.MaxVideoSize
		folder = "videos"
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedTypes); err != nil {
		log.Warn("Invalid upload content type", map[string]interface{}{
			"content_type": req.ContentType,
			"kind":         req.Kind,
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Content type not allowed",
		})
		return
	}

	if err := ctrl.storage.ValidateFileSize(req.Size, maxSize); err != nil {
		log.Warn("Upload too large", map[string]interface{}{
			"size": req.Size,
			"kind": req.Kind,
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "File is too large",
		})
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.ParseAndRespond(c, err, "generate presigned url")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"filename": req.Filename,
		"key":      response.Key,
	})

	c.JSON(http.StatusOK, response)
}
