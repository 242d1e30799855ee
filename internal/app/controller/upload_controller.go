package controller

import (
	"net/http"

	"github.com/bellavista/bellavista-backend/internal/errors"
	"github.com/bellavista/bellavista-backend/internal/middleware"
	"github.com/bellavista/bellavista-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s3 *storage.S3Storage) *UploadController {
	return &UploadController{storage: s3}
}

type presignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required,gt=0"`
	Folder      string `json:"folder"`
}

var allowedFolders = map[string]bool{
	"items":      true,
	"categories": true,
}

// PresignUpload hands out a presigned PUT URL for a menu image.
// POST /api/v1/admin/uploads/presign
func (ctrl *UploadController) PresignUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Filename, content type and size are required")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = "items"
	}
	if !allowedFolders[folder] {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Unknown upload folder")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, storage.AllowedImageTypes); err != nil {
		errors.BadRequest(c, errors.UploadInvalidFileType, "Only JPEG, PNG and WebP images are allowed")
		return
	}
	if err := ctrl.storage.ValidateFileSize(req.Size, storage.MaxUploadSize); err != nil {
		errors.BadRequest(c, errors.UploadFileTooLarge, "Images must be 5 MB or smaller")
		return
	}

	resp, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err)
		errors.RespondWithError(c, http.StatusInternalServerError, errors.UploadFailed,
			"Failed to prepare the upload")
		return
	}
	c.JSON(http.StatusOK, resp)
}
