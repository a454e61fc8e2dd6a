package controller

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docuchat/ragserver/models"
	"github.com/docuchat/ragserver/services"
)

// MaxUploadBytes caps uploads at 10MB.
const MaxUploadBytes = 10 << 20

// UploadController accepts a document, saves it to the upload directory, and
// runs the ingestion pipeline on it.
type UploadController struct {
	ingest    *services.IngestService
	uploadDir string
	log       *zap.Logger
}

func NewUploadController(ingest *services.IngestService, uploadDir string, log *zap.Logger) *UploadController {
	return &UploadController{ingest: ingest, uploadDir: uploadDir, log: log}
}

// Upload handles POST /upload. Validation failures are rejected before any
// extraction work happens.
func (u *UploadController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		u.log.Warn("upload failed: no file part in request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part in request"})
		return
	}
	if fileHeader.Filename == "" {
		u.log.Warn("upload failed: no selected file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}
	if !services.IsSupported(fileHeader.Filename) {
		u.log.Warn("invalid file type attempted", zap.String("filename", fileHeader.Filename))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only PDF and TXT allowed."})
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		u.log.Warn("upload too large",
			zap.String("filename", fileHeader.Filename),
			zap.Int64("size", fileHeader.Size))
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	// filepath.Base strips any path components a hostile client sends.
	fileID := uuid.New().String()
	savedPath := filepath.Join(u.uploadDir, fileID+"_"+filepath.Base(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, savedPath); err != nil {
		u.log.Error("failed to save uploaded file", zap.String("path", savedPath), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}
	u.log.Info("file uploaded",
		zap.String("filename", fileHeader.Filename),
		zap.String("saved_path", savedPath))

	chunks, err := u.ingest.IngestFile(c.Request.Context(), savedPath, fileID)
	if err != nil {
		if errors.Is(err, services.ErrNoEmbeddings) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No embeddings generated"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Message: "File uploaded and processed successfully.",
		Chunks:  chunks,
		FileID:  fileID,
	})
}
