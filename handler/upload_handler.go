package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	services "github.com/tieubaoca/pdf-rag-be/service"
	"github.com/tieubaoca/pdf-rag-be/types"
	"github.com/tieubaoca/pdf-rag-be/utils"
)

type UploadHandler struct {
	ingestService *services.IngestService
	uploadDir     string
}

func NewUploadHandler(ingestService *services.IngestService, uploadDir string) *UploadHandler {
	return &UploadHandler{
		ingestService: ingestService,
		uploadDir:     uploadDir,
	}
}

// UploadDocumentHandler ingests a PDF from a multipart form. Progress is
// streamed as SSE messages; the final message distinguishes "no usable
// text" from "storage failed" so the client can tell processing problems
// apart from store problems.
func (h *UploadHandler) UploadDocumentHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "No PDF file provided.",
		})
		return
	}

	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Only PDF files are supported",
		})
		return
	}

	const maxSize = 50 << 20
	if file.Size > maxSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "File too large",
		})
		return
	}

	// Optional metadata form field: {"source": ..., "tags": [...]}
	var req types.UploadRequest
	if metadata := c.Request.FormValue("metadata"); metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &req); err != nil {
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Status:  "error",
				Message: "Invalid metadata",
			})
			return
		}
	}
	if req.Source == "" {
		req.Source = file.Filename
	}

	ext := filepath.Ext(file.Filename)
	baseName := utils.SanitizeFileName(strings.TrimSuffix(file.Filename, ext))
	destName := fmt.Sprintf("%s_%d%s", baseName, time.Now().Unix(), ext)
	destPath := filepath.Join(h.uploadDir, destName)
	if err := c.SaveUploadedFile(file, destPath); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Failed to save uploaded file",
		})
		return
	}

	statusChan := make(chan types.ProcessingDocumentStatus)
	errChan := make(chan error, 1)
	var record *types.IngestRecord
	go func() {
		defer close(statusChan)
		r, err := h.ingestService.IngestFile(c.Request.Context(), destPath, req, statusChan)
		record = r
		errChan <- err
	}()

	for status := range statusChan {
		jsonStatus, err := json.Marshal(status)
		if err != nil {
			continue
		}
		c.SSEvent("message", string(jsonStatus))
		c.Writer.Flush()
	}

	if err := <-errChan; err != nil {
		switch {
		case errors.Is(err, services.ErrNoUsableText), errors.Is(err, services.ErrEmptyChunkSet):
			c.JSON(http.StatusUnprocessableEntity, types.DataResponse{
				Status:  "error",
				Message: "No usable text extracted from document",
			})
		case errors.Is(err, services.ErrStoreFailed):
			c.JSON(http.StatusBadGateway, types.DataResponse{
				Status:  "error",
				Message: "Storage failed: " + err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, types.DataResponse{
				Status:  "error",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data: types.UploadResponse{
			Source:      record.Source,
			TotalChunks: record.TotalChunks,
		},
	})
}
