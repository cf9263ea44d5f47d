package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rocjay1/finance-tracker/internal/logging"
	"github.com/rocjay1/finance-tracker/internal/services"
)

const maxUploadBytes = 10 << 20

// HandleUpload stores an uploaded CSV and queues it for import.
func (d *Dependencies) HandleUpload(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	if r.Method != http.MethodPost {
		logger.Warn("upload attempt with invalid method", "method", r.Method, "path", r.URL.Path)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.Warn("failed to parse multipart form", "error", err, "max_size_mb", maxUploadBytes>>20)
		WriteError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Warn("failed to get file from form", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		logger.Error("failed to read uploaded file", "filename", header.Filename, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	filename := filepath.Base(header.Filename)
	blobName := fmt.Sprintf("uploads/%s-%s-%s", time.Now().UTC().Format("20060102-150405"), uuid.NewString()[:8], filename)
	logger.Info("received file upload", "filename", filename, "size_bytes", len(content), "blob_name", blobName)

	if err := d.Blob.UploadText(r.Context(), d.UploadContainer, blobName, string(content)); err != nil {
		logger.Error("failed to upload blob", "blob_name", blobName, "container", d.UploadContainer, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to upload blob: "+err.Error())
		return
	}

	msg := services.ImportMessage{BlobName: blobName, Filename: filename}
	if err := d.Queue.EnqueueImport(r.Context(), msg); err != nil {
		logger.Error("failed to enqueue import", "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to enqueue message: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusAccepted, map[string]string{
		"status":    "queued",
		"blob_name": blobName,
	})
}
