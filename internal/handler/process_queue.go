package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/rocjay1/finance-tracker/internal/importer"
	"github.com/rocjay1/finance-tracker/internal/logging"
	"github.com/rocjay1/finance-tracker/internal/services"
)

// invokeRequest represents the payload from Azure Functions Custom Handler.
type invokeRequest struct {
	Data     map[string]any `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// ProcessQueue handles the queue trigger for uploaded CSVs. Failures that a
// retry cannot fix (bad CSV, no valid rows) consume the message, and so does a
// ledger save failure, because the rows are already stored remotely and a
// redelivery would insert them again. Other failures answer 500 so the host
// retries.
func (d *Dependencies) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var invokeReq invokeRequest
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("failed to read queue request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := json.Unmarshal(bodyBytes, &invokeReq); err != nil {
		logger.Error("failed to unmarshal queue request", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to unmarshal request")
		return
	}

	queueItemVal, ok := invokeReq.Data["queueItem"]
	if !ok {
		queueItemVal, ok = invokeReq.Data["queueitem"]
		if !ok {
			WriteError(w, http.StatusBadRequest, "Missing queueItem in Data")
			return
		}
	}

	var msg services.ImportMessage
	switch v := queueItemVal.(type) {
	case string:
		err = json.Unmarshal([]byte(v), &msg)
	case map[string]any:
		// The host passes JSON messages through already decoded.
		var raw []byte
		if raw, err = json.Marshal(v); err == nil {
			err = json.Unmarshal(raw, &msg)
		}
	default:
		WriteError(w, http.StatusBadRequest, "queueItem is not a string")
		return
	}
	if err != nil {
		logger.Error("failed to unmarshal queueItem", "error", err)
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid queueItem JSON: %v", err))
		return
	}

	if msg.BlobName == "" {
		logger.Warn("queue message missing blob_name")
		WriteError(w, http.StatusBadRequest, "Missing blob_name")
		return
	}
	if msg.Filename == "" {
		msg.Filename = path.Base(msg.BlobName)
	}

	logger = logger.With("blob_name", msg.BlobName, "container", d.UploadContainer)
	logger.Info("processing queue item")

	csvContent, err := d.Blob.DownloadText(r.Context(), d.UploadContainer, msg.BlobName)
	if err != nil {
		logger.Error("failed to download CSV from blob", "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to download CSV: %v", err))
		return
	}

	outcome, err := d.Importer.Import(r.Context(), strings.NewReader(csvContent))
	if err != nil {
		if importer.IsKind(err, importer.KindStructural) || importer.IsKind(err, importer.KindEmptyResult) {
			logger.Warn("uploaded CSV rejected", "error", err)
			d.notifyFailure(r.Context(), logger, msg.Filename, []string{err.Error()})
			w.WriteHeader(http.StatusOK)
			return
		}
		if importer.IsKind(err, importer.KindPersist) {
			logger.Error("transactions stored remotely but ledger not saved", "error", err)
			d.notifyFailure(r.Context(), logger, msg.Filename, []string{
				err.Error(),
				"The transactions were stored in the database but are missing from the ledger. Do not upload this file again.",
			})
			w.WriteHeader(http.StatusOK)
			return
		}
		logger.Error("import failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to import transactions: "+err.Error())
		return
	}

	logger.Info("queue processing complete", "count", outcome.Count, "warnings", len(outcome.Warnings))
	d.notifySummary(r.Context(), logger, msg.Filename, outcome)
	w.WriteHeader(http.StatusOK)
}

func (d *Dependencies) notifySummary(ctx context.Context, logger *slog.Logger, filename string, o *importer.Outcome) {
	if d.Email == nil || len(d.Recipients) == 0 {
		return
	}
	warnings := importer.DisplayWarnings(o.Warnings, importer.MaxDisplayWarnings)
	if err := d.Email.SendImportSummary(ctx, d.Recipients, filename, o.Count, warnings); err != nil {
		logger.Error("failed to send import summary", "error", err)
	}
}

func (d *Dependencies) notifyFailure(ctx context.Context, logger *slog.Logger, filename string, errs []string) {
	if d.Email == nil || len(d.Recipients) == 0 {
		return
	}
	if err := d.Email.SendErrorEmail(ctx, d.Recipients, filename, errs); err != nil {
		logger.Error("failed to send error email", "error", err)
	}
}
