package handler

import (
	"net/http"
	"time"

	"github.com/rocjay1/finance-tracker/internal/logging"
)

const (
	rawUploadObject = "raw.csv"
	uploadURLTTL    = 15 * time.Minute
)

// HandleUploadURL returns a short-lived URL the browser can PUT a CSV to.
func (d *Dependencies) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	url, err := d.Signer.SignedUploadURL(r.Context(), rawUploadObject, "text/csv", uploadURLTTL)
	if err != nil {
		logger.Error("failed to generate signed upload url", "object", rawUploadObject, "error", err)
		WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Error generating upload URL",
			"details": err.Error(),
		})
		return
	}

	logger.Info("generated signed upload url", "object", rawUploadObject, "ttl", uploadURLTTL)
	WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
