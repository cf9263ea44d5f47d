package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rocjay1/finance-tracker/internal/logging"
	"github.com/rocjay1/finance-tracker/internal/models"
	"github.com/rocjay1/finance-tracker/internal/services"
	"github.com/shopspring/decimal"
)

// transactionPayload is one record as the browser client sends it.
type transactionPayload struct {
	Type        string        `json:"transaction_type"`
	Category    string        `json:"category"`
	Name        string        `json:"transaction_name"`
	Amount      payloadAmount `json:"amount"`
	Date        string        `json:"transaction_date"`
	PaymentMode string        `json:"payment_mode"`
	Remarks     string        `json:"remarks"`
}

// payloadAmount accepts a JSON number, a numeric string, "" or null. Anything
// unparseable leaves it invalid rather than failing the whole request.
type payloadAmount struct {
	decimal.NullDecimal
}

func (a *payloadAmount) UnmarshalJSON(data []byte) error {
	a.Valid = false
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		a.Decimal, a.Valid = d, true
	}
	return nil
}

// complete reports whether every required field is present. A zero amount
// counts as missing.
func (p transactionPayload) complete() bool {
	return p.Type != "" && p.Name != "" && p.Amount.Valid && !p.Amount.Decimal.IsZero() && p.Date != ""
}

func (p transactionPayload) record() models.ImportRecord {
	return models.ImportRecord{
		Type:        models.TransactionType(p.Type),
		Category:    p.Category,
		Name:        p.Name,
		Amount:      p.Amount.Decimal,
		Date:        p.Date,
		PaymentMode: p.PaymentMode,
		Remarks:     p.Remarks,
	}
}

type bulkImportRequest struct {
	Transactions []transactionPayload `json:"transactions"`
}

// HandleBulkImport inserts a whole batch atomically and answers with the
// assigned ids in submission order.
func (d *Dependencies) HandleBulkImport(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var req bulkImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Transactions) == 0 {
		logger.Warn("rejected bulk import request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request: transactions array is required")
		return
	}

	var details []string
	records := make([]models.ImportRecord, len(req.Transactions))
	for i, p := range req.Transactions {
		if !p.complete() {
			details = append(details, fmt.Sprintf("Row %d: Missing required fields", i+1))
			continue
		}
		records[i] = p.record()
	}
	if len(details) > 0 {
		logger.Warn("bulk import validation failed", "invalid", len(details), "total", len(req.Transactions))
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Validation failed",
			"details": details,
		})
		return
	}

	result, err := d.Store.BulkInsert(r.Context(), records)
	if err != nil {
		logger.Error("bulk insert failed", "count", len(records), "error", err)
		WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Database error",
			"message": err.Error(),
		})
		return
	}

	logger.Info("bulk import stored", "count", result.Count)
	WriteJSON(w, http.StatusOK, models.BatchResult{
		Message: fmt.Sprintf("Successfully imported %d transactions", result.Count),
		Count:   result.Count,
		IDs:     result.IDs,
	})
}

// HandleInsertTransaction stores a single record.
func (d *Dependencies) HandleInsertTransaction(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var p transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		logger.Warn("invalid transaction request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !p.complete() {
		WriteError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	id, err := d.Store.Insert(r.Context(), p.record())
	if err != nil {
		logger.Error("failed to insert transaction", "transaction_name", p.Name, "error", err)
		WriteError(w, http.StatusInternalServerError, "DB Error: "+err.Error())
		return
	}

	logger.Info("inserted transaction", "id", id)
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Transaction inserted successfully",
		"id":      id,
	})
}

// HandleDeleteTransaction deletes by ?id= or a JSON body {"id": ...}.
func (d *Dependencies) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	id := models.RecordID(strings.TrimSpace(r.URL.Query().Get("id")))
	if id == "" && r.Body != nil {
		var body struct {
			ID models.RecordID `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			id = body.ID
		}
	}
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Transaction ID is required")
		return
	}

	if err := d.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		logger.Error("failed to delete transaction", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "DB Error: "+err.Error())
		return
	}

	logger.Info("deleted transaction", "id", id)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}
