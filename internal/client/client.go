// Package client talks to the remote transaction endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rocjay1/finance-tracker/internal/models"
)

const defaultServerError = "Failed to upload transactions"

// ServerError is a non-2xx answer from the remote endpoint.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return "Server Error: " + e.Message
}

// Client posts batches to the bulk-insert endpoint and deletes by id.
type Client struct {
	importURL  string
	deleteURL  string
	httpClient *http.Client
}

// New returns a Client. deleteURL may be empty when deletes are not needed.
func New(importURL, deleteURL string, timeout time.Duration) *Client {
	return &Client{
		importURL:  importURL,
		deleteURL:  deleteURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// wireRecord carries the amount as a JSON number.
type wireRecord struct {
	Type        models.TransactionType `json:"transaction_type"`
	Category    string                 `json:"category"`
	Name        string                 `json:"transaction_name"`
	Amount      json.Number            `json:"amount"`
	Date        string                 `json:"transaction_date"`
	PaymentMode string                 `json:"payment_mode"`
	Remarks     string                 `json:"remarks"`
}

type bulkRequest struct {
	Transactions []wireRecord `json:"transactions"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// BulkInsert submits records as one batch.
func (c *Client) BulkInsert(ctx context.Context, records []models.ImportRecord) (*models.BatchResult, error) {
	req := bulkRequest{Transactions: make([]wireRecord, len(records))}
	for i, rec := range records {
		req.Transactions[i] = wireRecord{
			Type:        rec.Type,
			Category:    rec.Category,
			Name:        rec.Name,
			Amount:      json.Number(rec.Amount.String()),
			Date:        rec.Date,
			PaymentMode: rec.PaymentMode,
			Remarks:     rec.Remarks,
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transactions: %w", err)
	}

	var result models.BatchResult
	if err := c.do(ctx, http.MethodPost, c.importURL, body, &result); err != nil {
		return nil, err
	}
	slog.Info("bulk upload accepted", "count", result.Count, "ids", len(result.IDs))
	return &result, nil
}

// Delete removes the remote transaction with id.
func (c *Client) Delete(ctx context.Context, id models.RecordID) error {
	if c.deleteURL == "" {
		return fmt.Errorf("no delete endpoint configured")
	}

	u, err := url.Parse(c.deleteURL)
	if err != nil {
		return fmt.Errorf("invalid delete endpoint %q: %w", c.deleteURL, err)
	}
	q := u.Query()
	q.Set("id", string(id))
	u.RawQuery = q.Encode()

	return c.do(ctx, http.MethodDelete, u.String(), nil, nil)
}

func (c *Client) do(ctx context.Context, method, target string, body []byte, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", target, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := defaultServerError
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			switch {
			case eb.Message != "":
				msg = eb.Message
			case eb.Error != "":
				msg = eb.Error
			}
		}
		slog.Error("server rejected request", "method", method, "status", resp.StatusCode, "message", msg)
		return &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("invalid response from server: %w", err)
	}
	return nil
}
