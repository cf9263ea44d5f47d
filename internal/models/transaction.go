package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// ParseTransactionType returns the type for an exact, case-sensitive match.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(s) {
	case TypeIncome:
		return TypeIncome, true
	case TypeExpense:
		return TypeExpense, true
	default:
		return "", false
	}
}

// ImportRecord is a validated transaction candidate read from a CSV row.
// Date is always canonical YYYY-MM-DD.
type ImportRecord struct {
	Type        TransactionType `json:"transaction_type"`
	Category    string          `json:"category"`
	Name        string          `json:"transaction_name"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"transaction_date"`
	PaymentMode string          `json:"payment_mode"`
	Remarks     string          `json:"remarks"`
}

// RecordID is an identifier assigned by the remote store.
// Numeric ids (SQL) and opaque ids (table row keys) share this type.
type RecordID string

// MarshalJSON writes integer ids as JSON numbers and everything else as strings.
func (id RecordID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid record id %s: %w", data, err)
	}
	*id = RecordID(n.String())
	return nil
}

// BatchResult is the bulk-insert response. IDs[i] belongs to the i-th submitted record.
type BatchResult struct {
	Count   int        `json:"count"`
	IDs     []RecordID `json:"ids"`
	Message string     `json:"message"`
}

// LocalTransaction is a reconciled record held in the local ledger.
type LocalTransaction struct {
	ID          int64           `json:"id"`
	DBID        *RecordID       `json:"dbId"` // nil until the remote store assigned one
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	PaymentMode string          `json:"paymentMode"`
	Remarks     string          `json:"remarks"`
}
