package csvparse

import (
	"fmt"

	"github.com/rocjay1/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// Row holds the raw values of one data line, keyed by the known columns.
// Unknown columns are dropped when the row is built.
type Row struct {
	Type        string
	Name        string
	Amount      string
	Date        string
	Category    string
	PaymentMode string
	Remarks     string
}

// ValidationError describes why a single row was rejected.
type ValidationError struct {
	Row     int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(row int, field, format string, args ...any) *ValidationError {
	return &ValidationError{Row: row, Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateRow checks r against the field rules, first failure wins. On
// success the row's Date is replaced by its canonical form and the typed
// record is returned.
func ValidateRow(r *Row, rowNum int) (models.ImportRecord, error) {
	if r.Type == "" {
		return models.ImportRecord{}, invalid(rowNum, ColumnType, "transaction_type is required")
	}
	typ, ok := models.ParseTransactionType(r.Type)
	if !ok {
		return models.ImportRecord{}, invalid(rowNum, ColumnType,
			"Invalid transaction_type: %s. Must be 'income' or 'expense'", r.Type)
	}

	if r.Name == "" {
		return models.ImportRecord{}, invalid(rowNum, ColumnName, "transaction_name is required")
	}

	if r.Amount == "" {
		return models.ImportRecord{}, invalid(rowNum, ColumnAmount, "Valid amount is required")
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.ImportRecord{}, invalid(rowNum, ColumnAmount, "Valid amount is required")
	}

	if r.Date == "" {
		return models.ImportRecord{}, invalid(rowNum, ColumnDate, "transaction_date is required")
	}
	normalized := NormalizeDate(r.Date)
	if !IsCanonicalDate(normalized) {
		return models.ImportRecord{}, invalid(rowNum, ColumnDate,
			"Invalid date format: %s. Expected YYYY-MM-DD or readable date.", r.Date)
	}
	r.Date = normalized

	return models.ImportRecord{
		Type:        typ,
		Category:    r.Category,
		Name:        r.Name,
		Amount:      amount,
		Date:        r.Date,
		PaymentMode: r.PaymentMode,
		Remarks:     r.Remarks,
	}, nil
}
