package csvparse

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRow() *Row {
	return &Row{
		Type:   "expense",
		Name:   "Coffee",
		Amount: "4.20",
		Date:   "1/9/2026 6:41",
	}
}

func TestValidateRow_NormalizesDateInPlace(t *testing.T) {
	row := validRow()

	rec, err := ValidateRow(row, 2)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-09", row.Date)
	assert.Equal(t, "2026-01-09", rec.Date)
	assert.True(t, rec.Amount.Equal(decimal.RequireFromString("4.2")))
}

func TestValidateRow_Rules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Row)
		field   string
		message string
	}{
		{"missing type", func(r *Row) { r.Type = "" }, ColumnType, "transaction_type is required"},
		{"bad type", func(r *Row) { r.Type = "refund" }, ColumnType, "Invalid transaction_type: refund. Must be 'income' or 'expense'"},
		{"type is case sensitive", func(r *Row) { r.Type = "Expense" }, ColumnType, "Invalid transaction_type: Expense. Must be 'income' or 'expense'"},
		{"missing name", func(r *Row) { r.Name = "" }, ColumnName, "transaction_name is required"},
		{"missing amount", func(r *Row) { r.Amount = "" }, ColumnAmount, "Valid amount is required"},
		{"bad amount", func(r *Row) { r.Amount = "12abc" }, ColumnAmount, "Valid amount is required"},
		{"missing date", func(r *Row) { r.Date = "" }, ColumnDate, "transaction_date is required"},
		{"bad date", func(r *Row) { r.Date = "31/12/2025 10:00" }, ColumnDate, "Invalid date format: 31/12/2025 10:00. Expected YYYY-MM-DD or readable date."},
		{"first failure wins", func(r *Row) { r.Name = ""; r.Amount = "" }, ColumnName, "transaction_name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(row)
			original := row.Date

			_, err := ValidateRow(row, 7)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, 7, ve.Row)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Error())
			assert.Equal(t, original, row.Date, "rejected rows keep their original date")
		})
	}
}

func TestValidateRow_AmountForms(t *testing.T) {
	for _, amount := range []string{"-15", "0", ".5", "1e3", "1000000.01"} {
		row := validRow()
		row.Amount = amount
		_, err := ValidateRow(row, 2)
		assert.NoError(t, err, amount)
	}
}
