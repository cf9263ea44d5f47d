package csvparse

import (
	"errors"
	"strings"
	"testing"

	"github.com/rocjay1/finance-tracker/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	content := `transaction_type,transaction_name,amount,transaction_date,category,payment_mode,remarks
expense,Lunch,42.5,2026-01-09,food,upi,with team
income,Salary,1000,1/31/2026 6:41,salary,net-banking,`

	res, err := Parse(content)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Records, 2)

	r1 := res.Records[0]
	assert.Equal(t, models.TypeExpense, r1.Type)
	assert.Equal(t, "Lunch", r1.Name)
	assert.True(t, r1.Amount.Equal(decimal.NewFromFloat(42.5)), "got %s", r1.Amount)
	assert.Equal(t, "2026-01-09", r1.Date)
	assert.Equal(t, "food", r1.Category)
	assert.Equal(t, "upi", r1.PaymentMode)
	assert.Equal(t, "with team", r1.Remarks)

	r2 := res.Records[1]
	assert.Equal(t, models.TypeIncome, r2.Type)
	assert.Equal(t, "2026-01-31", r2.Date)
	assert.Equal(t, "", r2.Remarks)
}

func TestParse_HeaderOrderIndependent(t *testing.T) {
	content := "amount,remarks,transaction_date,unknown_col,transaction_name,transaction_type\n" +
		`12.00,"note, with comma",2026-02-01,ignored,Bus,expense`

	res, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	r := res.Records[0]
	assert.Equal(t, "Bus", r.Name)
	assert.Equal(t, models.TypeExpense, r.Type)
	assert.Equal(t, "note, with comma", r.Remarks)
	assert.Equal(t, "2026-02-01", r.Date)
	assert.Equal(t, "", r.Category)
}

func TestParse_CRLFAndBlankLines(t *testing.T) {
	content := "transaction_type,transaction_name,amount,transaction_date\r\n" +
		"expense,Tea,3,2026-03-05\r\n" +
		"\r\n" +
		"   \n" +
		"income,Gift,50,2026-03-06\r\n"

	res, err := Parse(content)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "2026-03-06", res.Records[1].Date)
}

func TestParse_RowErrorsAreCollected(t *testing.T) {
	content := `transaction_type,transaction_name,amount,transaction_date
expense,Good,1,2026-01-01
refund,Bad type,1,2026-01-01
expense,,1,2026-01-01

expense,No amount,,2026-01-01
expense,Bad amount,abc,2026-01-01
expense,No date,1,
expense,Bad date,1,13/01/2026
income,Good too,2,2026-01-02`

	res, err := Parse(content)
	require.NoError(t, err)

	assert.Len(t, res.Records, 2)
	require.Len(t, res.Errors, 6)

	// Records plus errors cover every non-blank data line.
	dataLines := 0
	for _, line := range strings.Split(content, "\n")[1:] {
		if strings.TrimSpace(line) != "" {
			dataLines++
		}
	}
	assert.Equal(t, dataLines, len(res.Records)+len(res.Errors))

	assert.Equal(t, "Row 3: Invalid transaction_type: refund. Must be 'income' or 'expense'", res.Errors[0])
	assert.Equal(t, "Row 4: transaction_name is required", res.Errors[1])
	// Row 5 is blank and skipped silently.
	assert.Equal(t, "Row 6: Valid amount is required", res.Errors[2])
	assert.Equal(t, "Row 7: Valid amount is required", res.Errors[3])
	assert.Equal(t, "Row 8: transaction_date is required", res.Errors[4])
	assert.Equal(t, "Row 9: Invalid date format: 13/01/2026. Expected YYYY-MM-DD or readable date.", res.Errors[5])
}

func TestParse_MissingTrailingColumns(t *testing.T) {
	content := `transaction_type,transaction_name,amount,transaction_date,category
expense,Short`

	res, err := Parse(content)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Row 2")
	assert.Contains(t, res.Errors[0], "amount")
}

func TestParse_Structural(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
		missing []string
	}{
		{"empty", "", "CSV file is empty or has no data rows", nil},
		{"whitespace", "  \n\n  ", "CSV file is empty or has no data rows", nil},
		{"header only", "transaction_type,transaction_name,amount,transaction_date\n\n", "CSV file is empty or has no data rows", nil},
		{
			"missing columns",
			"transaction_type,name,amount\nexpense,x,1",
			"Missing required columns: transaction_name, transaction_date",
			[]string{ColumnName, ColumnDate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.content)
			assert.Nil(t, res)

			var se *StructuralError
			require.True(t, errors.As(err, &se), "expected StructuralError, got %v", err)
			assert.Equal(t, tt.message, se.Error())
			assert.Equal(t, tt.missing, se.Missing)
		})
	}
}

func TestParse_ByteOrderMark(t *testing.T) {
	content := "\ufefftransaction_type,transaction_name,amount,transaction_date\nexpense,Tea,3,2026-03-05"

	res, err := Parse(content)
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)
}
