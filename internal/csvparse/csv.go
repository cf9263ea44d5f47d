package csvparse

import (
	"fmt"
	"strings"

	"github.com/rocjay1/finance-tracker/internal/models"
)

// Column names understood in the header line.
const (
	ColumnType        = "transaction_type"
	ColumnName        = "transaction_name"
	ColumnAmount      = "amount"
	ColumnDate        = "transaction_date"
	ColumnCategory    = "category"
	ColumnPaymentMode = "payment_mode"
	ColumnRemarks     = "remarks"
)

// RequiredColumns must all appear in the header, in any order.
var RequiredColumns = []string{ColumnType, ColumnName, ColumnAmount, ColumnDate}

// StructuralError aborts a parse; no partial result accompanies it.
type StructuralError struct {
	Message string
	Missing []string
}

func (e *StructuralError) Error() string {
	return e.Message
}

// Result is the outcome of parsing a whole document.
type Result struct {
	Records []models.ImportRecord
	// Errors holds one "Row N: ..." message per rejected data line.
	Errors []string
}

// columnIndex maps each known column to its position in the header, -1 when absent.
type columnIndex struct {
	typ, name, amount, date, category, paymentMode, remarks int
}

func newColumnIndex(header []string) (columnIndex, []string) {
	idx := columnIndex{-1, -1, -1, -1, -1, -1, -1}
	for i, col := range header {
		// A repeated column name takes the last position, as a name-keyed row would.
		switch col {
		case ColumnType:
			idx.typ = i
		case ColumnName:
			idx.name = i
		case ColumnAmount:
			idx.amount = i
		case ColumnDate:
			idx.date = i
		case ColumnCategory:
			idx.category = i
		case ColumnPaymentMode:
			idx.paymentMode = i
		case ColumnRemarks:
			idx.remarks = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if idx.position(col) < 0 {
			missing = append(missing, col)
		}
	}
	return idx, missing
}

func (c columnIndex) position(col string) int {
	switch col {
	case ColumnType:
		return c.typ
	case ColumnName:
		return c.name
	case ColumnAmount:
		return c.amount
	case ColumnDate:
		return c.date
	case ColumnCategory:
		return c.category
	case ColumnPaymentMode:
		return c.paymentMode
	case ColumnRemarks:
		return c.remarks
	default:
		return -1
	}
}

// row builds a Row from positional values. Missing trailing values are empty.
func (c columnIndex) row(values []string) *Row {
	at := func(i int) string {
		if i < 0 || i >= len(values) {
			return ""
		}
		return values[i]
	}
	return &Row{
		Type:        at(c.typ),
		Name:        at(c.name),
		Amount:      at(c.amount),
		Date:        at(c.date),
		Category:    at(c.category),
		PaymentMode: at(c.paymentMode),
		Remarks:     at(c.remarks),
	}
}

// Parse reads a full CSV document. Header or size problems return a
// *StructuralError; bad data rows are reported in Result.Errors and skipped.
func Parse(content string) (*Result, error) {
	content = strings.TrimSpace(strings.TrimPrefix(content, "\ufeff"))
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return nil, &StructuralError{Message: "CSV file is empty or has no data rows"}
	}

	idx, missing := newColumnIndex(SplitLine(lines[0]))
	if len(missing) > 0 {
		return nil, &StructuralError{
			Message: fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")),
			Missing: missing,
		}
	}

	res := &Result{Records: []models.ImportRecord{}, Errors: []string{}}
	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rowNum := i + 2

		record, err := ValidateRow(idx.row(SplitLine(line)), rowNum)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		res.Records = append(res.Records, record)
	}

	return res, nil
}
