package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rocjay1/finance-tracker/internal/logging"
	"github.com/rocjay1/finance-tracker/internal/models"
)

// Reconcile pairs records[i] with ids[i]. Local ids are now in milliseconds
// plus the position, so they stay unique within one batch. A position with no
// id gets a nil DBID; ids beyond len(records) are ignored.
func Reconcile(ctx context.Context, records []models.ImportRecord, ids []models.RecordID, now time.Time) []models.LocalTransaction {
	if len(ids) != len(records) {
		logging.FromContext(ctx).Warn("id count does not match submitted records",
			"records", len(records), "ids", len(ids))
	}

	base := now.UnixMilli()
	out := make([]models.LocalTransaction, len(records))
	for i, rec := range records {
		var dbID *models.RecordID
		if i < len(ids) && ids[i] != "" {
			id := ids[i]
			dbID = &id
		}
		out[i] = models.LocalTransaction{
			ID:          base + int64(i),
			DBID:        dbID,
			Name:        rec.Name,
			Amount:      rec.Amount,
			Date:        rec.Date,
			Type:        rec.Type,
			Category:    rec.Category,
			PaymentMode: rec.PaymentMode,
			Remarks:     rec.Remarks,
		}
	}
	return out
}

// DisplayWarnings returns at most limit warnings, followed by a
// "... and N more warnings" line when some were cut.
func DisplayWarnings(warnings []string, limit int) []string {
	if limit < 0 || len(warnings) <= limit {
		return warnings
	}
	out := make([]string, 0, limit+1)
	out = append(out, warnings[:limit]...)
	return append(out, fmt.Sprintf("... and %d more warnings", len(warnings)-limit))
}

// MaxDisplayWarnings is how many row warnings a status message shows.
const MaxDisplayWarnings = 5

// Banner renders the status message shown after an import, including up to
// MaxDisplayWarnings warnings.
func Banner(o *Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Successfully imported %d transactions!", o.Count)
	if len(o.Warnings) > 0 {
		b.WriteString("\n\nWarnings:\n")
		b.WriteString(strings.Join(DisplayWarnings(o.Warnings, MaxDisplayWarnings), "\n"))
	}
	return b.String()
}
