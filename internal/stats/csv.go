package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// CSVHeader is the header row WriteCSV emits.
var CSVHeader = []string{"Date", "Category", "Type", "Amount"}

// WriteCSV writes one row per transaction, in input order.
func WriteCSV(w io.Writer, txns []model.Transaction, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(CSVHeader); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	}

	for _, t := range txns {
		row := []string{
			t.Date.Format(time.DateOnly),
			t.Category.Name,
			t.Category.Status.String(),
			t.Amount.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", t.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
