package export

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"chemtrack/database"
)

func quoteAll(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// csvHeader is the fixed export layout; downstream spreadsheets key on these
// column names.
var csvHeader = []string{
	"ID", "Name", "CAS Number", "Barcode", "Tracking ID",
	"Quantity", "Unit", "Hazards", "SDS Link",
}

// ExportCSVHandler handles GET /export_csv: the full ledger as a CSV
// download.
func ExportCSVHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := database.ListChemicalRecords(db)
		if err != nil {
			log.Printf("Error exporting chemicals: %v", err)
			http.Error(w, "Failed to export chemicals", http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		buf.Write([]byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM for Excel
		buf.WriteString(strings.Join(csvHeader, ",") + "\r\n")

		for _, rec := range records {
			row := []string{
				fmt.Sprintf("%d", rec.ID),
				quoteAll(rec.Name),
				quoteAll(rec.CasNumber),
				quoteAll(rec.Barcode),
				quoteAll(rec.TrackingID),
				fmt.Sprintf("%g", rec.QuantityValue),
				quoteAll(rec.QuantityUnit),
				quoteAll(rec.Hazards),
				quoteAll(rec.SdsLink),
			}
			buf.WriteString(strings.Join(row, ",") + "\r\n")
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=inventory.csv")
		w.Write(buf.Bytes())
	}
}
