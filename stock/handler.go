package stock

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"chemtrack/database"
	"chemtrack/model"
)

// TotalStockHandler handles GET /total_stock/{name}: the summed remaining
// quantity and bottle count for one chemical type.
func TotalStockHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/total_stock/")
		if name == "" {
			http.Error(w, "Chemical name is required", http.StatusBadRequest)
			return
		}

		summary, err := database.AggregateStockByName(db, name)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			log.Printf("Error aggregating stock for %q: %v", name, err)
			http.Error(w, "Failed to aggregate stock", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	}
}
