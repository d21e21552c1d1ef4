package usage

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"chemtrack/database"
	"chemtrack/model"
)

func respondJSONError(w http.ResponseWriter, message string, statusCode int) {
	log.Println("Error response:", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// UseChemicalHandler handles POST /use_chemical/: deducts a used amount from
// one bottle. An insufficient balance rejects the whole deduction; there are
// no partial deductions.
func UseChemicalHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req model.UsageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.TrackingID == "" {
			respondJSONError(w, "tracking_id is required", http.StatusBadRequest)
			return
		}

		result, err := database.DeductUsage(db, req.TrackingID, req.AmountUsed)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrNotFound):
				respondJSONError(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, model.ErrValidation):
				respondJSONError(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, model.ErrInsufficientStock):
				respondJSONError(w, err.Error(), http.StatusConflict)
			default:
				log.Printf("Error deducting from bottle %s: %v", req.TrackingID, err)
				respondJSONError(w, "Failed to apply deduction", http.StatusInternalServerError)
			}
			return
		}

		log.Printf("Deducted %g from bottle %s, %g %s remaining",
			req.AmountUsed, req.TrackingID, result.RemainingQuantity, result.Unit)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
