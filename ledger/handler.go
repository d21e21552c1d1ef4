package ledger

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"chemtrack/model"
)

func respondJSONError(w http.ResponseWriter, message string, statusCode int) {
	log.Println("Error response:", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// SaveBottleHandler handles POST /chemicals/: registers the chemical type if
// needed and creates one bottle with a fresh tracking ID.
func SaveBottleHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var input model.BottleInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			respondJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}

		record, err := SaveBottle(db, input)
		if err != nil {
			if errors.Is(err, model.ErrValidation) {
				respondJSONError(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Printf("Error saving bottle for CAS %s: %v", input.CasNumber, err)
			respondJSONError(w, "Failed to save bottle", http.StatusInternalServerError)
			return
		}

		log.Printf("Saved bottle %s under CAS %s (%g %s)",
			record.TrackingID, record.CasNumber, record.QuantityValue, record.QuantityUnit)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(record)
	}
}
