package importer

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"chemtrack/config"
	"chemtrack/enrich"
)

func respondJSONError(w http.ResponseWriter, message string, statusCode int) {
	log.Println("Error response:", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": message,
		"results": []interface{}{},
	})
}

// ImportChemicalsHandler handles POST /api/import/chemicals. A multipart
// upload imports the posted file; otherwise the configured source URL is
// fetched.
func ImportChemicalsHandler(db *sqlx.DB, client *enrich.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var results []RowResult

		if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			log.Println("Processing manual chemical list upload...")
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				respondJSONError(w, "File upload error: "+err.Error(), http.StatusBadRequest)
				return
			}
			defer r.MultipartForm.RemoveAll()

			file, _, err := r.FormFile("file")
			if err != nil {
				respondJSONError(w, "Failed to read uploaded file: "+err.Error(), http.StatusBadRequest)
				return
			}
			defer file.Close()

			results = ImportIdentifiers(r.Context(), db, client, file)
		} else {
			log.Println("Processing chemical list import from configured URL...")
			cfg := config.GetConfig()
			if cfg.ImportSourceURL == "" {
				respondJSONError(w, "No import source URL configured (importSourceURL).", http.StatusBadRequest)
				return
			}

			resp, err := http.Get(cfg.ImportSourceURL)
			if err != nil {
				respondJSONError(w, "Failed to fetch import source: "+err.Error(), http.StatusBadGateway)
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				respondJSONError(w, "Import source returned status "+resp.Status, http.StatusBadGateway)
				return
			}

			results = ImportIdentifiers(r.Context(), db, client, resp.Body)
		}

		registered := 0
		for _, res := range results {
			if res.Registered {
				registered++
			}
		}
		log.Printf("Import finished: %d/%d rows registered", registered, len(results))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"rows_processed":  len(results),
			"rows_registered": registered,
			"results":         results,
		})
	}
}
