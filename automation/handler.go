package automation

import (
	"encoding/json"
	"log"
	"net/http"

	"chemtrack/config"
)

// DownloadSDSHandler handles POST /api/sds/download: fetches the SDS
// document for a compound and stores it in the configured SDS folder.
func DownloadSDSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Compound string `json:"compound"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Compound == "" {
			http.Error(w, "Field 'compound' is required", http.StatusBadRequest)
			return
		}

		cfg := config.GetConfig()
		path, err := DownloadSDS(cfg.EnrichmentBaseURL, req.Compound, cfg.SdsFolderPath)
		if err != nil {
			log.Printf("Error downloading SDS for %q: %v", req.Compound, err)
			http.Error(w, "SDS download failed: "+err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"saved_to": path})
	}
}
