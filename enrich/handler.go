package enrich

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"chemtrack/model"
)

// AutofillHandler handles GET /autofill/{name}. Enrichment failures are not
// errors here: the response says found=false and the user fills the fields
// by hand.
func AutofillHandler(client *Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/autofill/")
		if name == "" {
			http.Error(w, "Chemical name is required", http.StatusBadRequest)
			return
		}

		result, err := client.Lookup(r.Context(), name)
		if err != nil {
			if !errors.Is(err, model.ErrEnrichmentUnavailable) {
				log.Printf("WARN: Enrichment lookup for %q failed: %v", name, err)
			}
			result = &model.EnrichmentResult{Found: false}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
