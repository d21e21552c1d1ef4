package registry

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"chemtrack/classifier"
	"chemtrack/database"
	"chemtrack/model"
)

// ListChemicalsHandler handles GET /chemicals/: every bottle joined with its
// chemical type, the flat shape the scan frontends match against.
func ListChemicalsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := database.ListChemicalRecords(db)
		if err != nil {
			log.Printf("Error listing chemicals: %v", err)
			http.Error(w, "Failed to list chemicals", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	}
}

// SearchChemicalsHandler handles GET /search?q=: substring match on name,
// CAS number or barcode.
func SearchChemicalsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			http.Error(w, "Query parameter 'q' is required", http.StatusBadRequest)
			return
		}
		records, err := database.SearchChemicalRecords(db, q)
		if err != nil {
			log.Printf("Error searching chemicals for %q: %v", q, err)
			http.Error(w, "Failed to search chemicals", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	}
}

// resolveResponse tells a scanning client what a code turned out to be.
type resolveResponse struct {
	Code         string                `json:"code"`
	Class        string                `json:"class"`
	Found        bool                  `json:"found"`
	ChemicalType *model.ChemicalType   `json:"chemical_type,omitempty"`
	Bottle       *model.ChemicalRecord `json:"bottle,omitempty"`
}

// ResolveHandler handles GET /api/resolve/{code}?mode=: classifies a scanned
// code and looks up the matching record. A miss is a normal response, not an
// HTTP error; the client prompts for new-type registration.
func ResolveHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := classifier.Normalize(strings.TrimPrefix(r.URL.Path, "/api/resolve/"))
		if code == "" {
			http.Error(w, "Code is required", http.StatusBadRequest)
			return
		}

		mode := model.ModeInventory
		if r.URL.Query().Get("mode") == string(model.ModeCheckout) {
			mode = model.ModeCheckout
		}

		lookup := NewDBLookup(db)
		resp := resolveResponse{Code: code}
		class := classifier.Classify(code, mode)
		resp.Class = class.String()

		switch class {
		case classifier.BottleTrackingID:
			rec, err := database.GetChemicalRecordByTrackingID(db, code)
			if err != nil {
				if !errors.Is(err, model.ErrNotFound) {
					log.Printf("Error resolving bottle %s: %v", code, err)
					http.Error(w, "Failed to resolve code", http.StatusInternalServerError)
					return
				}
			} else {
				resp.Found = true
				resp.Bottle = rec
			}
		default:
			ct, err := lookup.FindChemicalType(code)
			if err != nil {
				if !errors.Is(err, model.ErrNotFound) {
					log.Printf("Error resolving type code %s: %v", code, err)
					http.Error(w, "Failed to resolve code", http.StatusInternalServerError)
					return
				}
			} else {
				resp.Found = true
				resp.ChemicalType = ct
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
