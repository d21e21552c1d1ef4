package importer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"chemtrack/database"
	"chemtrack/enrich"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../schema.sql")
	if err != nil {
		t.Fatalf("failed to read schema: %v", err)
	}
	db.MustExec(string(schema))
	return db
}

func newFakeEnrichment(t *testing.T) *enrich.Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/pug/compound/name/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "sodium hypochlorite") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"IdentifierList": map[string]interface{}{"CID": []int64{42}},
		})
	})
	mux.HandleFunc("/rest/pug_view/data/compound/42/JSON", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`H314 severe burns`))
	})
	mux.HandleFunc("/rest/pug/compound/cid/42/property/Title/JSON", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"PropertyTable": map[string]interface{}{
				"Properties": []map[string]interface{}{{"Title": "Sodium Hypochlorite"}},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return enrich.NewClient(srv.URL)
}

func TestImportIdentifiers(t *testing.T) {
	db := newTestDB(t)
	client := newFakeEnrichment(t)

	input := strings.Join([]string{
		"name,quantity",  // header, skipped
		`"bleach",12`,    // resolves via keyword map
		"unobtainium,1",  // enrichment miss, row fails without aborting
		"",               // blank, skipped
	}, "\n")

	results := ImportIdentifiers(context.Background(), db, client, strings.NewReader(input))

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(results), results)
	}
	if !results[0].Registered || results[0].Name != "Sodium Hypochlorite" {
		t.Fatalf("bleach row = %+v, want registered", results[0])
	}
	if results[1].Registered || results[1].Error == "" {
		t.Fatalf("unobtainium row = %+v, want failed with reason", results[1])
	}

	// The registered row is a type only; no phantom bottle appears.
	ct, err := database.GetChemicalTypeByCAS(db, "bleach")
	if err != nil {
		t.Fatalf("type not registered: %v", err)
	}
	if ct.CanonicalUnit != "ml" {
		t.Fatalf("canonical unit = %q, want default ml", ct.CanonicalUnit)
	}
	records, err := database.ListChemicalRecords(db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("import created %d bottles, want 0", len(records))
	}
}
