package export

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"chemtrack/ledger"
	"chemtrack/model"
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

func TestExportCSVHandler(t *testing.T) {
	db := newTestDB(t)

	rec, err := ledger.SaveBottle(db, model.BottleInput{
		Name: "Bleach", CasNumber: "7681-52-9", QuantityValue: 500, QuantityUnit: "ml",
		Hazards: `Corrosive, "handle with care"`,
	})
	if err != nil {
		t.Fatalf("save bottle: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/export_csv", nil)
	w := httptest.NewRecorder()
	ExportCSVHandler(db)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("Content-Type = %q, want text/csv", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "inventory.csv") {
		t.Fatalf("Content-Disposition = %q", cd)
	}

	body := w.Body.String()
	if !strings.HasPrefix(body, "\xEF\xBB\xBF") {
		t.Fatal("missing UTF-8 BOM")
	}

	lines := strings.Split(strings.TrimPrefix(body, "\xEF\xBB\xBF"), "\r\n")
	if lines[0] != "ID,Name,CAS Number,Barcode,Tracking ID,Quantity,Unit,Hazards,SDS Link" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) < 2 || !strings.Contains(lines[1], rec.TrackingID) {
		t.Fatalf("data row missing tracking id: %q", lines[1])
	}
	if !strings.Contains(lines[1], `"Corrosive, ""handle with care"""`) {
		t.Fatalf("quotes not escaped: %q", lines[1])
	}
}

func TestExportCSVHandlerEmptyLedger(t *testing.T) {
	db := newTestDB(t)

	req := httptest.NewRequest(http.MethodGet, "/export_csv", nil)
	w := httptest.NewRecorder()
	ExportCSVHandler(db)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := strings.TrimPrefix(w.Body.String(), "\xEF\xBB\xBF")
	if !strings.HasPrefix(body, "ID,Name,") {
		t.Fatalf("header missing on empty export: %q", body)
	}
}
