package ledger

import (
	"errors"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"chemtrack/classifier"
	"chemtrack/database"
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

func bleachInput(qty float64, unit string) model.BottleInput {
	return model.BottleInput{
		Name:          "Bleach",
		CasNumber:     "BLEACH01",
		Hazards:       "Corrosive",
		QuantityValue: qty,
		QuantityUnit:  unit,
	}
}

func TestSaveBottleCreatesTypeAndBottle(t *testing.T) {
	db := newTestDB(t)

	rec, err := SaveBottle(db, bleachInput(500, "ml"))
	if err != nil {
		t.Fatalf("save bottle: %v", err)
	}
	if rec.TrackingID == "" {
		t.Fatal("no tracking id issued")
	}
	if got := classifier.Classify(rec.TrackingID, model.ModeInventory); got != classifier.BottleTrackingID {
		t.Fatalf("issued tracking id %q classifies as %v", rec.TrackingID, got)
	}

	ct, err := database.GetChemicalTypeByCAS(db, "BLEACH01")
	if err != nil {
		t.Fatalf("type was not registered: %v", err)
	}
	if ct.CanonicalUnit != "ml" {
		t.Fatalf("canonical unit = %q, want ml", ct.CanonicalUnit)
	}

	summary, err := database.AggregateStockByName(db, "Bleach")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if summary.TotalStock != 500 || summary.Unit != "ml" || summary.BottleCount != 1 {
		t.Fatalf("summary = %+v, want {500 ml 1}", summary)
	}
}

func TestSaveBottleSecondBottleSameType(t *testing.T) {
	db := newTestDB(t)

	first, err := SaveBottle(db, bleachInput(500, "ml"))
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, err := SaveBottle(db, bleachInput(250, "ml"))
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if first.TrackingID == second.TrackingID {
		t.Fatalf("tracking id %q reused", first.TrackingID)
	}

	summary, err := database.AggregateStockByName(db, "Bleach")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if summary.TotalStock != 750 || summary.BottleCount != 2 {
		t.Fatalf("summary = %+v, want {750 ml 2}", summary)
	}
}

func TestSaveBottleNormalizesUnitAliases(t *testing.T) {
	db := newTestDB(t)

	rec, err := SaveBottle(db, bleachInput(500, "mL"))
	if err != nil {
		t.Fatalf("save bottle: %v", err)
	}
	if rec.QuantityUnit != "ml" {
		t.Fatalf("quantity unit = %q, want normalized ml", rec.QuantityUnit)
	}
}

func TestSaveBottleValidation(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name  string
		input model.BottleInput
	}{
		{"zero quantity", bleachInput(0, "ml")},
		{"negative quantity", bleachInput(-10, "ml")},
		{"unknown unit", bleachInput(500, "oz")},
		{"missing cas", model.BottleInput{Name: "Bleach", QuantityValue: 500, QuantityUnit: "ml"}},
		{"missing name", model.BottleInput{CasNumber: "BLEACH01", QuantityValue: 500, QuantityUnit: "ml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SaveBottle(db, tt.input); !errors.Is(err, model.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}

	records, err := database.ListChemicalRecords(db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("%d bottles written by rejected saves, want 0", len(records))
	}
}

func TestSaveBottleRejectsUnitMismatchWithExistingType(t *testing.T) {
	db := newTestDB(t)

	if _, err := SaveBottle(db, bleachInput(500, "ml")); err != nil {
		t.Fatalf("save first: %v", err)
	}

	_, err := SaveBottle(db, bleachInput(1, "L"))
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("mixed-unit save err = %v, want ErrValidation", err)
	}

	summary, err := database.AggregateStockByName(db, "Bleach")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if summary.BottleCount != 1 {
		t.Fatalf("bottle_count = %d, rejected save must not write", summary.BottleCount)
	}
}

func TestAddBottleRequiresRegisteredType(t *testing.T) {
	db := newTestDB(t)

	_, err := AddBottle(db, "UNKNOWN1", "", 100, "ml")
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation for unregistered type", err)
	}
}

func TestRegisterChemicalTypeThenAddBottle(t *testing.T) {
	db := newTestDB(t)

	ct := model.ChemicalType{CasNumber: "67-64-1", Name: "Acetone", CanonicalUnit: "L"}
	if err := RegisterChemicalType(db, ct); err != nil {
		t.Fatalf("register: %v", err)
	}

	b, err := AddBottle(db, "67-64-1", "4901234567894", 2.5, "L")
	if err != nil {
		t.Fatalf("add bottle: %v", err)
	}
	if b.Barcode != "4901234567894" {
		t.Fatalf("barcode = %q, want scanned value stored", b.Barcode)
	}

	summary, err := database.AggregateStockByName(db, "Acetone")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if summary.TotalStock != 2.5 || summary.Unit != "L" {
		t.Fatalf("summary = %+v, want {2.5 L 1}", summary)
	}
}
