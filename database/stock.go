package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"chemtrack/model"
)

// AggregateStockByName computes total remaining stock for a chemical type,
// keyed by exact name. Bottles whose unit differs from the type's canonical
// unit are excluded from the sum but still counted; the mismatch is surfaced
// in ExcludedBottles and logged, never silently dropped.
func AggregateStockByName(db *sqlx.DB, name string) (*model.StockSummary, error) {
	ct, err := GetChemicalTypeByName(db, name)
	if err != nil {
		return nil, err
	}

	var agg struct {
		Total    float64 `db:"total"`
		Count    int     `db:"cnt"`
		Excluded int     `db:"excluded"`
	}
	err = db.Get(&agg, `
		SELECT
			COALESCE(SUM(CASE WHEN b.quantity_unit = t.canonical_unit THEN b.quantity_value ELSE 0 END), 0) AS total,
			COUNT(b.id) AS cnt,
			COALESCE(SUM(CASE WHEN b.quantity_unit <> t.canonical_unit THEN 1 ELSE 0 END), 0) AS excluded
		FROM bottles b
		JOIN chemical_types t ON t.cas_number = b.cas_number
		WHERE t.name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stock for %q: %w", name, err)
	}

	if agg.Excluded > 0 {
		log.Printf("WARN: [Stock] %d bottle(s) of %q have a unit other than %s and were excluded from the total",
			agg.Excluded, name, ct.CanonicalUnit)
	}

	return &model.StockSummary{
		TotalStock:      agg.Total,
		Unit:            ct.CanonicalUnit,
		BottleCount:     agg.Count,
		ExcludedBottles: agg.Excluded,
	}, nil
}
