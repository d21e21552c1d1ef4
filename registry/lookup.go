package registry

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"chemtrack/database"
	"chemtrack/model"
)

// DBLookup resolves scanned codes against the datastore. It satisfies
// workflow.Lookup.
type DBLookup struct {
	db *sqlx.DB
}

func NewDBLookup(db *sqlx.DB) *DBLookup {
	return &DBLookup{db: db}
}

// FindChemicalType matches a type code by exact CAS number first, then by
// exact name (labels in the field sometimes carry the product name instead
// of a CAS). Returns model.ErrNotFound on a miss.
func (l *DBLookup) FindChemicalType(code string) (*model.ChemicalType, error) {
	ct, err := database.GetChemicalTypeByCAS(l.db, code)
	if err == nil {
		return ct, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	ct, err = database.GetChemicalTypeByName(l.db, code)
	if err == nil {
		return ct, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	return nil, fmt.Errorf("code %s: %w", code, model.ErrNotFound)
}

// FindBottle matches a tracking ID to its bottle.
func (l *DBLookup) FindBottle(trackingID string) (*model.Bottle, error) {
	return database.GetBottleByTrackingID(l.db, trackingID)
}
