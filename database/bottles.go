package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"chemtrack/model"
)

// InsertBottleInTx appends a bottle row. The tracking ID must already have
// been issued via NextTrackingIDInTx in the same transaction.
func InsertBottleInTx(tx *sqlx.Tx, b *model.Bottle) error {
	res, err := tx.Exec(`
		INSERT INTO bottles (tracking_id, cas_number, barcode, quantity_value, quantity_unit, depleted)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.TrackingID, b.CasNumber, b.Barcode, b.QuantityValue, b.QuantityUnit, b.Depleted)
	if err != nil {
		return fmt.Errorf("failed to insert bottle %s: %w", b.TrackingID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get bottle row id: %w", err)
	}
	b.ID = id
	return nil
}

// GetBottleByTrackingID fetches one bottle. Returns model.ErrNotFound when no
// bottle carries the ID.
func GetBottleByTrackingID(db *sqlx.DB, trackingID string) (*model.Bottle, error) {
	var b model.Bottle
	err := db.Get(&b, `
		SELECT id, tracking_id, cas_number, barcode, quantity_value, quantity_unit, depleted, created_at
		FROM bottles WHERE tracking_id = ?`, trackingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("bottle %s: %w", trackingID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bottle %s: %w", trackingID, err)
	}
	return &b, nil
}

// GetChemicalRecordByTrackingID fetches the joined view for one bottle.
func GetChemicalRecordByTrackingID(db *sqlx.DB, trackingID string) (*model.ChemicalRecord, error) {
	var rec model.ChemicalRecord
	err := db.Get(&rec, chemicalRecordSelect+` WHERE b.tracking_id = ?`, trackingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("bottle %s: %w", trackingID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get chemical record %s: %w", trackingID, err)
	}
	return &rec, nil
}
