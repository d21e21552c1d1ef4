package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"chemtrack/database"
	"chemtrack/model"
	"chemtrack/units"
)

// Registering a type and adding a bottle are separate operations with their
// own preconditions; SaveBottle composes them in one transaction for the
// scan-and-save workflow.

// RegisterChemicalType creates or refreshes a chemical type. New types fix
// their canonical unit here; on re-registration only non-empty fields
// overwrite and the unit is left alone.
func RegisterChemicalType(db *sqlx.DB, ct model.ChemicalType) error {
	if err := validateType(&ct); err != nil {
		return err
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin registration transaction: %w", err)
	}
	defer tx.Rollback()

	if err := database.UpsertChemicalTypeInTx(tx, ct); err != nil {
		return err
	}
	return tx.Commit()
}

// AddBottle creates one bottle under an existing chemical type and issues its
// tracking ID. The type must already be registered; the quantity must be
// positive and its unit must match the type's canonical unit.
func AddBottle(db *sqlx.DB, casNumber, barcode string, quantityValue float64, quantityUnit string) (*model.Bottle, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin bottle transaction: %w", err)
	}
	defer tx.Rollback()

	bottle, err := addBottleInTx(tx, casNumber, barcode, quantityValue, quantityUnit)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit bottle %s: %w", bottle.TrackingID, err)
	}
	return bottle, nil
}

// SaveBottle is the scan-and-save workflow: register (or refresh) the type
// and append a bottle, atomically. Returns the joined record of the created
// bottle.
func SaveBottle(db *sqlx.DB, input model.BottleInput) (*model.ChemicalRecord, error) {
	ct := model.ChemicalType{
		CasNumber:     strings.TrimSpace(input.CasNumber),
		Name:          strings.TrimSpace(input.Name),
		Hazards:       input.Hazards,
		Description:   input.Description,
		SdsLink:       input.SdsLink,
		CanonicalUnit: units.Normalize(input.QuantityUnit),
	}
	if err := validateType(&ct); err != nil {
		return nil, err
	}

	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin save transaction: %w", err)
	}
	defer tx.Rollback()

	if err := database.UpsertChemicalTypeInTx(tx, ct); err != nil {
		return nil, err
	}

	bottle, err := addBottleInTx(tx, ct.CasNumber, strings.TrimSpace(input.Barcode), input.QuantityValue, input.QuantityUnit)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit save for %s: %w", ct.CasNumber, err)
	}

	return database.GetChemicalRecordByTrackingID(db, bottle.TrackingID)
}

func addBottleInTx(tx *sqlx.Tx, casNumber, barcode string, quantityValue float64, quantityUnit string) (*model.Bottle, error) {
	if quantityValue <= 0 {
		return nil, fmt.Errorf("quantity_value must be greater than zero: %w", model.ErrValidation)
	}

	unit := units.Normalize(quantityUnit)
	if !units.IsCanonical(unit) {
		return nil, fmt.Errorf("unknown quantity_unit %q: %w", quantityUnit, model.ErrValidation)
	}

	ct, err := database.GetChemicalTypeByCASInTx(tx, casNumber)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("no chemical type registered for CAS %s: %w", casNumber, model.ErrValidation)
		}
		return nil, err
	}

	// Mixed units under one type are a data-quality defect; reject at write
	// time instead of filtering at aggregation time.
	if unit != ct.CanonicalUnit {
		return nil, fmt.Errorf("unit %s does not match canonical unit %s for %s: %w",
			unit, ct.CanonicalUnit, ct.CasNumber, model.ErrValidation)
	}

	trackingID, err := database.NextTrackingIDInTx(tx)
	if err != nil {
		return nil, err
	}

	bottle := &model.Bottle{
		TrackingID:    trackingID,
		CasNumber:     ct.CasNumber,
		Barcode:       barcode,
		QuantityValue: quantityValue,
		QuantityUnit:  unit,
	}
	if err := database.InsertBottleInTx(tx, bottle); err != nil {
		return nil, err
	}
	return bottle, nil
}

func validateType(ct *model.ChemicalType) error {
	if ct.CasNumber == "" {
		return fmt.Errorf("cas_number is required: %w", model.ErrValidation)
	}
	if ct.Name == "" {
		return fmt.Errorf("name is required: %w", model.ErrValidation)
	}
	ct.CanonicalUnit = units.Normalize(ct.CanonicalUnit)
	if !units.IsCanonical(ct.CanonicalUnit) {
		return fmt.Errorf("unknown canonical unit %q: %w", ct.CanonicalUnit, model.ErrValidation)
	}
	return nil
}
