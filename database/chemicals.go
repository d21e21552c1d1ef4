package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"chemtrack/model"
)

// GetChemicalTypeByCAS looks a type up by exact CAS number. Returns
// model.ErrNotFound when no type is registered under that CAS.
func GetChemicalTypeByCAS(db *sqlx.DB, casNumber string) (*model.ChemicalType, error) {
	var ct model.ChemicalType
	err := db.Get(&ct, `
		SELECT cas_number, name, hazards, description, sds_link, canonical_unit
		FROM chemical_types WHERE cas_number = ?`, casNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("chemical type %s: %w", casNumber, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get chemical type %s: %w", casNumber, err)
	}
	return &ct, nil
}

// GetChemicalTypeByName looks a type up by exact name. Used by the stock
// aggregator, whose public key is the display name.
func GetChemicalTypeByName(db *sqlx.DB, name string) (*model.ChemicalType, error) {
	var ct model.ChemicalType
	err := db.Get(&ct, `
		SELECT cas_number, name, hazards, description, sds_link, canonical_unit
		FROM chemical_types WHERE name = ? LIMIT 1`, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("chemical type named %q: %w", name, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get chemical type named %q: %w", name, err)
	}
	return &ct, nil
}

// GetChemicalTypeByCASInTx is the transactional variant of
// GetChemicalTypeByCAS, for callers that must see their own writes.
func GetChemicalTypeByCASInTx(tx *sqlx.Tx, casNumber string) (*model.ChemicalType, error) {
	var ct model.ChemicalType
	err := tx.Get(&ct, `
		SELECT cas_number, name, hazards, description, sds_link, canonical_unit
		FROM chemical_types WHERE cas_number = ?`, casNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("chemical type %s: %w", casNumber, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get chemical type %s: %w", casNumber, err)
	}
	return &ct, nil
}

// UpsertChemicalTypeInTx registers a type or refreshes an existing one.
// Re-registration overwrites a stored field only when the incoming value is
// non-empty; empty fields never erase data. The canonical unit is fixed at
// first registration and never updated, since existing bottles are tracked
// in it.
func UpsertChemicalTypeInTx(tx *sqlx.Tx, ct model.ChemicalType) error {
	_, err := tx.Exec(`
		INSERT INTO chemical_types (cas_number, name, hazards, description, sds_link, canonical_unit)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(cas_number) DO UPDATE SET
			name        = CASE WHEN excluded.name        != '' THEN excluded.name        ELSE name        END,
			hazards     = CASE WHEN excluded.hazards     != '' THEN excluded.hazards     ELSE hazards     END,
			description = CASE WHEN excluded.description != '' THEN excluded.description ELSE description END,
			sds_link    = CASE WHEN excluded.sds_link    != '' THEN excluded.sds_link    ELSE sds_link    END`,
		ct.CasNumber, ct.Name, ct.Hazards, ct.Description, ct.SdsLink, ct.CanonicalUnit)
	if err != nil {
		return fmt.Errorf("failed to upsert chemical type %s: %w", ct.CasNumber, err)
	}
	return nil
}

const chemicalRecordSelect = `
	SELECT b.id, t.name, t.cas_number, b.barcode, b.tracking_id,
	       b.quantity_value, b.quantity_unit,
	       t.hazards, t.description, t.sds_link, b.depleted
	FROM bottles b
	JOIN chemical_types t ON t.cas_number = b.cas_number`

// ListChemicalRecords returns every bottle joined with its type, oldest first.
func ListChemicalRecords(db *sqlx.DB) ([]model.ChemicalRecord, error) {
	records := []model.ChemicalRecord{}
	if err := db.Select(&records, chemicalRecordSelect+` ORDER BY b.id`); err != nil {
		return nil, fmt.Errorf("failed to list chemical records: %w", err)
	}
	return records, nil
}

// SearchChemicalRecords matches a substring against name, CAS number or
// barcode, case-insensitively.
func SearchChemicalRecords(db *sqlx.DB, query string) ([]model.ChemicalRecord, error) {
	pattern := "%" + query + "%"
	records := []model.ChemicalRecord{}
	err := db.Select(&records, chemicalRecordSelect+`
		WHERE t.name LIKE ? OR t.cas_number LIKE ? OR b.barcode LIKE ?
		ORDER BY b.id`, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search chemical records for %q: %w", query, err)
	}
	return records, nil
}
