package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"chemtrack/model"
)

// DeductUsage subtracts amountUsed from one bottle. The whole operation runs
// in a transaction and the UPDATE carries a quantity guard, so two clients
// deducting from the same bottle cannot drive it negative: the loser of the
// race gets model.ErrInsufficientStock and the bottle is left unchanged.
// A bottle that reaches exactly zero is marked depleted and retained.
func DeductUsage(db *sqlx.DB, trackingID string, amountUsed float64) (*model.UsageResult, error) {
	if amountUsed <= 0 {
		return nil, fmt.Errorf("amount_used must be greater than zero: %w", model.ErrValidation)
	}

	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin deduction transaction: %w", err)
	}
	defer tx.Rollback()

	var b model.Bottle
	err = tx.Get(&b, `
		SELECT id, tracking_id, cas_number, barcode, quantity_value, quantity_unit, depleted, created_at
		FROM bottles WHERE tracking_id = ?`, trackingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("bottle %s: %w", trackingID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bottle %s for deduction: %w", trackingID, err)
	}

	if amountUsed > b.QuantityValue {
		return nil, fmt.Errorf("bottle %s holds %g %s, cannot deduct %g: %w",
			trackingID, b.QuantityValue, b.QuantityUnit, amountUsed, model.ErrInsufficientStock)
	}

	res, err := tx.Exec(`
		UPDATE bottles
		SET quantity_value = quantity_value - ?,
		    depleted = CASE WHEN quantity_value - ? <= 0 THEN 1 ELSE 0 END
		WHERE tracking_id = ? AND quantity_value >= ?`,
		amountUsed, amountUsed, trackingID, amountUsed)
	if err != nil {
		return nil, fmt.Errorf("failed to deduct from bottle %s: %w", trackingID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check deduction result for %s: %w", trackingID, err)
	}
	if affected == 0 {
		// Guard fired: a concurrent deduction got there first.
		return nil, fmt.Errorf("bottle %s changed concurrently: %w", trackingID, model.ErrInsufficientStock)
	}

	var remaining float64
	if err := tx.Get(&remaining, `SELECT quantity_value FROM bottles WHERE tracking_id = ?`, trackingID); err != nil {
		return nil, fmt.Errorf("failed to read remaining quantity for %s: %w", trackingID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit deduction for %s: %w", trackingID, err)
	}

	return &model.UsageResult{
		RemainingQuantity: remaining,
		Unit:              b.QuantityUnit,
	}, nil
}
