package database

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Tracking IDs are issued from the code_sequences table as BT + 6 digits:
// fixed 8 characters with a non-digit prefix, so the classifier can always
// tell them apart from product barcodes. Numbers are never reused.
const (
	trackingSeqName   = "BT"
	trackingIDPrefix  = "BT"
	trackingIDPadding = 6
)

// NextTrackingIDInTx increments the bottle sequence and returns the new
// tracking ID. Must run inside the same transaction as the bottle insert so a
// rolled-back save does not burn a visible row.
func NextTrackingIDInTx(tx *sqlx.Tx) (string, error) {
	var lastNo int
	err := tx.Get(&lastNo, "SELECT last_no FROM code_sequences WHERE name = ?", trackingSeqName)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("sequence '%s' not found", trackingSeqName)
		}
		return "", fmt.Errorf("failed to get sequence '%s': %w", trackingSeqName, err)
	}

	newNo := lastNo + 1
	if _, err := tx.Exec(`UPDATE code_sequences SET last_no = ? WHERE name = ?`, newNo, trackingSeqName); err != nil {
		return "", fmt.Errorf("failed to update sequence '%s': %w", trackingSeqName, err)
	}

	format := fmt.Sprintf("%s%%0%dd", trackingIDPrefix, trackingIDPadding)
	return fmt.Sprintf(format, newNo), nil
}

// InitializeTrackingSequenceFromMax aligns the sequence with the highest
// tracking ID already stored, so restoring a database backup cannot cause
// duplicate issuance.
func InitializeTrackingSequenceFromMax(tx *sqlx.Tx) error {
	var maxID sql.NullString
	err := tx.Get(&maxID,
		"SELECT tracking_id FROM bottles WHERE tracking_id LIKE 'BT%' ORDER BY tracking_id DESC LIMIT 1")

	maxNum := 0
	if err != nil {
		if err != sql.ErrNoRows {
			return err
		}
	}

	if maxID.Valid && strings.HasPrefix(maxID.String, trackingIDPrefix) {
		numPart := strings.TrimPrefix(maxID.String, trackingIDPrefix)
		maxNum, _ = strconv.Atoi(numPart)
	}

	log.Printf("INFO: [Sequence] Setting '%s' last_no to %d", trackingSeqName, maxNum)

	_, err = tx.Exec(`UPDATE code_sequences SET last_no = ? WHERE name = ?`, maxNum, trackingSeqName)
	return err
}
