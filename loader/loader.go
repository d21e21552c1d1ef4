package loader

import (
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"chemtrack/database"
)

// InitDatabase applies the schema and aligns the tracking-ID sequence with
// any bottles already stored.
func InitDatabase(db *sqlx.DB) error {
	log.Println("Applying database schema...")
	if err := ApplySchema(db, "schema.sql"); err != nil {
		return fmt.Errorf("failed to apply schema.sql: %w", err)
	}
	log.Println("Schema applied successfully.")

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for sequence initialization: %w", err)
	}
	defer tx.Rollback()

	if err := database.InitializeTrackingSequenceFromMax(tx); err != nil {
		return fmt.Errorf("failed to initialize tracking sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sequence initialization: %w", err)
	}
	log.Println("Tracking-ID sequence initialized.")

	return nil
}

// ApplySchema reads a schema file and executes it.
func ApplySchema(db *sqlx.DB, path string) error {
	schemaBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	if _, err := db.Exec(string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}
