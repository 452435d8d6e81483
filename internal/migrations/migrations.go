package migrations

import (
	"context"
	"fmt"

	"medtrack/m/internal/database"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS inventory (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL CHECK (length(trim(name)) > 0),
            quantity INTEGER NOT NULL CHECK (quantity >= 0),
            price REAL NOT NULL CHECK (price >= 0),
            exp_date DATE NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS prescriptions (
            prescription_id INTEGER PRIMARY KEY AUTOINCREMENT,
            patient_id TEXT NOT NULL,
            drug_id INTEGER NOT NULL,
            dosage TEXT NOT NULL,
            issue_dt DATE NOT NULL,
            FOREIGN KEY(drug_id) REFERENCES inventory(id) ON DELETE RESTRICT
        );`,
	`CREATE INDEX IF NOT EXISTS idx_prescriptions_issue_dt ON prescriptions (issue_dt);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS inventory (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL CHECK (length(trim(name)) > 0),
            quantity BIGINT NOT NULL CHECK (quantity >= 0),
            price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
            exp_date DATE NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS prescriptions (
            prescription_id BIGSERIAL PRIMARY KEY,
            patient_id TEXT NOT NULL,
            drug_id BIGINT NOT NULL REFERENCES inventory(id) ON DELETE RESTRICT,
            dosage TEXT NOT NULL,
            issue_dt DATE NOT NULL
        );`,
	`CREATE INDEX IF NOT EXISTS idx_prescriptions_issue_dt ON prescriptions (issue_dt);`,
}

// Schema returns the DDL statements for a dialect.
func Schema(d database.Dialect) []string {
	if d == database.Postgres {
		return postgresSchema
	}
	return sqliteSchema
}

// Run creates the inventory and prescriptions tables if they are missing.
// It is safe to call on every startup.
func Run(ctx context.Context, db *database.DB) error {
	for _, stmt := range Schema(db.Dialect) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
