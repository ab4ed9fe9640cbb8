package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jwalitptl/claimtrack-api/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS claims (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	entry_date TEXT NOT NULL,
	admission_date TEXT NOT NULL,
	customer_name TEXT NOT NULL,
	policy_number TEXT NOT NULL,
	hospital_name TEXT NOT NULL,
	company_name TEXT NOT NULL,
	claim_number TEXT,
	claim_status TEXT NOT NULL,
	claim_type TEXT NOT NULL,
	claimed_amount REAL,
	approved_amount REAL,
	parent_claim_id INTEGER REFERENCES claims (id),
	remark TEXT,
	tpa_name TEXT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_claims_customer_name ON claims (customer_name);
CREATE INDEX IF NOT EXISTS idx_claims_policy_number ON claims (policy_number);
CREATE INDEX IF NOT EXISTS idx_claims_claim_status ON claims (claim_status);
CREATE INDEX IF NOT EXISTS idx_claims_company_name ON claims (company_name);
CREATE INDEX IF NOT EXISTS idx_claims_entry_date ON claims (entry_date);
CREATE INDEX IF NOT EXISTS idx_claims_parent_claim_id ON claims (parent_claim_id);
`

func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", cfg.Path)

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writes against reads and keeps an
	// in-memory database alive across requests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates the claims table and its indexes if they do not exist.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
