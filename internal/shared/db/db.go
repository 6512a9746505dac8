package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func ConnectPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// Migrate garante o schema do ledger: um slot jsonb por registro e uma
// sequência ordenada de ids por kind (agents, bets, limits, ledger)
func Migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS entity_records (
			kind VARCHAR(50) NOT NULL,
			id VARCHAR(100) NOT NULL,
			doc JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (kind, id)
		)`,

		`CREATE TABLE IF NOT EXISTS entity_index (
			seq BIGSERIAL PRIMARY KEY,
			kind VARCHAR(50) NOT NULL,
			record_id VARCHAR(100) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (kind, record_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entity_index_kind_seq ON entity_index(kind, seq)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
