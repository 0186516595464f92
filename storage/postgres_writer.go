package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"vendor-collector/models"
)

// PostgresWriter persists the deduplicated vendor set to PostgreSQL. The
// table is cleared on every run; there is no cross-run delta logic.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS vendors (
			id           SERIAL PRIMARY KEY,
			category     TEXT          NOT NULL,
			name         TEXT          NOT NULL,
			address      TEXT          NOT NULL DEFAULT '',
			phone        VARCHAR(24)   NOT NULL DEFAULT '',
			phone_valid  BOOLEAN       NOT NULL DEFAULT FALSE,
			latitude     DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude    DOUBLE PRECISION NOT NULL DEFAULT 0,
			rating       NUMERIC(4,2)  NOT NULL DEFAULT 0,
			reviews      INTEGER       NOT NULL DEFAULT 0,
			website      TEXT          NOT NULL DEFAULT '',
			maps_link    TEXT          NOT NULL DEFAULT '',
			collected_at TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_vendors_identity
			ON vendors(LOWER(name), LOWER(address));
		CREATE INDEX IF NOT EXISTS idx_vendors_category    ON vendors(category);
		CREATE INDEX IF NOT EXISTS idx_vendors_phone_valid ON vendors(phone_valid);
		CREATE INDEX IF NOT EXISTS idx_vendors_rating      ON vendors(rating);
	`)
	return err
}

// Clear deletes all existing vendors from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM vendors")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts the deduplicated vendor set, clearing old data first.
func (pw *PostgresWriter) Write(vendors []*models.VendorRecord) error {
	if len(vendors) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(vendors); i += batchSize {
		end := i + batchSize
		if end > len(vendors) {
			end = len(vendors)
		}
		if err := pw.insertBatch(vendors[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.VendorRecord) error {
	const cols = 12
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, v := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := 0; j < cols; j++ {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			v.Category, v.Name, v.Address, v.Phone, v.PhoneValid,
			v.Latitude, v.Longitude, v.Rating, v.Reviews,
			v.Website, v.MapsLink, v.CollectedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO vendors (category, name, address, phone, phone_valid,
			latitude, longitude, rating, reviews, website, maps_link, collected_at)
		VALUES %s
		ON CONFLICT (LOWER(name), LOWER(address)) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored vendors ordered by insertion.
func (pw *PostgresWriter) FetchAll() ([]*models.VendorRecord, error) {
	rows, err := pw.db.Query(`
		SELECT category, name, address, phone, phone_valid,
			latitude, longitude, rating, reviews, website, maps_link, collected_at
		FROM vendors
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var vendors []*models.VendorRecord
	for rows.Next() {
		v := &models.VendorRecord{}
		if err := rows.Scan(
			&v.Category, &v.Name, &v.Address, &v.Phone, &v.PhoneValid,
			&v.Latitude, &v.Longitude, &v.Rating, &v.Reviews,
			&v.Website, &v.MapsLink, &v.CollectedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}
