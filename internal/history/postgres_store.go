package history

import (
	"parquetry/internal/errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS conversion_history (
	id             TEXT PRIMARY KEY,
	original_name  TEXT NOT NULL,
	converted_name TEXT NOT NULL,
	original_size  BIGINT NOT NULL,
	converted_size BIGINT NOT NULL,
	elapsed_ms     BIGINT NOT NULL,
	converted_at   TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps history in a Postgres table. Used when DATABASE_URL is
// configured; otherwise the JSON file store applies.
type PostgresStore struct {
	db         *sqlx.DB
	maxEntries int
}

// NewPostgresStore connects to the database and ensures the history table
func NewPostgresStore(databaseURL string, maxEntries int) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, errors.WithCode(errors.CodeHistoryStore, err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, errors.WithCode(errors.CodeHistoryStore, err)
	}
	return &PostgresStore{db: db, maxEntries: maxEntries}, nil
}

// Add inserts the entry and evicts anything beyond the retention cap
func (s *PostgresStore) Add(entry Entry) error {
	_, err := s.db.NamedExec(`
		INSERT INTO conversion_history
			(id, original_name, converted_name, original_size, converted_size, elapsed_ms, converted_at)
		VALUES
			(:id, :original_name, :converted_name, :original_size, :converted_size, :elapsed_ms, :converted_at)`,
		entry)
	if err != nil {
		return errors.WithCode(errors.CodeHistoryStore, err)
	}

	_, err = s.db.Exec(`
		DELETE FROM conversion_history
		WHERE id NOT IN (
			SELECT id FROM conversion_history ORDER BY converted_at DESC LIMIT $1
		)`, s.maxEntries)
	if err != nil {
		return errors.WithCode(errors.CodeHistoryStore, err)
	}
	return nil
}

// List returns all retained entries, newest first
func (s *PostgresStore) List() ([]Entry, error) {
	var entries []Entry
	err := s.db.Select(&entries, `
		SELECT id, original_name, converted_name, original_size, converted_size, elapsed_ms, converted_at
		FROM conversion_history ORDER BY converted_at DESC`)
	if err != nil {
		return nil, errors.WithCode(errors.CodeHistoryStore, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Delete removes the entry with the given id
func (s *PostgresStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM conversion_history WHERE id = $1`, id); err != nil {
		return errors.WithCode(errors.CodeHistoryStore, err)
	}
	return nil
}

// Close releases the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
