package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tickets (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id INTEGER NOT NULL REFERENCES customers(id),
	issue       TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'open',
	priority    TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tickets_customer ON tickets(customer_id);
`

// Store wraps the customers/tickets database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and ensures the
// schema exists. SQLite supports a single writer, so the pool is pinned to
// one connection.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000",
		path,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SeedDemo inserts a small demo data set when the customers table is empty,
// so a freshly started agent has something to answer about.
func (s *Store) SeedDemo(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return fmt.Errorf("seed check failed: %w", err)
	}
	if count > 0 {
		return nil
	}

	customers := []struct {
		name, email, phone, status string
	}{
		{"Alice Johnson", "alice@example.com", "555-0101", "active"},
		{"Bob Smith", "bob@example.com", "555-0102", "active"},
		{"Carol Diaz", "carol@example.com", "555-0103", "disabled"},
		{"Dan Lee", "dan@example.com", "555-0104", "active"},
	}
	for _, c := range customers {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO customers (name, email, phone, status) VALUES (?, ?, ?, ?)`,
			c.name, c.email, c.phone, c.status,
		); err != nil {
			return fmt.Errorf("seed insert failed: %w", err)
		}
	}

	tickets := []struct {
		customerID int64
		issue      string
		priority   string
	}{
		{1, "Cannot log in after password reset", "high"},
		{2, "Billing statement shows duplicate charge", "medium"},
		{4, "Feature request: export data as CSV", "low"},
	}
	for _, t := range tickets {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO tickets (customer_id, issue, priority) VALUES (?, ?, ?)`,
			t.customerID, t.issue, t.priority,
		); err != nil {
			return fmt.Errorf("seed insert failed: %w", err)
		}
	}
	return nil
}
