package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// the payroll tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

// Dates are stored as YYYY-MM-DD text so BETWEEN compares them as calendar
// dates; amounts are stored as text to keep decimal precision.
func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			employee_code TEXT UNIQUE NOT NULL,
			full_name TEXT NOT NULL,
			designation TEXT NOT NULL DEFAULT '',
			deleted_at DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS attendance_records (
			employee_id TEXT NOT NULL,
			date TEXT NOT NULL,
			status TEXT NOT NULL,
			check_in_time TEXT,
			check_out_time TEXT,
			PRIMARY KEY (employee_id, date),
			FOREIGN KEY (employee_id) REFERENCES employees(id)
		)`,

		`CREATE TABLE IF NOT EXISTS salary_payments (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL,
			amount TEXT NOT NULL,
			payment_date TEXT NOT NULL,
			payment_mode TEXT NOT NULL,
			paid_by TEXT NOT NULL,
			notes TEXT,
			FOREIGN KEY (employee_id) REFERENCES employees(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_salary_payments_employee_date ON salary_payments(employee_id, payment_date)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}
