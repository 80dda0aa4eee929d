package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Open opens (creating if necessary) the sqlite database at path and applies
// the schema. WAL mode keeps the minute-tick writer and concurrent API
// readers from blocking each other.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if err := database.Ping(); err != nil {
		return nil, err
	}

	if _, err := database.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return database, nil
}

// Seed inserts the known tool set and starter command templates on first
// boot. It is a no-op when the tools table is already populated. Returns
// true when seeding happened so the caller can record the database_created
// audit event.
func Seed(database *sql.DB) (bool, error) {
	var n int
	if err := database.QueryRow("SELECT COUNT(*) FROM tools").Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	tx, err := database.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	tools := []struct {
		name, binary string
	}{
		{"amass", "amass"},
		{"subfinder", "subfinder"},
	}
	for _, t := range tools {
		if _, err := tx.Exec(
			`INSERT INTO tools (name, binary_path, enabled) VALUES (?, ?, 0)`,
			t.name, t.binary,
		); err != nil {
			return false, err
		}
	}

	commands := []struct {
		tool, command string
	}{
		{"amass", "amass enum -df $domain_file -o $output"},
		{"subfinder", "subfinder -dL $domain_file -all -o $output.txt"},
	}
	for _, c := range commands {
		if _, err := tx.Exec(
			`INSERT INTO commands (tool, command, file_command, cmd_type) VALUES (?, ?, 1, 'subdomain_enum')`,
			c.tool, c.command,
		); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
