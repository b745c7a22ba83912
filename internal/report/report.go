package report

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/skin-community/skin-dev-tools/internal/validator"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	project    TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS diagnostics (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id   INTEGER NOT NULL REFERENCES runs(id),
	file     TEXT NOT NULL,
	line     INTEGER NOT NULL,
	tag      TEXT NOT NULL,
	check_id TEXT NOT NULL,
	severity TEXT NOT NULL,
	message  TEXT NOT NULL
);
`

// Write appends one check run with its diagnostics to a SQLite database,
// creating the file and schema on first use. Useful as a CI artifact for
// trending findings over time.
func Write(path, projectName string, diags []validator.Diagnostic) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open report database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create report schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT INTO runs (project, created_at) VALUES (?, ?)",
		projectName, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		"INSERT INTO diagnostics (run_id, file, line, tag, check_id, severity, message) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range diags {
		severity := "error"
		if d.Level == validator.LevelWarning {
			severity = "warning"
		}
		if _, err := stmt.Exec(runID, d.File, d.Line, d.Tag, d.Check, severity, d.Message); err != nil {
			return err
		}
	}
	return tx.Commit()
}
