// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema, including the one-active-run-per-robot index.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/flotilla/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Each pooled connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// setupFileDB opens a file-backed database through db.Open, so tests that
// race several connections run with the production connection settings.
func setupFileDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(filepath.Join(t.TempDir(), "flotilla.db"))
	if err != nil {
		t.Fatalf("failed to open file db: %v", err)
	}
	t.Cleanup(func() {
		testDB.Close()
	})
	return testDB
}

// seedArea inserts a test area with a dock and returns its ID.
func seedArea(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "AREA-001"
	}
	if name == "" {
		name = "weather deck"
	}
	_, err := db.Exec("INSERT INTO areas (id, name, installation_code, deck, dock_x, dock_y, dock_z) VALUES (?, ?, 'HUA', 'main', 1, 2, 0)", id, name)
	if err != nil {
		t.Fatalf("failed to seed area: %v", err)
	}
	return id
}

// seedRobot inserts a test robot and returns its ID.
func seedRobot(t *testing.T, db *sql.DB, id, name, areaID string) string {
	t.Helper()
	if id == "" {
		id = "ROBOT-001"
	}
	if name == "" {
		name = "anymal-1"
	}
	var area any
	if areaID != "" {
		area = areaID
	}
	_, err := db.Exec("INSERT INTO robots (id, name, current_area_id, flotilla_status) VALUES (?, ?, ?, 'normal')", id, name, area)
	if err != nil {
		t.Fatalf("failed to seed robot: %v", err)
	}
	return id
}

// seedRun inserts a test mission run and returns its ID.
func seedRun(t *testing.T, db *sql.DB, id, robotID, runType, status string, desired time.Time) string {
	t.Helper()
	if runType == "" {
		runType = "normal"
	}
	if status == "" {
		status = "pending"
	}
	_, err := db.Exec(
		"INSERT INTO mission_runs (id, robot_id, name, status, run_type, desired_start_time) VALUES (?, ?, ?, ?, ?, ?)",
		id, robotID, "run "+id, status, runType, desired.UTC(),
	)
	if err != nil {
		t.Fatalf("failed to seed mission run: %v", err)
	}
	return id
}
