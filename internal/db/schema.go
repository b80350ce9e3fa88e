package db

import "database/sql"

// SchemaSQL is the complete schema for fresh installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests load it
// through GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a
// repository referencing a missing column fails immediately.
//
// When adding columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Areas (installation locations robots operate and dock in)
CREATE TABLE IF NOT EXISTS areas (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	installation_code TEXT NOT NULL,
	deck TEXT NOT NULL,
	dock_x REAL,
	dock_y REAL,
	dock_z REAL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(installation_code, name)
);

-- Robots (fleet members)
CREATE TABLE IF NOT EXISTS robots (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	current_area_id TEXT,
	flotilla_status TEXT NOT NULL CHECK(flotilla_status IN ('normal', 'docked', 'recharging')) DEFAULT 'normal',
	queue_frozen INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (current_area_id) REFERENCES areas(id) ON DELETE SET NULL
);

-- Mission runs (one scheduled execution of a robot task)
CREATE TABLE IF NOT EXISTS mission_runs (
	id TEXT PRIMARY KEY,
	robot_id TEXT NOT NULL,
	area_id TEXT,
	name TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'ongoing', 'paused', 'successful', 'aborted', 'failed')) DEFAULT 'pending',
	run_type TEXT NOT NULL CHECK(run_type IN ('normal', 'localization', 'return_home', 'emergency')) DEFAULT 'normal',
	desired_start_time DATETIME NOT NULL,
	started_at DATETIME,
	ended_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (robot_id) REFERENCES robots(id) ON DELETE CASCADE,
	FOREIGN KEY (area_id) REFERENCES areas(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_mission_runs_robot_status ON mission_runs(robot_id, status);

-- At most one ongoing or paused run per robot.
CREATE UNIQUE INDEX IF NOT EXISTS idx_mission_runs_one_active
	ON mission_runs(robot_id) WHERE status IN ('ongoing', 'paused');

-- Dashboard notifications (dock success/failure feed)
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	robot_id TEXT NOT NULL,
	robot_name TEXT NOT NULL,
	kind TEXT NOT NULL CHECK(kind IN ('dock_success', 'dock_failure')),
	message TEXT NOT NULL,
	actor_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_robot ON notifications(robot_id, created_at);
`

// GetSchemaSQL returns the authoritative schema for tests.
func GetSchemaSQL() string {
	return SchemaSQL
}

// InitSchema brings database up to date. Fresh databases get SchemaSQL
// directly and are stamped with every migration version; older databases
// run the pending migrations.
func InitSchema(database *sql.DB) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(database)
	}

	if _, err := database.Exec(SchemaSQL); err != nil {
		return err
	}
	if _, err := database.Exec(schemaVersionSQL); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}
