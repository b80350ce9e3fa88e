package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with a small demo installation: two
// areas, three robots in different localization states and a queue of runs.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()

	areas := []struct {
		id, name, installation, deck string
		dock                         bool
	}{
		{"AREA-001", "weather deck", "HUA", "main", true},
		{"AREA-002", "process module", "HUA", "lower", false},
	}
	for _, a := range areas {
		var x, y, z sql.NullFloat64
		if a.dock {
			x = sql.NullFloat64{Float64: 12.5, Valid: true}
			y = sql.NullFloat64{Float64: 3.0, Valid: true}
			z = sql.NullFloat64{Float64: 0, Valid: true}
		}
		if _, err := database.Exec(
			"INSERT INTO areas (id, name, installation_code, deck, dock_x, dock_y, dock_z, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			a.id, a.name, a.installation, a.deck, x, y, z, now,
		); err != nil {
			return fmt.Errorf("seed areas: %w", err)
		}
	}

	robots := []struct {
		id, name, area string
	}{
		{"ROBOT-001", "anymal-1", "AREA-001"},
		{"ROBOT-002", "spot-2", ""},
		{"ROBOT-003", "taurob-3", "AREA-002"},
	}
	for _, r := range robots {
		var area sql.NullString
		if r.area != "" {
			area = sql.NullString{String: r.area, Valid: true}
		}
		if _, err := database.Exec(
			"INSERT INTO robots (id, name, current_area_id, flotilla_status, created_at) VALUES (?, ?, ?, 'normal', ?)",
			r.id, r.name, area, now,
		); err != nil {
			return fmt.Errorf("seed robots: %w", err)
		}
	}

	runs := []struct {
		id, robot, area, name, runType string
		offset                         time.Duration
	}{
		{"RUN-001", "ROBOT-001", "AREA-001", "gauge reading round", "normal", 0},
		{"RUN-002", "ROBOT-001", "AREA-001", "return home", "return_home", time.Minute},
		{"RUN-003", "ROBOT-002", "AREA-002", "localize in process module", "localization", 0},
		{"RUN-004", "ROBOT-003", "AREA-002", "thermal inspection", "normal", 10 * time.Minute},
	}
	for _, r := range runs {
		if _, err := database.Exec(
			"INSERT INTO mission_runs (id, robot_id, area_id, name, status, run_type, desired_start_time, created_at) VALUES (?, ?, ?, ?, 'pending', ?, ?, ?)",
			r.id, r.robot, r.area, r.name, r.runType, now.Add(r.offset), now,
		); err != nil {
			return fmt.Errorf("seed mission runs: %w", err)
		}
	}

	return nil
}
