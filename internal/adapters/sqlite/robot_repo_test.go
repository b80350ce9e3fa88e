package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/flotilla/internal/adapters/sqlite"
	"github.com/example/flotilla/internal/errors"
	"github.com/example/flotilla/internal/ports/secondary"
)

func TestRobotRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	seedArea(t, db, "", "")
	repo := sqlite.NewRobotRepository(db)
	ctx := context.Background()

	robot := &secondary.RobotRecord{ID: "ROBOT-001", Name: "anymal-1", CurrentAreaID: "AREA-001"}
	if err := repo.Create(ctx, robot); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if robot.FlotillaStatus != "normal" {
		t.Errorf("expected default status normal, got %s", robot.FlotillaStatus)
	}

	byID, err := repo.GetByID(ctx, "ROBOT-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if byID.CurrentAreaID != "AREA-001" {
		t.Errorf("expected area AREA-001, got %q", byID.CurrentAreaID)
	}

	byName, err := repo.GetByName(ctx, "anymal-1")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if byName.ID != "ROBOT-001" {
		t.Errorf("expected ROBOT-001, got %s", byName.ID)
	}

	dup := &secondary.RobotRecord{ID: "ROBOT-002", Name: "anymal-1"}
	if err := repo.Create(ctx, dup); !errors.IsConflict(err) {
		t.Errorf("expected Conflict for duplicate name, got %v", err)
	}
}

func TestRobotRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRobotRepository(db)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "ROBOT-404"); !errors.IsNotFound(err) {
		t.Errorf("GetByID: expected NotFound, got %v", err)
	}
	if err := repo.UpdateFlotillaStatus(ctx, "ROBOT-404", "docked"); !errors.IsNotFound(err) {
		t.Errorf("UpdateFlotillaStatus: expected NotFound, got %v", err)
	}
}

func TestRobotRepository_Updates(t *testing.T) {
	db := setupTestDB(t)
	seedArea(t, db, "", "")
	seedRobot(t, db, "", "", "AREA-001")
	repo := sqlite.NewRobotRepository(db)
	ctx := context.Background()

	if err := repo.UpdateFlotillaStatus(ctx, "ROBOT-001", "docked"); err != nil {
		t.Fatalf("UpdateFlotillaStatus failed: %v", err)
	}
	if err := repo.SetQueueFrozen(ctx, "ROBOT-001", true); err != nil {
		t.Fatalf("SetQueueFrozen failed: %v", err)
	}
	if err := repo.UpdateCurrentArea(ctx, "ROBOT-001", ""); err != nil {
		t.Fatalf("UpdateCurrentArea failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "ROBOT-001")
	if got.FlotillaStatus != "docked" {
		t.Errorf("expected docked, got %s", got.FlotillaStatus)
	}
	if !got.QueueFrozen {
		t.Error("expected queue to be frozen")
	}
	if got.CurrentAreaID != "" {
		t.Errorf("expected area cleared, got %q", got.CurrentAreaID)
	}
}

func TestRobotRepository_ListAndNextID(t *testing.T) {
	db := setupTestDB(t)
	seedRobot(t, db, "ROBOT-002", "spot-2", "")
	seedRobot(t, db, "ROBOT-001", "anymal-1", "")
	repo := sqlite.NewRobotRepository(db)
	ctx := context.Background()

	robots, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(robots) != 2 || robots[0].Name != "anymal-1" {
		t.Errorf("expected robots ordered by name, got %+v", robots)
	}

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "ROBOT-003" {
		t.Errorf("expected ROBOT-003, got %s", id)
	}
}
