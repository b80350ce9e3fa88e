package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/example/flotilla/internal/ports/primary"
)

// MissionRunAdapter translates CLI operations to MissionRunService calls.
type MissionRunAdapter struct {
	service primary.MissionRunService
	out     io.Writer
}

// NewMissionRunAdapter creates a new MissionRunAdapter with the given service.
func NewMissionRunAdapter(service primary.MissionRunService, out io.Writer) *MissionRunAdapter {
	return &MissionRunAdapter{service: service, out: out}
}

// CreateParams are the CLI inputs for queuing a run.
type CreateParams struct {
	RobotID string
	AreaID  string
	Name    string
	RunType string
	StartAt string // RFC 3339; empty means now
}

// Create queues a mission run.
func (a *MissionRunAdapter) Create(ctx context.Context, p CreateParams) error {
	req := primary.CreateMissionRunRequest{
		RobotID: p.RobotID,
		AreaID:  p.AreaID,
		Name:    p.Name,
		RunType: p.RunType,
	}
	if p.StartAt != "" {
		at, err := time.Parse(time.RFC3339, p.StartAt)
		if err != nil {
			return fmt.Errorf("invalid --start-at %q: want RFC 3339, e.g. 2026-03-01T08:00:00Z", p.StartAt)
		}
		req.DesiredStartTime = at
	}

	resp, err := a.service.CreateMissionRun(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Queued mission run %s (%s) for robot %s\n",
		resp.MissionRunID, resp.MissionRun.RunType, resp.MissionRun.RobotID)
	return nil
}

// List lists mission runs.
func (a *MissionRunAdapter) List(ctx context.Context, robotID, statuses string, limit int) error {
	filters := primary.MissionRunFilters{RobotID: robotID, Limit: limit}
	if statuses != "" {
		for _, s := range strings.Split(statuses, ",") {
			filters.Statuses = append(filters.Statuses, strings.TrimSpace(s))
		}
	}

	runs, err := a.service.ListMissionRuns(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list mission runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(a.out, "No mission runs found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-9s %-11s %-11s %-13s %-10s %s\n", "ID", "ROBOT", "STATUS", "TYPE", "AREA", "NAME")
	fmt.Fprintln(a.out, rule)
	for _, r := range runs {
		fmt.Fprintf(a.out, "%-9s %-11s %s %s %-10s %s\n",
			r.ID, r.RobotID,
			padded(r.Status, 11, colorStatus),
			padded(r.RunType, 13, colorRunType),
			orDash(r.AreaID), r.Name)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays a single mission run.
func (a *MissionRunAdapter) Show(ctx context.Context, runID string) (*primary.MissionRun, error) {
	run, err := a.service.GetMissionRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mission run: %w", err)
	}

	fmt.Fprintf(a.out, "\nMission run: %s\n", run.ID)
	fmt.Fprintf(a.out, "Name:    %s\n", run.Name)
	fmt.Fprintf(a.out, "Robot:   %s\n", run.RobotID)
	fmt.Fprintf(a.out, "Area:    %s\n", orDash(run.AreaID))
	fmt.Fprintf(a.out, "Type:    %s\n", colorRunType(run.RunType))
	fmt.Fprintf(a.out, "Status:  %s\n", colorStatus(run.Status))
	fmt.Fprintf(a.out, "Desired: %s\n", run.DesiredStartTime)
	if run.StartedAt != "" {
		fmt.Fprintf(a.out, "Started: %s\n", run.StartedAt)
	}
	if run.EndedAt != "" {
		fmt.Fprintf(a.out, "Ended:   %s\n", run.EndedAt)
	}
	fmt.Fprintln(a.out)
	return run, nil
}

// Complete records the outcome of an executing run.
func (a *MissionRunAdapter) Complete(ctx context.Context, runID, status string) error {
	err := a.service.CompleteMissionRun(ctx, primary.CompleteMissionRunRequest{
		MissionRunID: runID,
		Status:       status,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Mission run %s marked %s\n", runID, status)
	return nil
}
