// Package console provides a live-dashboard notifier that prints dock
// outcomes to a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/example/flotilla/internal/ports/secondary"
)

// Notifier prints dock notifications, one line each.
type Notifier struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time

	success *color.Color
	failure *color.Color
}

// NewNotifier creates a Notifier writing to out.
func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{
		out:     out,
		now:     time.Now,
		success: color.New(color.FgHiGreen),
		failure: color.New(color.FgRed, color.Bold),
	}
}

// ReportDockSuccess prints a dock success.
func (n *Notifier) ReportDockSuccess(ctx context.Context, robot *secondary.RobotRecord, message string) {
	n.print(n.success.Sprint("✓ DOCKED"), robot, message)
}

// ReportDockFailure prints a dock failure.
func (n *Notifier) ReportDockFailure(ctx context.Context, robot *secondary.RobotRecord, message string) {
	n.print(n.failure.Sprint("✗ DOCK FAILED"), robot, message)
}

func (n *Notifier) print(marker string, robot *secondary.RobotRecord, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s [%s %s] %s\n",
		n.now().Format("15:04:05"), marker, robot.ID, robot.Name, message)
}

var _ secondary.DockNotifier = (*Notifier)(nil)
