package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	workspace "github.com/minibi/go-workspace/components/workspace"
)

// SaveDashboardInput persists the working dashboard copy under a title.
type SaveDashboardInput struct {
	Title string `json:"title"`
}

type saveService interface {
	SaveDashboard(ctx context.Context, title string) (workspace.Dashboard, error)
}

// SaveDashboardCommand wraps dashboard persistence for transports.
type SaveDashboardCommand struct {
	service   saveService
	telemetry Telemetry
}

// NewSaveDashboardCommand creates the command.
func NewSaveDashboardCommand(service saveService, telemetry Telemetry) *SaveDashboardCommand {
	return &SaveDashboardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveDashboardInput] = (*SaveDashboardCommand)(nil)

// Execute saves the dashboard.
func (c *SaveDashboardCommand) Execute(ctx context.Context, msg SaveDashboardInput) error {
	if c.service == nil {
		return errors.New("save command requires service")
	}
	saved, err := c.service.SaveDashboard(ctx, msg.Title)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "workspace.command.save", map[string]any{
		"dashboard_id": saved.ID,
		"title":        saved.Title,
	})
	return nil
}
