package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	workspace "github.com/minibi/go-workspace/components/workspace"
)

// ShareDashboardInput requests a public share token for the active dashboard.
type ShareDashboardInput struct{}

// ShareToTeamInput grants a team a permission on the active dashboard.
type ShareToTeamInput struct {
	TeamID     int64          `json:"team_id"`
	Permission workspace.Role `json:"permission"`
}

type shareService interface {
	ShareDashboard(ctx context.Context) (workspace.Dashboard, error)
	ShareToTeam(ctx context.Context, teamID int64, permission workspace.Role) (workspace.TeamShare, error)
}

// ShareDashboardCommand wraps public sharing for transports.
type ShareDashboardCommand struct {
	service   shareService
	telemetry Telemetry
}

// NewShareDashboardCommand creates the command.
func NewShareDashboardCommand(service shareService, telemetry Telemetry) *ShareDashboardCommand {
	return &ShareDashboardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ShareDashboardInput] = (*ShareDashboardCommand)(nil)

// Execute requests the share token.
func (c *ShareDashboardCommand) Execute(ctx context.Context, _ ShareDashboardInput) error {
	if c.service == nil {
		return errors.New("share command requires service")
	}
	shared, err := c.service.ShareDashboard(ctx)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "workspace.command.share", map[string]any{
		"dashboard_id": shared.ID,
		"token":        shared.ShareToken,
	})
	return nil
}

// ShareToTeamCommand wraps team-level sharing for transports.
type ShareToTeamCommand struct {
	service   shareService
	telemetry Telemetry
}

// NewShareToTeamCommand creates the command.
func NewShareToTeamCommand(service shareService, telemetry Telemetry) *ShareToTeamCommand {
	return &ShareToTeamCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ShareToTeamInput] = (*ShareToTeamCommand)(nil)

// Execute grants the permission.
func (c *ShareToTeamCommand) Execute(ctx context.Context, msg ShareToTeamInput) error {
	if c.service == nil {
		return errors.New("team share command requires service")
	}
	if msg.TeamID == 0 {
		return errors.New("team share command requires team id")
	}
	permission := msg.Permission
	if permission == "" {
		permission = workspace.RoleEditor
	}
	share, err := c.service.ShareToTeam(ctx, msg.TeamID, permission)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "workspace.command.team_share", map[string]any{
		"dashboard_id": share.DashboardID,
		"team_id":      share.TeamID,
	})
	return nil
}
