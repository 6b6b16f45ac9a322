package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	workspace "github.com/minibi/go-workspace/components/workspace"
)

// AppendChartInput adds one ad-hoc chart result to the widget collection.
type AppendChartInput struct {
	Chart workspace.QueryResult `json:"chart"`
}

// ApplyLayoutInput merges a geometry update batch from the grid primitive.
type ApplyLayoutInput struct {
	Updates []workspace.LayoutUpdate `json:"updates"`
}

type widgetService interface {
	AppendFromChart(ctx context.Context, chart workspace.QueryResult)
	ApplyLayout(ctx context.Context, updates []workspace.LayoutUpdate)
}

// AppendChartCommand wraps widget appends for transports.
type AppendChartCommand struct {
	service   widgetService
	telemetry Telemetry
}

// NewAppendChartCommand creates the command.
func NewAppendChartCommand(service widgetService, telemetry Telemetry) *AppendChartCommand {
	return &AppendChartCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AppendChartInput] = (*AppendChartCommand)(nil)

// Execute appends the chart as a widget.
func (c *AppendChartCommand) Execute(ctx context.Context, msg AppendChartInput) error {
	if c.service == nil {
		return errors.New("append command requires service")
	}
	c.service.AppendFromChart(ctx, msg.Chart)
	c.telemetry.Record(ctx, "workspace.command.append", map[string]any{
		"chart_type": string(msg.Chart.Spec.Type),
	})
	return nil
}

// ApplyLayoutCommand wraps layout reconciliation for transports.
type ApplyLayoutCommand struct {
	service   widgetService
	telemetry Telemetry
}

// NewApplyLayoutCommand creates the command.
func NewApplyLayoutCommand(service widgetService, telemetry Telemetry) *ApplyLayoutCommand {
	return &ApplyLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ApplyLayoutInput] = (*ApplyLayoutCommand)(nil)

// Execute merges the update batch.
func (c *ApplyLayoutCommand) Execute(ctx context.Context, msg ApplyLayoutInput) error {
	if c.service == nil {
		return errors.New("layout command requires service")
	}
	c.service.ApplyLayout(ctx, msg.Updates)
	c.telemetry.Record(ctx, "workspace.command.layout", map[string]any{
		"updates": len(msg.Updates),
	})
	return nil
}
