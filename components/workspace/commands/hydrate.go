package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// HydrateWorkspaceInput triggers a full workspace hydration. A non-zero
// DatasetID scopes the pass to that dataset instead of resolving one.
type HydrateWorkspaceInput struct {
	DatasetID int64 `json:"dataset_id,omitempty"`
}

type hydrateService interface {
	Hydrate(ctx context.Context) error
	SelectDataset(ctx context.Context, datasetID int64) error
}

// HydrateWorkspaceCommand wraps workspace hydration so transports can
// trigger it without linking against the service.
type HydrateWorkspaceCommand struct {
	service   hydrateService
	telemetry Telemetry
}

// NewHydrateWorkspaceCommand creates the command.
func NewHydrateWorkspaceCommand(service hydrateService, telemetry Telemetry) *HydrateWorkspaceCommand {
	return &HydrateWorkspaceCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[HydrateWorkspaceInput] = (*HydrateWorkspaceCommand)(nil)

// Execute runs the hydration pass.
func (c *HydrateWorkspaceCommand) Execute(ctx context.Context, msg HydrateWorkspaceInput) error {
	if c.service == nil {
		return errors.New("hydrate command requires service")
	}
	var err error
	if msg.DatasetID != 0 {
		err = c.service.SelectDataset(ctx, msg.DatasetID)
	} else {
		err = c.service.Hydrate(ctx)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "workspace.command.hydrate", map[string]any{
		"dataset_id": msg.DatasetID,
	})
	return nil
}
