package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	workspace "github.com/minibi/go-workspace/components/workspace"
)

// AddCommentInput appends a comment to the active dashboard.
type AddCommentInput struct {
	Text string `json:"text"`
}

type commentService interface {
	AddComment(ctx context.Context, text string) (workspace.DashboardComment, error)
}

// AddCommentCommand wraps comment submission for transports.
type AddCommentCommand struct {
	service   commentService
	telemetry Telemetry
}

// NewAddCommentCommand creates the command.
func NewAddCommentCommand(service commentService, telemetry Telemetry) *AddCommentCommand {
	return &AddCommentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddCommentInput] = (*AddCommentCommand)(nil)

// Execute submits the comment.
func (c *AddCommentCommand) Execute(ctx context.Context, msg AddCommentInput) error {
	if c.service == nil {
		return errors.New("comment command requires service")
	}
	comment, err := c.service.AddComment(ctx, msg.Text)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "workspace.command.comment", map[string]any{
		"dashboard_id": comment.DashboardID,
		"comment_id":   comment.ID,
	})
	return nil
}
