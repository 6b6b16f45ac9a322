// Package telemetry provides Telemetry implementations for the workspace
// engine.
package telemetry

import (
	"context"
	"sort"

	"go.uber.org/zap"

	workspace "github.com/minibi/go-workspace/components/workspace"
)

// ZapTelemetry records workspace events as structured zap logs.
type ZapTelemetry struct {
	logger *zap.Logger
}

var _ workspace.Telemetry = (*ZapTelemetry)(nil)

// NewZap builds a Telemetry backed by the given zap logger. A nil logger
// records nothing.
func NewZap(logger *zap.Logger) *ZapTelemetry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapTelemetry{logger: logger}
}

// Record logs the event with its payload as fields, keys sorted for stable
// output.
func (t *ZapTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	if len(payload) == 0 {
		t.logger.Info(event)
		return
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, payload[k]))
	}
	t.logger.Info(event, fields...)
}
