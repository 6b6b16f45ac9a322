package workspace

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator checks a dashboard config before it is sent to the remote
// side. Validation failures are local; they never reach the network.
type ConfigValidator interface {
	ValidateConfig(config DashboardConfig) error
}

// dashboardConfigSchema constrains the persisted widget sequence: stable
// identities, a known chart type, and integer grid geometry.
const dashboardConfigSchema = `{
	"type": "object",
	"required": ["widgets"],
	"properties": {
		"widgets": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "title", "chart_config", "chart_data", "layout"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"title": {"type": "string"},
					"chart_config": {
						"type": "object",
						"required": ["type", "x"],
						"properties": {
							"type": {"enum": ["bar", "line", "pie", "histogram"]},
							"x": {"type": "string", "minLength": 1}
						}
					},
					"chart_data": {"type": "array"},
					"layout": {
						"type": "object",
						"required": ["x", "y", "w", "h"],
						"properties": {
							"x": {"type": "integer", "minimum": 0},
							"y": {"type": "integer", "minimum": 0},
							"w": {"type": "integer", "minimum": 1, "maximum": 12},
							"h": {"type": "integer", "minimum": 1}
						}
					}
				}
			}
		}
	}
}`

// SchemaValidator validates dashboard configs against a JSON schema and
// enforces widget identity uniqueness.
type SchemaValidator struct {
	once     sync.Once
	compiled *jsonschema.Schema
	compile  error
}

// NewConfigValidator builds the default validator.
func NewConfigValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// ValidateConfig ensures the config satisfies the schema and that every
// widget identity is unique within the dashboard.
func (v *SchemaValidator) ValidateConfig(config DashboardConfig) error {
	seen := make(map[string]struct{}, len(config.Widgets))
	for _, w := range config.Widgets {
		if _, dup := seen[w.ID]; dup {
			return fmt.Errorf("workspace: duplicate widget id %q", w.ID)
		}
		seen[w.ID] = struct{}{}
	}
	schema, err := v.schema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("workspace: marshal dashboard config: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("workspace: normalize dashboard config: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("workspace: dashboard config failed validation: %w", err)
	}
	return nil
}

func (v *SchemaValidator) schema() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("dashboard_config.json", strings.NewReader(dashboardConfigSchema)); err != nil {
			v.compile = fmt.Errorf("workspace: add config schema: %w", err)
			return
		}
		schema, err := compiler.Compile("dashboard_config.json")
		if err != nil {
			v.compile = fmt.Errorf("workspace: compile config schema: %w", err)
			return
		}
		v.compiled = schema
	})
	return v.compiled, v.compile
}
