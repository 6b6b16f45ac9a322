package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Gateway is the remote dataset/AI/dashboard/team service. Every call is
// fallible and network-bound; implementations live in pkg/gateway.
type Gateway interface {
	DatasetClient
	AIClient
	DashboardClient
	TeamClient
}

// DatasetClient covers dataset upload and retrieval.
type DatasetClient interface {
	UploadDataset(ctx context.Context, userID int64, filename string, contents io.Reader) (Dataset, error)
	ListDatasets(ctx context.Context, userID int64) ([]DatasetListItem, error)
	GetDataset(ctx context.Context, datasetID, userID int64) (Dataset, error)
}

// AIClient covers profiling, history, and chart generation.
type AIClient interface {
	ProfileDataset(ctx context.Context, datasetID, userID int64) (AIProfile, error)
	AIHistory(ctx context.Context, datasetID, userID int64) (AIHistory, error)
	Ask(ctx context.Context, datasetID, userID int64, question string) (QueryResult, error)
	ComparePeriods(ctx context.Context, datasetID, userID int64, req CompareRequest) (CompareResult, error)
	GenerateDashboard(ctx context.Context, datasetID, userID int64, prompt string) (DashboardPlan, error)
	ExplainChart(ctx context.Context, datasetID, userID int64, req ExplainRequest) (string, error)
}

// DashboardClient covers dashboard persistence, sharing, and comments.
type DashboardClient interface {
	SaveDashboard(ctx context.Context, req SaveDashboardRequest) (Dashboard, error)
	ListDashboards(ctx context.Context, userID, datasetID int64) ([]Dashboard, error)
	ShareDashboard(ctx context.Context, dashboardID, userID int64) (Dashboard, error)
	PublicDashboard(ctx context.Context, token string) (Dashboard, error)
	ShareToTeam(ctx context.Context, dashboardID, userID, teamID int64, permission Role) (TeamShare, error)
	ListComments(ctx context.Context, dashboardID, userID int64) ([]DashboardComment, error)
	AddComment(ctx context.Context, dashboardID, userID int64, text string) (DashboardComment, error)
}

// TeamClient covers team membership used to scope dashboard sharing.
type TeamClient interface {
	ListTeams(ctx context.Context, userID int64) ([]Team, error)
	CreateTeam(ctx context.Context, userID int64, name string) (Team, error)
	ListTeamMembers(ctx context.Context, teamID, userID int64) ([]TeamMember, error)
	AddTeamMember(ctx context.Context, teamID, actorID, memberID int64, role Role) (TeamMember, error)
}

// IDGenerator mints widget identities unique for the session.
type IDGenerator interface {
	NewID() string
}

// SchemaColumn describes one profiled dataset column.
type SchemaColumn struct {
	Name    string `json:"name"`
	DType   string `json:"dtype"`
	Missing int    `json:"missing"`
	Unique  int    `json:"unique"`
}

// Dataset is an uploaded, profiled dataset. Immutable once profiled; a
// re-upload creates a new identity.
type Dataset struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	RowCount    int              `json:"row_count"`
	ColumnCount int              `json:"column_count"`
	Schema      []SchemaColumn   `json:"schema"`
	Sample      []map[string]any `json:"sample"`
}

// DatasetListItem is the summary row returned by the dataset listing.
type DatasetListItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
}

// AIProfile is the AI-generated dataset profile, replaced wholesale on
// re-profiling.
type AIProfile struct {
	Summary                 string           `json:"summary"`
	Insights                []string         `json:"insights"`
	SuggestedVisualizations []map[string]any `json:"suggested_visualizations"`
}

// MessageRole tags chat transcript entries.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one chat transcript entry, scoped to the active dataset.
type Message struct {
	Role MessageRole `json:"role"`
	Text string      `json:"text"`
}

// ChartType enumerates the renderable chart shapes.
type ChartType string

const (
	ChartBar       ChartType = "bar"
	ChartLine      ChartType = "line"
	ChartPie       ChartType = "pie"
	ChartHistogram ChartType = "histogram"
)

// Period tags the bucket size for period comparisons.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ChartSpec is the declarative chart description consumed by renderers.
type ChartSpec struct {
	Type        ChartType `json:"type"`
	X           string    `json:"x"`
	Y           string    `json:"y,omitempty"`
	Aggregation string    `json:"aggregation,omitempty"`
	Comparison  bool      `json:"comparison,omitempty"`
	Period      Period    `json:"period,omitempty"`
}

// ChartPoint is one plain data point.
type ChartPoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// ComparisonPoint carries the current value and, when present, the value of
// the matching previous period.
type ComparisonPoint struct {
	X        string   `json:"x"`
	Current  float64  `json:"current"`
	Previous *float64 `json:"previous,omitempty"`
}

// ChartSeries is the tagged variant for chart data: a chart holds either
// plain points or comparison points, never both.
type ChartSeries struct {
	Plain      []ChartPoint
	Comparison []ComparisonPoint
}

// IsComparison reports whether the series holds comparison points.
func (s ChartSeries) IsComparison() bool {
	return s.Comparison != nil
}

// Len returns the number of points regardless of shape.
func (s ChartSeries) Len() int {
	if s.IsComparison() {
		return len(s.Comparison)
	}
	return len(s.Plain)
}

// MarshalJSON emits the flat point array used on the wire.
func (s ChartSeries) MarshalJSON() ([]byte, error) {
	if s.IsComparison() {
		return json.Marshal(s.Comparison)
	}
	if s.Plain == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Plain)
}

type rawChartPoint struct {
	X        string   `json:"x"`
	Y        *float64 `json:"y"`
	Current  *float64 `json:"current"`
	Previous *float64 `json:"previous"`
}

// UnmarshalJSON decides the series shape from the wire payload: any point
// carrying a current value makes the whole series a comparison series.
func (s *ChartSeries) UnmarshalJSON(data []byte) error {
	var raw []rawChartPoint
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("workspace: decode chart series: %w", err)
	}
	comparison := false
	for _, p := range raw {
		if p.Current != nil {
			comparison = true
			break
		}
	}
	if comparison {
		points := make([]ComparisonPoint, len(raw))
		for i, p := range raw {
			point := ComparisonPoint{X: p.X, Previous: p.Previous}
			if p.Current != nil {
				point.Current = *p.Current
			}
			points[i] = point
		}
		*s = ChartSeries{Comparison: points}
		return nil
	}
	points := make([]ChartPoint, len(raw))
	for i, p := range raw {
		point := ChartPoint{X: p.X}
		if p.Y != nil {
			point.Y = *p.Y
		}
		points[i] = point
	}
	*s = ChartSeries{Plain: points}
	return nil
}

// LayoutRect is a widget rectangle in grid units. Only geometry matters;
// z-order is irrelevant.
type LayoutRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// DashboardWidget is one positioned chart instance within a dashboard. The
// identity is client-generated and stable for the widget's lifetime.
type DashboardWidget struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Spec   ChartSpec   `json:"chart_config"`
	Data   ChartSeries `json:"chart_data"`
	Layout LayoutRect  `json:"layout"`
}

// DashboardConfig wraps the ordered widget sequence for persistence.
type DashboardConfig struct {
	Widgets []DashboardWidget `json:"widgets"`
}

// Dashboard is the server-side authoritative dashboard snapshot. A zero ID
// marks an unsaved local draft.
type Dashboard struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	DatasetID  int64           `json:"dataset_id"`
	Config     DashboardConfig `json:"config"`
	ShareToken string          `json:"share_token,omitempty"`
	IsPublic   bool            `json:"is_public"`
	CreatedAt  string          `json:"created_at,omitempty"`
	UpdatedAt  string          `json:"updated_at,omitempty"`
}

// Role names a team permission level.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Team scopes dashboard sharing.
type Team struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	OwnerID   int64  `json:"owner_id"`
	CreatedAt string `json:"created_at,omitempty"`
}

// TeamMember is one membership row. (team, member) pairs are unique.
type TeamMember struct {
	TeamID    int64  `json:"team_id"`
	MemberID  int64  `json:"member_id"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// TeamShare acknowledges a team-level dashboard grant.
type TeamShare struct {
	DashboardID int64  `json:"dashboard_id"`
	TeamID      int64  `json:"team_id"`
	Permission  Role   `json:"permission"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// DashboardComment is append-only, ordered by creation.
type DashboardComment struct {
	ID          int64  `json:"id"`
	DashboardID int64  `json:"dashboard_id"`
	UserID      int64  `json:"user_id"`
	Text        string `json:"text"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// QueryResult is an AI answer with its chart candidate.
type QueryResult struct {
	Answer string      `json:"answer"`
	Query  string      `json:"query,omitempty"`
	Spec   ChartSpec   `json:"chart_config"`
	Data   ChartSeries `json:"chart_data"`
}

// QueryRecord is one historical AI query, as replayed during hydration.
type QueryRecord struct {
	ID        int64       `json:"id"`
	Question  string      `json:"question,omitempty"`
	Answer    string      `json:"answer"`
	Query     string      `json:"query,omitempty"`
	Spec      ChartSpec   `json:"chart_config"`
	Data      ChartSeries `json:"chart_data"`
	CreatedAt string      `json:"created_at,omitempty"`
}

// AIHistory bundles the latest profile with prior query records in
// chronological order.
type AIHistory struct {
	Profile *AIProfile    `json:"profile"`
	Queries []QueryRecord `json:"queries"`
}

// CompareRequest selects the columns and bucket for a period comparison.
type CompareRequest struct {
	DateColumn  string `json:"date_column"`
	ValueColumn string `json:"value_column"`
	Period      Period `json:"period"`
}

// CompareResult is the comparison summary plus its chart candidate.
type CompareResult struct {
	Summary string      `json:"summary"`
	Spec    ChartSpec   `json:"chart_config"`
	Data    ChartSeries `json:"chart_data"`
}

// ExplainRequest asks the AI to describe an existing chart.
type ExplainRequest struct {
	Spec     ChartSpec   `json:"chart_config"`
	Data     ChartSeries `json:"chart_data"`
	Question string      `json:"question,omitempty"`
}

// GeneratedWidget is one chart produced by NL-to-dashboard generation,
// before placement.
type GeneratedWidget struct {
	Title string      `json:"title"`
	Spec  ChartSpec   `json:"chart_config"`
	Data  ChartSeries `json:"chart_data"`
}

// DashboardPlan is the NL-to-dashboard response.
type DashboardPlan struct {
	Summary string            `json:"summary"`
	Widgets []GeneratedWidget `json:"widgets"`
}

// SaveDashboardRequest is the persistence payload. DashboardID zero creates
// a new dashboard; non-zero overwrites an existing one.
type SaveDashboardRequest struct {
	UserID      int64           `json:"user_id"`
	DatasetID   int64           `json:"dataset_id"`
	Title       string          `json:"title"`
	Config      DashboardConfig `json:"config"`
	DashboardID int64           `json:"dashboard_id,omitempty"`
}

// LayoutUpdate is one geometry change emitted by the grid primitive after a
// drag or resize ends.
type LayoutUpdate struct {
	ID     string     `json:"id"`
	Layout LayoutRect `json:"layout"`
}
