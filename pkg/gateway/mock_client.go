package gateway

import (
	"context"
	"fmt"
	"io"
	"sync"

	workspace "github.com/minibi/go-workspace/components/workspace"
)

// MockData seeds deterministic gateway responses for tests or local demos.
type MockData struct {
	Datasets   []workspace.Dataset
	Profiles   map[int64]workspace.AIProfile
	Histories  map[int64]workspace.AIHistory
	Dashboards []workspace.Dashboard
	Teams      []workspace.Team
	Members    map[int64][]workspace.TeamMember
	Comments   map[int64][]workspace.DashboardComment
	Answer     workspace.QueryResult
	Compare    workspace.CompareResult
	Plan       workspace.DashboardPlan
}

// MockClient implements the workspace Gateway using in-memory fixtures.
// Saves assign ids, shares mint tokens, comments append, so client flows can
// run end to end without a server.
type MockClient struct {
	mu     sync.Mutex
	data   MockData
	nextID int64
}

var _ workspace.Gateway = (*MockClient)(nil)

// NewMockClient builds a mock gateway from fixtures.
func NewMockClient(data MockData) *MockClient {
	if data.Profiles == nil {
		data.Profiles = map[int64]workspace.AIProfile{}
	}
	if data.Histories == nil {
		data.Histories = map[int64]workspace.AIHistory{}
	}
	if data.Members == nil {
		data.Members = map[int64][]workspace.TeamMember{}
	}
	if data.Comments == nil {
		data.Comments = map[int64][]workspace.DashboardComment{}
	}
	return &MockClient{data: data, nextID: 1000}
}

func (c *MockClient) UploadDataset(_ context.Context, _ int64, filename string, contents io.Reader) (workspace.Dataset, error) {
	if contents != nil {
		_, _ = io.Copy(io.Discard, contents)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	dataset := workspace.Dataset{ID: c.nextID, Name: filename}
	c.data.Datasets = append(c.data.Datasets, dataset)
	return dataset, nil
}

func (c *MockClient) ListDatasets(context.Context, int64) ([]workspace.DatasetListItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]workspace.DatasetListItem, len(c.data.Datasets))
	for i, d := range c.data.Datasets {
		items[i] = workspace.DatasetListItem{
			ID:          d.ID,
			Name:        d.Name,
			RowCount:    d.RowCount,
			ColumnCount: d.ColumnCount,
		}
	}
	return items, nil
}

func (c *MockClient) GetDataset(_ context.Context, datasetID, _ int64) (workspace.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.data.Datasets {
		if d.ID == datasetID {
			return d, nil
		}
	}
	return workspace.Dataset{}, fmt.Errorf("gateway: remote error 404: dataset %d not found", datasetID)
}

func (c *MockClient) ProfileDataset(_ context.Context, datasetID, _ int64) (workspace.AIProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Profiles[datasetID], nil
}

func (c *MockClient) AIHistory(_ context.Context, datasetID, _ int64) (workspace.AIHistory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Histories[datasetID], nil
}

func (c *MockClient) Ask(context.Context, int64, int64, string) (workspace.QueryResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Answer, nil
}

func (c *MockClient) ComparePeriods(context.Context, int64, int64, workspace.CompareRequest) (workspace.CompareResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Compare, nil
}

func (c *MockClient) GenerateDashboard(context.Context, int64, int64, string) (workspace.DashboardPlan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Plan, nil
}

func (c *MockClient) ExplainChart(context.Context, int64, int64, workspace.ExplainRequest) (string, error) {
	return "The chart compares values across the selected dimension.", nil
}

func (c *MockClient) SaveDashboard(_ context.Context, req workspace.SaveDashboardRequest) (workspace.Dashboard, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if req.DashboardID != 0 {
		for i := range c.data.Dashboards {
			if c.data.Dashboards[i].ID == req.DashboardID {
				c.data.Dashboards[i].Title = req.Title
				c.data.Dashboards[i].Config = req.Config
				return c.data.Dashboards[i], nil
			}
		}
		return workspace.Dashboard{}, fmt.Errorf("gateway: remote error 404: dashboard %d not found", req.DashboardID)
	}
	c.nextID++
	dashboard := workspace.Dashboard{
		ID:        c.nextID,
		Title:     req.Title,
		DatasetID: req.DatasetID,
		Config:    req.Config,
	}
	c.data.Dashboards = append(c.data.Dashboards, dashboard)
	return dashboard, nil
}

func (c *MockClient) ListDashboards(_ context.Context, _, datasetID int64) ([]workspace.Dashboard, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []workspace.Dashboard
	for _, d := range c.data.Dashboards {
		if datasetID == 0 || d.DatasetID == datasetID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (c *MockClient) ShareDashboard(_ context.Context, dashboardID, _ int64) (workspace.Dashboard, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.data.Dashboards {
		if c.data.Dashboards[i].ID == dashboardID {
			if c.data.Dashboards[i].ShareToken == "" {
				c.data.Dashboards[i].ShareToken = fmt.Sprintf("token-%d", dashboardID)
			}
			c.data.Dashboards[i].IsPublic = true
			return c.data.Dashboards[i], nil
		}
	}
	return workspace.Dashboard{}, fmt.Errorf("gateway: remote error 404: dashboard %d not found", dashboardID)
}

func (c *MockClient) PublicDashboard(_ context.Context, token string) (workspace.Dashboard, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.data.Dashboards {
		if d.ShareToken == token && d.IsPublic {
			return d, nil
		}
	}
	return workspace.Dashboard{}, fmt.Errorf("gateway: remote error 404: dashboard not found")
}

func (c *MockClient) ShareToTeam(_ context.Context, dashboardID, _, teamID int64, permission workspace.Role) (workspace.TeamShare, error) {
	return workspace.TeamShare{
		DashboardID: dashboardID,
		TeamID:      teamID,
		Permission:  permission,
	}, nil
}

func (c *MockClient) ListComments(_ context.Context, dashboardID, _ int64) ([]workspace.DashboardComment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]workspace.DashboardComment(nil), c.data.Comments[dashboardID]...), nil
}

func (c *MockClient) AddComment(_ context.Context, dashboardID, userID int64, text string) (workspace.DashboardComment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	comment := workspace.DashboardComment{
		ID:          c.nextID,
		DashboardID: dashboardID,
		UserID:      userID,
		Text:        text,
	}
	c.data.Comments[dashboardID] = append(c.data.Comments[dashboardID], comment)
	return comment, nil
}

func (c *MockClient) ListTeams(context.Context, int64) ([]workspace.Team, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]workspace.Team(nil), c.data.Teams...), nil
}

func (c *MockClient) CreateTeam(_ context.Context, userID int64, name string) (workspace.Team, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	team := workspace.Team{ID: c.nextID, Name: name, OwnerID: userID}
	c.data.Teams = append(c.data.Teams, team)
	return team, nil
}

func (c *MockClient) ListTeamMembers(_ context.Context, teamID, _ int64) ([]workspace.TeamMember, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]workspace.TeamMember(nil), c.data.Members[teamID]...), nil
}

func (c *MockClient) AddTeamMember(_ context.Context, teamID, _, memberID int64, role workspace.Role) (workspace.TeamMember, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	member := workspace.TeamMember{TeamID: teamID, MemberID: memberID, Role: role}
	c.data.Members[teamID] = append(c.data.Members[teamID], member)
	return member, nil
}
