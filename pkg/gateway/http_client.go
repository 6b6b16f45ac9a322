package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	workspace "github.com/minibi/go-workspace/components/workspace"
)

// HTTPConfig configures the HTTP gateway client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to the remote dataset/AI/dashboard/team service over
// HTTP with JSON bodies (multipart for uploads).
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ workspace.Gateway = (*HTTPClient)(nil)

// NewHTTPClient builds a client for a live workspace API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("gateway: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// UploadDataset sends file bytes as a multipart form and returns the
// profiled dataset identity.
func (c *HTTPClient) UploadDataset(ctx context.Context, userID int64, filename string, contents io.Reader) (workspace.Dataset, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return workspace.Dataset{}, fmt.Errorf("gateway: build upload form: %w", err)
	}
	if _, err := io.Copy(part, contents); err != nil {
		return workspace.Dataset{}, fmt.Errorf("gateway: copy upload contents: %w", err)
	}
	if err := form.WriteField("user_id", strconv.FormatInt(userID, 10)); err != nil {
		return workspace.Dataset{}, fmt.Errorf("gateway: write upload field: %w", err)
	}
	if err := form.Close(); err != nil {
		return workspace.Dataset{}, fmt.Errorf("gateway: finish upload form: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/datasets/upload", &body)
	if err != nil {
		return workspace.Dataset{}, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	var dataset workspace.Dataset
	if err := c.send(req, &dataset); err != nil {
		return workspace.Dataset{}, err
	}
	return dataset, nil
}

// ListDatasets returns the user's dataset summaries.
func (c *HTTPClient) ListDatasets(ctx context.Context, userID int64) ([]workspace.DatasetListItem, error) {
	var items []workspace.DatasetListItem
	err := c.do(ctx, http.MethodGet, "/datasets"+userQuery(userID), nil, &items)
	return items, err
}

// GetDataset returns the full dataset detail including schema and sample.
func (c *HTTPClient) GetDataset(ctx context.Context, datasetID, userID int64) (workspace.Dataset, error) {
	var dataset workspace.Dataset
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/datasets/%d%s", datasetID, userQuery(userID)), nil, &dataset)
	return dataset, err
}

// ProfileDataset triggers AI profiling for a dataset.
func (c *HTTPClient) ProfileDataset(ctx context.Context, datasetID, userID int64) (workspace.AIProfile, error) {
	var profile workspace.AIProfile
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/ai/profile/%d%s", datasetID, userQuery(userID)), nil, &profile)
	return profile, err
}

// AIHistory returns the latest profile and prior query records for a dataset.
func (c *HTTPClient) AIHistory(ctx context.Context, datasetID, userID int64) (workspace.AIHistory, error) {
	var history workspace.AIHistory
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/ai/history/%d%s", datasetID, userQuery(userID)), nil, &history)
	return history, err
}

// Ask submits a natural-language question and returns the answer with its
// chart candidate.
func (c *HTTPClient) Ask(ctx context.Context, datasetID, userID int64, question string) (workspace.QueryResult, error) {
	payload := map[string]string{"question": question}
	var result workspace.QueryResult
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/ai/query/%d%s", datasetID, userQuery(userID)), payload, &result)
	return result, err
}

// ComparePeriods runs a period-over-period comparison.
func (c *HTTPClient) ComparePeriods(ctx context.Context, datasetID, userID int64, req workspace.CompareRequest) (workspace.CompareResult, error) {
	var result workspace.CompareResult
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/ai/compare/%d%s", datasetID, userQuery(userID)), req, &result)
	return result, err
}

// GenerateDashboard asks the AI to plan a whole dashboard from a prompt.
func (c *HTTPClient) GenerateDashboard(ctx context.Context, datasetID, userID int64, prompt string) (workspace.DashboardPlan, error) {
	payload := map[string]string{"prompt": prompt}
	var plan workspace.DashboardPlan
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/ai/nl2dashboard/%d%s", datasetID, userQuery(userID)), payload, &plan)
	return plan, err
}

// ExplainChart returns a prose explanation of a chart.
func (c *HTTPClient) ExplainChart(ctx context.Context, datasetID, userID int64, req workspace.ExplainRequest) (string, error) {
	var resp struct {
		Explanation string `json:"explanation"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/ai/explain/%d%s", datasetID, userQuery(userID)), req, &resp)
	return resp.Explanation, err
}

// SaveDashboard persists a dashboard config and returns the authoritative
// server copy.
func (c *HTTPClient) SaveDashboard(ctx context.Context, req workspace.SaveDashboardRequest) (workspace.Dashboard, error) {
	var dashboard workspace.Dashboard
	err := c.do(ctx, http.MethodPost, "/dashboards/save", req, &dashboard)
	return dashboard, err
}

// ListDashboards lists dashboards, optionally filtered to one dataset.
func (c *HTTPClient) ListDashboards(ctx context.Context, userID, datasetID int64) ([]workspace.Dashboard, error) {
	query := url.Values{}
	query.Set("user_id", strconv.FormatInt(userID, 10))
	if datasetID != 0 {
		query.Set("dataset_id", strconv.FormatInt(datasetID, 10))
	}
	var dashboards []workspace.Dashboard
	err := c.do(ctx, http.MethodGet, "/dashboards?"+query.Encode(), nil, &dashboards)
	return dashboards, err
}

// ShareDashboard requests a public share token.
func (c *HTTPClient) ShareDashboard(ctx context.Context, dashboardID, userID int64) (workspace.Dashboard, error) {
	var dashboard workspace.Dashboard
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/dashboards/%d/share%s", dashboardID, userQuery(userID)), nil, &dashboard)
	return dashboard, err
}

// PublicDashboard fetches a shared dashboard by token. No auth.
func (c *HTTPClient) PublicDashboard(ctx context.Context, token string) (workspace.Dashboard, error) {
	var dashboard workspace.Dashboard
	err := c.do(ctx, http.MethodGet, "/public/"+url.PathEscape(token), nil, &dashboard)
	return dashboard, err
}

// ShareToTeam grants a team a permission on a dashboard.
func (c *HTTPClient) ShareToTeam(ctx context.Context, dashboardID, userID, teamID int64, permission workspace.Role) (workspace.TeamShare, error) {
	payload := map[string]any{
		"user_id":    userID,
		"team_id":    teamID,
		"permission": permission,
	}
	var share workspace.TeamShare
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/dashboards/%d/team-share", dashboardID), payload, &share)
	return share, err
}

// ListComments returns a dashboard's comment thread in creation order.
func (c *HTTPClient) ListComments(ctx context.Context, dashboardID, userID int64) ([]workspace.DashboardComment, error) {
	var comments []workspace.DashboardComment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/dashboards/%d/comments%s", dashboardID, userQuery(userID)), nil, &comments)
	return comments, err
}

// AddComment appends a comment to a dashboard.
func (c *HTTPClient) AddComment(ctx context.Context, dashboardID, userID int64, text string) (workspace.DashboardComment, error) {
	payload := map[string]any{
		"user_id": userID,
		"text":    text,
	}
	var comment workspace.DashboardComment
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/dashboards/%d/comments", dashboardID), payload, &comment)
	return comment, err
}

// ListTeams lists the user's teams.
func (c *HTTPClient) ListTeams(ctx context.Context, userID int64) ([]workspace.Team, error) {
	var teams []workspace.Team
	err := c.do(ctx, http.MethodGet, "/teams"+userQuery(userID), nil, &teams)
	return teams, err
}

// CreateTeam creates a team owned by the user.
func (c *HTTPClient) CreateTeam(ctx context.Context, userID int64, name string) (workspace.Team, error) {
	payload := map[string]any{
		"user_id": userID,
		"name":    name,
	}
	var team workspace.Team
	err := c.do(ctx, http.MethodPost, "/teams", payload, &team)
	return team, err
}

// ListTeamMembers returns the membership rows for a team.
func (c *HTTPClient) ListTeamMembers(ctx context.Context, teamID, userID int64) ([]workspace.TeamMember, error) {
	var members []workspace.TeamMember
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/teams/%d/members%s", teamID, userQuery(userID)), nil, &members)
	return members, err
}

// AddTeamMember adds a member with the given role.
func (c *HTTPClient) AddTeamMember(ctx context.Context, teamID, actorID, memberID int64, role workspace.Role) (workspace.TeamMember, error) {
	payload := map[string]any{
		"actor_id":  actorID,
		"member_id": memberID,
		"role":      role,
	}
	var member workspace.TeamMember
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/teams/%d/members", teamID), payload, &member)
	return member, err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("gateway: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, target)
}

func (c *HTTPClient) send(req *http.Request, target any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("gateway: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("gateway: decode response: %w", err)
	}
	return nil
}

func userQuery(userID int64) string {
	return "?user_id=" + strconv.FormatInt(userID, 10)
}
