package workspace

import (
	"context"
	"errors"
	"io"
	"strings"
)

// DefaultDashboardTitle is used for fresh drafts until the user renames them.
const DefaultDashboardTitle = "New Dashboard"

var (
	errMissingGateway = errors.New("workspace: gateway not configured")
	errNoDataset      = errors.New("workspace: no dataset selected")
	errNoDashboard    = errors.New("workspace: no dashboard selected")
	errNoWidgets      = errors.New("workspace: dashboard has no widgets")
	errBlankTitle     = errors.New("workspace: dashboard title is blank")
	errBlankComment   = errors.New("workspace: comment text is blank")
	errUnsavedDraft   = errors.New("workspace: dashboard draft is not saved")
	errNoCandidate    = errors.New("workspace: no candidate chart")
)

// Options configures the workspace Service. Every collaborator is provided
// via interface so applications can swap implementations.
type Options struct {
	Gateway     Gateway
	Preferences PreferenceStore
	Validator   ConfigValidator
	Telemetry   Telemetry
	IDs         IDGenerator
	UserID      int64
}

// Service owns the workspace lifecycle: hydration, the widget collection,
// layout reconciliation, and dashboard persistence.
type Service struct {
	opts  Options
	store *Store
}

// NewService builds a Service with safe defaults.
func NewService(opts Options) *Service {
	if opts.Preferences == nil {
		opts.Preferences = NewInMemoryPreferenceStore()
	}
	if opts.Validator == nil {
		opts.Validator = NewConfigValidator()
	}
	if opts.IDs == nil {
		opts.IDs = NewUUIDGenerator()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{
		opts:  opts,
		store: NewStore(opts.UserID),
	}
}

// Store exposes the reactive state holder for observers.
func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) gateway() (Gateway, error) {
	if s.opts.Gateway == nil {
		return nil, errMissingGateway
	}
	return s.opts.Gateway, nil
}

func (s *Service) record(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

// UploadDataset uploads a file, profiles it, and re-hydrates the workspace
// with the new dataset selected.
func (s *Service) UploadDataset(ctx context.Context, filename string, contents io.Reader) (Dataset, error) {
	gw, err := s.gateway()
	if err != nil {
		return Dataset{}, err
	}
	uploaded, err := gw.UploadDataset(ctx, s.opts.UserID, filename, contents)
	if err != nil {
		return Dataset{}, err
	}
	if _, err := gw.ProfileDataset(ctx, uploaded.ID, s.opts.UserID); err != nil {
		return Dataset{}, err
	}
	if err := s.Hydrate(ctx); err != nil {
		return Dataset{}, err
	}
	if err := s.SelectDataset(ctx, uploaded.ID); err != nil {
		return Dataset{}, err
	}
	s.record(ctx, "workspace.dataset.upload", map[string]any{
		"dataset_id": uploaded.ID,
		"name":       uploaded.Name,
	})
	return uploaded, nil
}

// Ask sends a question about the active dataset. The user message and the
// assistant answer are appended to the transcript, and the resulting chart
// becomes the candidate awaiting placement. On failure the error text is
// appended as the assistant reply so the transcript reflects the exchange.
func (s *Service) Ask(ctx context.Context, question string) (QueryResult, error) {
	gw, err := s.gateway()
	if err != nil {
		return QueryResult{}, err
	}
	snap := s.store.Snapshot()
	if snap.Dataset == nil {
		return QueryResult{}, errNoDataset
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return QueryResult{}, errors.New("workspace: question is blank")
	}
	s.store.PushMessage(Message{Role: RoleUser, Text: question})
	result, err := gw.Ask(ctx, snap.Dataset.ID, s.opts.UserID, question)
	if err != nil {
		s.store.PushMessage(Message{Role: RoleAssistant, Text: err.Error()})
		return QueryResult{}, err
	}
	s.store.Update(func(snap *Snapshot) {
		snap.Messages = append(snap.Messages, Message{Role: RoleAssistant, Text: result.Answer})
		candidate := result
		snap.Candidate = &candidate
	})
	s.record(ctx, "workspace.ai.query", map[string]any{
		"dataset_id": snap.Dataset.ID,
		"chart_type": string(result.Spec.Type),
	})
	return result, nil
}

// ExplainCandidate asks the AI to describe the current candidate chart.
func (s *Service) ExplainCandidate(ctx context.Context, question string) (string, error) {
	gw, err := s.gateway()
	if err != nil {
		return "", err
	}
	snap := s.store.Snapshot()
	if snap.Dataset == nil {
		return "", errNoDataset
	}
	if snap.Candidate == nil {
		return "", errNoCandidate
	}
	return gw.ExplainChart(ctx, snap.Dataset.ID, s.opts.UserID, ExplainRequest{
		Spec:     snap.Candidate.Spec,
		Data:     snap.Candidate.Data,
		Question: question,
	})
}

// ComparePeriods runs a period-over-period comparison and returns the result
// as a candidate chart. Nothing is committed to the dashboard.
func (s *Service) ComparePeriods(ctx context.Context, req CompareRequest) (QueryResult, error) {
	gw, err := s.gateway()
	if err != nil {
		return QueryResult{}, err
	}
	snap := s.store.Snapshot()
	if snap.Dataset == nil {
		return QueryResult{}, errNoDataset
	}
	if req.DateColumn == "" || req.ValueColumn == "" {
		return QueryResult{}, errors.New("workspace: compare columns are required")
	}
	result, err := gw.ComparePeriods(ctx, snap.Dataset.ID, s.opts.UserID, req)
	if err != nil {
		return QueryResult{}, err
	}
	candidate := QueryResult{
		Answer: result.Summary,
		Spec:   result.Spec,
		Data:   result.Data,
	}
	s.record(ctx, "workspace.ai.compare", map[string]any{
		"dataset_id": snap.Dataset.ID,
		"period":     string(req.Period),
	})
	return candidate, nil
}

// GenerateDashboard asks the AI to build a whole dashboard from a prompt and
// replaces the widget sequence with the generated batch. This discards any
// manual arrangement.
func (s *Service) GenerateDashboard(ctx context.Context, prompt string) (DashboardPlan, error) {
	gw, err := s.gateway()
	if err != nil {
		return DashboardPlan{}, err
	}
	snap := s.store.Snapshot()
	if snap.Dataset == nil {
		return DashboardPlan{}, errNoDataset
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return DashboardPlan{}, errors.New("workspace: prompt is blank")
	}
	plan, err := gw.GenerateDashboard(ctx, snap.Dataset.ID, s.opts.UserID, prompt)
	if err != nil {
		return DashboardPlan{}, err
	}
	s.ReplaceFromBatch(plan.Widgets)
	s.record(ctx, "workspace.dashboard.generate", map[string]any{
		"dataset_id": snap.Dataset.ID,
		"widgets":    len(plan.Widgets),
	})
	return plan, nil
}

func (s *Service) savePreferences(ctx context.Context, datasetID, dashboardID int64) {
	err := s.opts.Preferences.Save(ctx, Preferences{
		Version:     PreferencesVersion,
		DatasetID:   datasetID,
		DashboardID: dashboardID,
	})
	if err != nil {
		s.record(ctx, "workspace.preferences.error", map[string]any{"error": err.Error()})
	}
}

func (s *Service) loadPreferences(ctx context.Context) Preferences {
	prefs, err := s.opts.Preferences.Load(ctx)
	if err != nil {
		s.record(ctx, "workspace.preferences.error", map[string]any{"error": err.Error()})
		return Preferences{Version: PreferencesVersion}
	}
	return prefs
}

func truncateTitle(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
