package workspace

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Hydrate populates the workspace from remote and persisted sources. The
// snapshot is assembled locally and committed atomically: observers never
// see a dataset without its matching dashboards, profile, or messages. Any
// fetch failure aborts the pass and leaves the previous state untouched.
func (s *Service) Hydrate(ctx context.Context) error {
	gw, err := s.gateway()
	if err != nil {
		return err
	}
	seq := s.store.beginHydration()
	prev := s.store.Snapshot()

	var (
		datasets []DatasetListItem
		teams    []Team
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		datasets, err = gw.ListDatasets(groupCtx, s.opts.UserID)
		return err
	})
	group.Go(func() error {
		var err error
		teams, err = gw.ListTeams(groupCtx, s.opts.UserID)
		return err
	})
	if err := group.Wait(); err != nil {
		s.record(ctx, "workspace.hydrate.error", map[string]any{"error": err.Error()})
		return fmt.Errorf("workspace: hydrate: %w", err)
	}

	// No datasets yet: commit an empty workspace. Not an error.
	if len(datasets) == 0 {
		committed := s.store.commitHydration(seq, Snapshot{
			UserID: s.opts.UserID,
			Teams:  teams,
			Title:  DefaultDashboardTitle,
		})
		if !committed {
			s.record(ctx, "workspace.hydrate.stale", map[string]any{"seq": seq})
		}
		return nil
	}

	prefs := s.loadPreferences(ctx)
	var previousDatasetID int64
	if prev.Dataset != nil {
		previousDatasetID = prev.Dataset.ID
	}
	datasetID := resolveDatasetID(datasets, prefs.DatasetID, previousDatasetID)
	return s.hydrateDataset(ctx, seq, gw, datasetID, datasets, teams, prefs.DashboardID)
}

// SelectDataset re-hydrates the workspace scoped to one dataset, reusing the
// already-loaded dataset and team lists.
func (s *Service) SelectDataset(ctx context.Context, datasetID int64) error {
	gw, err := s.gateway()
	if err != nil {
		return err
	}
	seq := s.store.beginHydration()
	prev := s.store.Snapshot()
	prefs := s.loadPreferences(ctx)
	return s.hydrateDataset(ctx, seq, gw, datasetID, prev.Datasets, prev.Teams, prefs.DashboardID)
}

func (s *Service) hydrateDataset(ctx context.Context, seq uint64, gw Gateway, datasetID int64, datasets []DatasetListItem, teams []Team, preferredDashboardID int64) error {
	var (
		dataset    Dataset
		history    AIHistory
		dashboards []Dashboard
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		dataset, err = gw.GetDataset(groupCtx, datasetID, s.opts.UserID)
		return err
	})
	group.Go(func() error {
		var err error
		history, err = gw.AIHistory(groupCtx, datasetID, s.opts.UserID)
		return err
	})
	group.Go(func() error {
		var err error
		dashboards, err = gw.ListDashboards(groupCtx, s.opts.UserID, datasetID)
		return err
	})
	if err := group.Wait(); err != nil {
		s.record(ctx, "workspace.hydrate.error", map[string]any{
			"dataset_id": datasetID,
			"error":      err.Error(),
		})
		return fmt.Errorf("workspace: hydrate dataset %d: %w", datasetID, err)
	}

	snap := Snapshot{
		UserID:     s.opts.UserID,
		Datasets:   datasets,
		Teams:      teams,
		Dataset:    &dataset,
		Profile:    history.Profile,
		Messages:   transcriptFromHistory(history.Queries),
		Dashboards: dashboards,
		Title:      DefaultDashboardTitle,
	}

	if selected := resolveDashboard(dashboards, preferredDashboardID); selected != nil {
		dash := *selected
		snap.Dashboard = &dash
		snap.Title = dash.Title
		snap.Widgets = append([]DashboardWidget(nil), dash.Config.Widgets...)
	}

	snap.CompareDateColumn, snap.CompareValueColumn = defaultCompareColumns(dataset.Schema)

	if !s.store.commitHydration(seq, snap) {
		s.record(ctx, "workspace.hydrate.stale", map[string]any{
			"dataset_id": datasetID,
			"seq":        seq,
		})
		return nil
	}

	var dashboardID int64
	if snap.Dashboard != nil {
		dashboardID = snap.Dashboard.ID
	}
	s.savePreferences(ctx, dataset.ID, dashboardID)

	// Comments are auxiliary: a failure degrades to an empty list instead of
	// blocking the workspace.
	if snap.Dashboard != nil {
		s.refreshComments(ctx, snap.Dashboard.ID)
	}

	s.record(ctx, "workspace.hydrate", map[string]any{
		"dataset_id": dataset.ID,
		"dashboards": len(dashboards),
		"messages":   len(snap.Messages),
	})
	return nil
}

// transcriptFromHistory rebuilds the chat transcript: each historical query
// yields a user message when a question was recorded, then exactly one
// assistant message with the answer, preserving chronological order.
func transcriptFromHistory(queries []QueryRecord) []Message {
	messages := make([]Message, 0, len(queries)*2)
	for _, q := range queries {
		if q.Question != "" {
			messages = append(messages, Message{Role: RoleUser, Text: q.Question})
		}
		messages = append(messages, Message{Role: RoleAssistant, Text: q.Answer})
	}
	return messages
}

// resolveDatasetID picks the active dataset: the persisted preference when
// it still exists, then the previously active dataset, then the first entry.
func resolveDatasetID(datasets []DatasetListItem, preferredID, previousID int64) int64 {
	for _, candidate := range []int64{preferredID, previousID} {
		if candidate == 0 {
			continue
		}
		for _, d := range datasets {
			if d.ID == candidate {
				return candidate
			}
		}
	}
	return datasets[0].ID
}

// resolveDashboard picks the active dashboard from the dataset-scoped list,
// falling back to the first entry. A preference pointing at a dashboard of a
// different dataset never resolves. Nil means "empty draft".
func resolveDashboard(dashboards []Dashboard, preferredID int64) *Dashboard {
	if len(dashboards) == 0 {
		return nil
	}
	if preferredID != 0 {
		for i := range dashboards {
			if dashboards[i].ID == preferredID {
				return &dashboards[i]
			}
		}
	}
	return &dashboards[0]
}

var numericTypeTokens = []string{"int", "float", "double", "number"}

// defaultCompareColumns derives the default comparison inputs from the
// schema: the first date-typed column and the first numeric column, with
// positional fallbacks when no semantic match exists.
func defaultCompareColumns(schema []SchemaColumn) (dateColumn, valueColumn string) {
	for _, col := range schema {
		dtype := strings.ToLower(col.DType)
		if strings.Contains(dtype, "date") || strings.Contains(dtype, "datetime") {
			dateColumn = col.Name
			break
		}
	}
	for _, col := range schema {
		dtype := strings.ToLower(col.DType)
		for _, token := range numericTypeTokens {
			if strings.Contains(dtype, token) {
				valueColumn = col.Name
				break
			}
		}
		if valueColumn != "" {
			break
		}
	}
	if dateColumn == "" && len(schema) > 0 {
		dateColumn = schema[0].Name
	}
	if valueColumn == "" {
		if len(schema) > 1 {
			valueColumn = schema[1].Name
		} else if len(schema) > 0 {
			valueColumn = schema[0].Name
		}
	}
	return dateColumn, valueColumn
}
