package workspace

import "context"

const (
	candidateTitleLimit = 48
	fallbackChartTitle  = "AI Chart"
)

// SelectDashboard switches among already-loaded dashboards without
// re-fetching. An unknown id is a no-op: the store is left unchanged.
func (s *Service) SelectDashboard(ctx context.Context, dashboardID int64) {
	snap := s.store.Snapshot()
	var selected *Dashboard
	for i := range snap.Dashboards {
		if snap.Dashboards[i].ID == dashboardID {
			selected = &snap.Dashboards[i]
			break
		}
	}
	if selected == nil {
		return
	}
	dash := *selected
	s.store.Update(func(snap *Snapshot) {
		snap.Dashboard = &dash
		snap.Title = dash.Title
		snap.Widgets = append([]DashboardWidget(nil), dash.Config.Widgets...)
		snap.Comments = nil
	})
	var datasetID int64
	if snap.Dataset != nil {
		datasetID = snap.Dataset.ID
	}
	s.savePreferences(ctx, datasetID, dash.ID)
	s.refreshComments(ctx, dash.ID)
	s.record(ctx, "workspace.dashboard.select", map[string]any{"dashboard_id": dash.ID})
}

// NewDashboardDraft clears the active dashboard so the next save creates a
// new one instead of overwriting. The persisted dashboard preference is
// cleared as well.
func (s *Service) NewDashboardDraft(ctx context.Context) {
	s.store.Update(func(snap *Snapshot) {
		snap.Dashboard = nil
		snap.Title = DefaultDashboardTitle
		snap.Widgets = nil
		snap.Comments = nil
	})
	snap := s.store.Snapshot()
	var datasetID int64
	if snap.Dataset != nil {
		datasetID = snap.Dataset.ID
	}
	s.savePreferences(ctx, datasetID, 0)
	s.record(ctx, "workspace.dashboard.draft", nil)
}

// AddCandidateToDashboard appends the pending candidate chart as a widget
// and clears the candidate slot. Without a dataset or candidate the call is
// a no-op.
func (s *Service) AddCandidateToDashboard(ctx context.Context) {
	snap := s.store.Snapshot()
	if snap.Dataset == nil || snap.Candidate == nil {
		return
	}
	candidate := *snap.Candidate
	s.AppendFromChart(ctx, candidate)
	s.store.Update(func(snap *Snapshot) {
		snap.Candidate = nil
	})
}

// AppendFromChart builds one widget from an ad-hoc chart result and appends
// it below the existing content. Appending without a dataset context is a
// no-op; the UI is not expected to offer the action then.
func (s *Service) AppendFromChart(ctx context.Context, chart QueryResult) {
	snap := s.store.Snapshot()
	if snap.Dataset == nil {
		return
	}
	title := truncateTitle(chart.Answer, candidateTitleLimit)
	if title == "" {
		title = fallbackChartTitle
	}
	widget := DashboardWidget{
		ID:    s.opts.IDs.NewID(),
		Title: title,
		Spec:  chart.Spec,
		Data:  chart.Data,
		Layout: LayoutRect{
			X: 0,
			Y: nextRow(snap.Widgets),
			W: DefaultWidgetWidth,
			H: DefaultWidgetHeight,
		},
	}
	s.store.Update(func(snap *Snapshot) {
		snap.Widgets = append(snap.Widgets, widget)
	})
	s.record(ctx, "workspace.widget.append", map[string]any{
		"widget_id":  widget.ID,
		"chart_type": string(widget.Spec.Type),
	})
}

// ReplaceFromBatch replaces the entire widget sequence with a generated
// batch laid out two per row. Destructive: prior manual arrangement is
// discarded, not merged.
func (s *Service) ReplaceFromBatch(generated []GeneratedWidget) {
	widgets := make([]DashboardWidget, len(generated))
	for i, g := range generated {
		widgets[i] = DashboardWidget{
			ID:     s.opts.IDs.NewID(),
			Title:  g.Title,
			Spec:   g.Spec,
			Data:   g.Data,
			Layout: batchLayout(i),
		}
	}
	s.store.Update(func(snap *Snapshot) {
		snap.Widgets = widgets
	})
}

// ApplyLayout merges a geometry update batch from the grid primitive into
// the widget collection. The batch is a point-in-time snapshot; applying it
// twice yields the same result as applying it once.
func (s *Service) ApplyLayout(ctx context.Context, updates []LayoutUpdate) {
	if len(updates) == 0 {
		return
	}
	s.store.Update(func(snap *Snapshot) {
		snap.Widgets = MergeLayout(snap.Widgets, updates)
	})
	s.record(ctx, "workspace.layout.merge", map[string]any{"updates": len(updates)})
}
