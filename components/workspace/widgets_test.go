package workspace

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// seqIDGenerator mints predictable identities for assertions.
type seqIDGenerator struct{ n int }

func (g *seqIDGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("widget_%d", g.n)
}

func hydratedService(t *testing.T, gw *fakeGateway) *Service {
	t.Helper()
	service := NewService(Options{Gateway: gw, IDs: &seqIDGenerator{}, UserID: 10})
	if err := service.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate returned error: %v", err)
	}
	return service
}

func TestAppendFromChartAddsOneWidget(t *testing.T) {
	service := hydratedService(t, twoDatasetGateway())
	chart := QueryResult{
		Answer: "Revenue by month",
		Spec:   ChartSpec{Type: ChartBar, X: "day", Y: "revenue"},
		Data:   ChartSeries{Plain: []ChartPoint{{X: "2024-01", Y: 10}}},
	}
	service.AppendFromChart(context.Background(), chart)
	service.AppendFromChart(context.Background(), chart)

	snap := service.Store().Snapshot()
	if len(snap.Widgets) != 2 {
		t.Fatalf("expected 2 widgets, got %d", len(snap.Widgets))
	}
	if snap.Widgets[0].ID == snap.Widgets[1].ID {
		t.Fatalf("expected unique widget identities, both %q", snap.Widgets[0].ID)
	}
	first, second := snap.Widgets[0].Layout, snap.Widgets[1].Layout
	if first != (LayoutRect{X: 0, Y: 0, W: 6, H: 4}) {
		t.Fatalf("first widget layout = %#v", first)
	}
	if second != (LayoutRect{X: 0, Y: 4, W: 6, H: 4}) {
		t.Fatalf("second widget layout = %#v", second)
	}
}

func TestAppendFromChartTruncatesLongTitles(t *testing.T) {
	service := hydratedService(t, twoDatasetGateway())
	long := strings.Repeat("x", 80)
	service.AppendFromChart(context.Background(), QueryResult{Answer: long})

	snap := service.Store().Snapshot()
	if got := snap.Widgets[0].Title; len([]rune(got)) != candidateTitleLimit {
		t.Fatalf("title length = %d, want %d", len([]rune(got)), candidateTitleLimit)
	}
}

func TestAppendFromChartFallsBackToDefaultTitle(t *testing.T) {
	service := hydratedService(t, twoDatasetGateway())
	service.AppendFromChart(context.Background(), QueryResult{Answer: "   "})

	snap := service.Store().Snapshot()
	if got := snap.Widgets[0].Title; got != fallbackChartTitle {
		t.Fatalf("title = %q, want %q", got, fallbackChartTitle)
	}
}

func TestAppendFromChartWithoutDatasetIsNoOp(t *testing.T) {
	gw := &fakeGateway{}
	service := NewService(Options{Gateway: gw, UserID: 10})
	if err := service.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate returned error: %v", err)
	}
	service.AppendFromChart(context.Background(), QueryResult{Answer: "orphan"})
	if snap := service.Store().Snapshot(); len(snap.Widgets) != 0 {
		t.Fatalf("expected no widgets, got %d", len(snap.Widgets))
	}
}

func TestAddCandidateToDashboardConsumesCandidate(t *testing.T) {
	gw := twoDatasetGateway()
	gw.answer = QueryResult{
		Answer: "Top paths",
		Spec:   ChartSpec{Type: ChartPie, X: "path"},
		Data:   ChartSeries{Plain: []ChartPoint{{X: "/", Y: 3}}},
	}
	service := hydratedService(t, gw)
	if _, err := service.Ask(context.Background(), "top paths?"); err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	service.AddCandidateToDashboard(context.Background())

	snap := service.Store().Snapshot()
	if len(snap.Widgets) != 1 {
		t.Fatalf("expected 1 widget, got %d", len(snap.Widgets))
	}
	if snap.Candidate != nil {
		t.Fatalf("expected candidate cleared")
	}

	// Without a candidate nothing happens.
	service.AddCandidateToDashboard(context.Background())
	if snap := service.Store().Snapshot(); len(snap.Widgets) != 1 {
		t.Fatalf("expected widget count unchanged, got %d", len(snap.Widgets))
	}
}

func TestReplaceFromBatchLaysOutTwoPerRow(t *testing.T) {
	service := hydratedService(t, twoDatasetGateway())
	service.AppendFromChart(context.Background(), QueryResult{Answer: "manual"})

	generated := []GeneratedWidget{
		{Title: "one", Spec: ChartSpec{Type: ChartBar, X: "day", Y: "revenue"}},
		{Title: "two", Spec: ChartSpec{Type: ChartLine, X: "day", Y: "revenue"}},
		{Title: "three", Spec: ChartSpec{Type: ChartPie, X: "day"}},
	}
	service.ReplaceFromBatch(generated)

	snap := service.Store().Snapshot()
	if len(snap.Widgets) != 3 {
		t.Fatalf("expected batch to replace widgets, got %d", len(snap.Widgets))
	}
	wantRects := []LayoutRect{
		{X: 0, Y: 0, W: 6, H: 4},
		{X: 6, Y: 0, W: 6, H: 4},
		{X: 0, Y: 4, W: 6, H: 4},
	}
	for i, rect := range wantRects {
		if snap.Widgets[i].Layout != rect {
			t.Fatalf("widget %d layout = %#v, want %#v", i, snap.Widgets[i].Layout, rect)
		}
		if snap.Widgets[i].Title != generated[i].Title {
			t.Fatalf("widget %d title = %q", i, snap.Widgets[i].Title)
		}
	}
}

func TestSelectDashboardUnknownIDIsNoOp(t *testing.T) {
	gw := twoDatasetGateway()
	gw.dashboards[1] = []Dashboard{
		{ID: 11, Title: "first", DatasetID: 1, Config: DashboardConfig{
			Widgets: []DashboardWidget{{ID: "w1", Title: "chart"}},
		}},
	}
	service := hydratedService(t, gw)
	before := service.Store().Snapshot()

	service.SelectDashboard(context.Background(), 7)

	after := service.Store().Snapshot()
	if after.Dashboard == nil || after.Dashboard.ID != before.Dashboard.ID {
		t.Fatalf("expected selection unchanged, got %#v", after.Dashboard)
	}
	if len(after.Widgets) != len(before.Widgets) {
		t.Fatalf("expected widgets unchanged")
	}
}

func TestSelectDashboardSwitchesWorkingCopy(t *testing.T) {
	gw := twoDatasetGateway()
	gw.dashboards[1] = []Dashboard{
		{ID: 11, Title: "first", DatasetID: 1},
		{ID: 12, Title: "second", DatasetID: 1, Config: DashboardConfig{
			Widgets: []DashboardWidget{{ID: "w1", Title: "chart"}, {ID: "w2", Title: "other"}},
		}},
	}
	prefs := NewInMemoryPreferenceStore()
	service := NewService(Options{Gateway: gw, Preferences: prefs, UserID: 10})
	if err := service.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate returned error: %v", err)
	}

	service.SelectDashboard(context.Background(), 12)

	snap := service.Store().Snapshot()
	if snap.Dashboard == nil || snap.Dashboard.ID != 12 {
		t.Fatalf("expected dashboard 12, got %#v", snap.Dashboard)
	}
	if snap.Title != "second" || len(snap.Widgets) != 2 {
		t.Fatalf("expected working copy replaced, got title %q widgets %d", snap.Title, len(snap.Widgets))
	}
	if stored, _ := prefs.Load(context.Background()); stored.DashboardID != 12 {
		t.Fatalf("expected preference persisted, got %#v", stored)
	}
}

func TestNewDashboardDraftClearsSelection(t *testing.T) {
	gw := twoDatasetGateway()
	gw.dashboards[1] = []Dashboard{{ID: 11, Title: "first", DatasetID: 1, Config: DashboardConfig{
		Widgets: []DashboardWidget{{ID: "w1"}},
	}}}
	prefs := NewInMemoryPreferenceStore()
	service := NewService(Options{Gateway: gw, Preferences: prefs, UserID: 10})
	if err := service.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate returned error: %v", err)
	}

	service.NewDashboardDraft(context.Background())

	snap := service.Store().Snapshot()
	if snap.Dashboard != nil || len(snap.Widgets) != 0 {
		t.Fatalf("expected cleared draft, got %#v", snap.Dashboard)
	}
	if snap.Title != DefaultDashboardTitle {
		t.Fatalf("expected default title, got %q", snap.Title)
	}
	if stored, _ := prefs.Load(context.Background()); stored.DashboardID != 0 {
		t.Fatalf("expected dashboard preference cleared, got %d", stored.DashboardID)
	}
}

func TestApplyLayoutMergesIntoCollection(t *testing.T) {
	service := hydratedService(t, twoDatasetGateway())
	service.AppendFromChart(context.Background(), QueryResult{Answer: "a"})
	service.AppendFromChart(context.Background(), QueryResult{Answer: "b"})

	snap := service.Store().Snapshot()
	updates := []LayoutUpdate{
		{ID: snap.Widgets[1].ID, Layout: LayoutRect{X: 6, Y: 0, W: 6, H: 4}},
	}
	service.ApplyLayout(context.Background(), updates)
	service.ApplyLayout(context.Background(), updates)

	after := service.Store().Snapshot()
	if len(after.Widgets) != 2 {
		t.Fatalf("expected 2 widgets, got %d", len(after.Widgets))
	}
	if after.Widgets[1].Layout != (LayoutRect{X: 6, Y: 0, W: 6, H: 4}) {
		t.Fatalf("expected update applied, got %#v", after.Widgets[1].Layout)
	}
}
