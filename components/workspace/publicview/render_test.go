package publicview

import (
	"strings"
	"testing"
	"time"

	workspace "github.com/minibi/go-workspace/components/workspace"
)

func barWidget() workspace.DashboardWidget {
	return workspace.DashboardWidget{
		ID:    "widget_a",
		Title: "Revenue by month",
		Spec:  workspace.ChartSpec{Type: workspace.ChartBar, X: "month", Y: "revenue"},
		Data: workspace.ChartSeries{Plain: []workspace.ChartPoint{
			{X: "2024-01", Y: 10},
			{X: "2024-02", Y: 12},
		}},
	}
}

func TestRenderWidgetBar(t *testing.T) {
	html, err := NewRenderer().RenderWidget(barWidget())
	if err != nil {
		t.Fatalf("RenderWidget returned error: %v", err)
	}
	for _, want := range []string{"Revenue by month", "2024-01", "echarts"} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered chart missing %q", want)
		}
	}
}

func TestRenderWidgetComparisonSeries(t *testing.T) {
	previous := 8.0
	widget := workspace.DashboardWidget{
		ID:    "widget_b",
		Title: "Month over month",
		Spec:  workspace.ChartSpec{Type: workspace.ChartLine, X: "month", Comparison: true},
		Data: workspace.ChartSeries{Comparison: []workspace.ComparisonPoint{
			{X: "2024-01", Current: 10, Previous: &previous},
			{X: "2024-02", Current: 12},
		}},
	}
	html, err := NewRenderer().RenderWidget(widget)
	if err != nil {
		t.Fatalf("RenderWidget returned error: %v", err)
	}
	if !strings.Contains(html, "current") || !strings.Contains(html, "previous") {
		t.Fatalf("expected both comparison series in output")
	}
}

func TestRenderWidgetPieFromComparison(t *testing.T) {
	widget := workspace.DashboardWidget{
		ID:    "widget_c",
		Title: "Share",
		Spec:  workspace.ChartSpec{Type: workspace.ChartPie, X: "region"},
		Data: workspace.ChartSeries{Comparison: []workspace.ComparisonPoint{
			{X: "EU", Current: 40},
			{X: "US", Current: 60},
		}},
	}
	html, err := NewRenderer().RenderWidget(widget)
	if err != nil {
		t.Fatalf("RenderWidget returned error: %v", err)
	}
	if !strings.Contains(html, "EU") || !strings.Contains(html, "US") {
		t.Fatalf("expected current values rendered as pie slices")
	}
}

func TestRenderWidgetRejectsUnknownType(t *testing.T) {
	widget := barWidget()
	widget.Spec.Type = workspace.ChartType("scatter")
	if _, err := NewRenderer().RenderWidget(widget); err == nil {
		t.Fatalf("expected unsupported type error")
	}
}

func TestRenderWidgetUsesCache(t *testing.T) {
	cache := &countingCache{inner: NewChartCache(time.Minute)}
	renderer := NewRenderer(WithRenderCache(cache))

	first, err := renderer.RenderWidget(barWidget())
	if err != nil {
		t.Fatalf("RenderWidget returned error: %v", err)
	}
	second, err := renderer.RenderWidget(barWidget())
	if err != nil {
		t.Fatalf("RenderWidget returned error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical cached output")
	}
	if cache.calls != 2 {
		t.Fatalf("expected cache consulted per render, got %d", cache.calls)
	}
}

func TestChartCacheExpiry(t *testing.T) {
	cache := NewChartCache(10 * time.Millisecond)
	renders := 0
	render := func() (string, error) {
		renders++
		return "chart", nil
	}
	if _, err := cache.GetOrRender("k", render); err != nil {
		t.Fatalf("GetOrRender returned error: %v", err)
	}
	if _, err := cache.GetOrRender("k", render); err != nil {
		t.Fatalf("GetOrRender returned error: %v", err)
	}
	if renders != 1 {
		t.Fatalf("expected cached render, got %d renders", renders)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := cache.GetOrRender("k", render); err != nil {
		t.Fatalf("GetOrRender returned error: %v", err)
	}
	if renders != 2 {
		t.Fatalf("expected re-render after expiry, got %d renders", renders)
	}
}

type countingCache struct {
	inner *ChartCache
	calls int
}

func (c *countingCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	c.calls++
	return c.inner.GetOrRender(key, render)
}
