package publicview

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	workspace "github.com/minibi/go-workspace/components/workspace"
)

const defaultChartHeight = "360px"

// Renderer turns widget chart specs into standalone ECharts markup.
type Renderer struct {
	theme      string
	assetsHost string
	cache      RenderCache
}

// RendererOption customizes renderer behavior.
type RendererOption func(*Renderer)

// WithTheme sets the ECharts theme.
func WithTheme(theme string) RendererOption {
	return func(r *Renderer) { r.theme = theme }
}

// WithAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithAssetsHost(host string) RendererOption {
	return func(r *Renderer) { r.assetsHost = host }
}

// WithRenderCache injects a render cache.
func WithRenderCache(cache RenderCache) RendererOption {
	return func(r *Renderer) { r.cache = cache }
}

// NewRenderer builds a renderer with defaults.
func NewRenderer(options ...RendererOption) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RenderWidget renders one widget to chart HTML, memoized per widget state.
func (r *Renderer) RenderWidget(w workspace.DashboardWidget) (string, error) {
	renderFn := func() (string, error) {
		return r.render(w)
	}
	if r.cache == nil {
		return renderFn()
	}
	key := fmt.Sprintf("%s:%s", w.ID, widgetHash(w))
	return r.cache.GetOrRender(key, renderFn)
}

func (r *Renderer) render(w workspace.DashboardWidget) (string, error) {
	switch w.Spec.Type {
	case workspace.ChartBar, workspace.ChartHistogram:
		return r.renderBar(w)
	case workspace.ChartLine:
		return r.renderLine(w)
	case workspace.ChartPie:
		return r.renderPie(w)
	default:
		return "", fmt.Errorf("publicview: unsupported chart type: %s", w.Spec.Type)
	}
}

func (r *Renderer) renderBar(w workspace.DashboardWidget) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalOptions(w.Title)...)
	bar.SetXAxis(axisLabels(w.Data))
	if w.Data.IsComparison() {
		bar.AddSeries("current", comparisonBarData(w.Data.Comparison, false))
		bar.AddSeries("previous", comparisonBarData(w.Data.Comparison, true))
	} else {
		bar.AddSeries(seriesName(w.Spec), plainBarData(w.Data.Plain))
	}
	return renderChart(bar)
}

func (r *Renderer) renderLine(w workspace.DashboardWidget) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalOptions(w.Title)...)
	line.SetXAxis(axisLabels(w.Data))
	if w.Data.IsComparison() {
		line.AddSeries("current", comparisonLineData(w.Data.Comparison, false))
		line.AddSeries("previous", comparisonLineData(w.Data.Comparison, true))
	} else {
		line.AddSeries(seriesName(w.Spec), plainLineData(w.Data.Plain))
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *Renderer) renderPie(w workspace.DashboardWidget) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalOptions(w.Title)...)
	points := w.Data.Plain
	if w.Data.IsComparison() {
		points = make([]workspace.ChartPoint, len(w.Data.Comparison))
		for i, p := range w.Data.Comparison {
			points[i] = workspace.ChartPoint{X: p.X, Y: p.Current}
		}
	}
	data := make([]opts.PieData, len(points))
	for i, p := range points {
		data[i] = opts.PieData{Name: p.X, Value: p.Y}
	}
	pie.AddSeries(seriesName(w.Spec), data)
	return renderChart(pie)
}

func (r *Renderer) globalOptions(title string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func seriesName(spec workspace.ChartSpec) string {
	if spec.Y != "" {
		return spec.Y
	}
	return strings.ToLower(string(spec.Type))
}

func axisLabels(data workspace.ChartSeries) []string {
	if data.IsComparison() {
		labels := make([]string, len(data.Comparison))
		for i, p := range data.Comparison {
			labels[i] = p.X
		}
		return labels
	}
	labels := make([]string, len(data.Plain))
	for i, p := range data.Plain {
		labels[i] = p.X
	}
	return labels
}

func plainBarData(points []workspace.ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, p := range points {
		data[i] = opts.BarData{Value: p.Y}
	}
	return data
}

func comparisonBarData(points []workspace.ComparisonPoint, previous bool) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, p := range points {
		if previous {
			if p.Previous != nil {
				data[i] = opts.BarData{Value: *p.Previous}
			}
			continue
		}
		data[i] = opts.BarData{Value: p.Current}
	}
	return data
}

func plainLineData(points []workspace.ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Value: p.Y}
	}
	return data
}

func comparisonLineData(points []workspace.ComparisonPoint, previous bool) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		if previous {
			if p.Previous != nil {
				data[i] = opts.LineData{Value: *p.Previous}
			}
			continue
		}
		data[i] = opts.LineData{Value: p.Current}
	}
	return data
}
