package workspace

// Default widget geometry in grid units.
const (
	DefaultWidgetWidth  = 6
	DefaultWidgetHeight = 4
	GridColumns         = 12
)

// MergeLayout merges geometry updates into the widget sequence by identity.
// Widgets without a matching update are returned unchanged, in the same
// relative order; updates for unknown identities are ignored. The merge
// never adds or removes widgets and is idempotent.
func MergeLayout(widgets []DashboardWidget, updates []LayoutUpdate) []DashboardWidget {
	if len(updates) == 0 {
		return widgets
	}
	rects := make(map[string]LayoutRect, len(updates))
	for _, u := range updates {
		rects[u.ID] = u.Layout
	}
	merged := make([]DashboardWidget, len(widgets))
	copy(merged, widgets)
	for i, w := range merged {
		if rect, ok := rects[w.ID]; ok {
			merged[i].Layout = rect
		}
	}
	return merged
}

// nextRow returns the first free row below the existing content, so a new
// widget lands after everything already placed. The grid's vertical
// compaction pulls it up if there are gaps.
func nextRow(widgets []DashboardWidget) int {
	bottom := 0
	for _, w := range widgets {
		if edge := w.Layout.Y + w.Layout.H; edge > bottom {
			bottom = edge
		}
	}
	return bottom
}

// batchLayout computes the fixed two-per-row grid used when a generated
// dashboard replaces the widget sequence.
func batchLayout(index int) LayoutRect {
	return LayoutRect{
		X: (index % 2) * DefaultWidgetWidth,
		Y: (index / 2) * DefaultWidgetHeight,
		W: DefaultWidgetWidth,
		H: DefaultWidgetHeight,
	}
}
