package workspace

import (
	"reflect"
	"testing"
)

func gridWidgets() []DashboardWidget {
	return []DashboardWidget{
		{ID: "a", Layout: LayoutRect{X: 0, Y: 0, W: 6, H: 4}},
		{ID: "b", Layout: LayoutRect{X: 6, Y: 0, W: 6, H: 4}},
		{ID: "c", Layout: LayoutRect{X: 0, Y: 4, W: 6, H: 4}},
	}
}

func TestMergeLayoutAppliesByIdentity(t *testing.T) {
	widgets := gridWidgets()
	updates := []LayoutUpdate{
		{ID: "b", Layout: LayoutRect{X: 0, Y: 8, W: 12, H: 4}},
	}
	merged := MergeLayout(widgets, updates)
	if len(merged) != len(widgets) {
		t.Fatalf("expected %d widgets, got %d", len(widgets), len(merged))
	}
	if merged[1].ID != "b" {
		t.Fatalf("expected order preserved, got %q at index 1", merged[1].ID)
	}
	if merged[1].Layout != (LayoutRect{X: 0, Y: 8, W: 12, H: 4}) {
		t.Fatalf("expected update applied, got %#v", merged[1].Layout)
	}
	if merged[0].Layout != widgets[0].Layout || merged[2].Layout != widgets[2].Layout {
		t.Fatalf("expected untouched widgets to keep geometry")
	}
}

func TestMergeLayoutIsIdempotent(t *testing.T) {
	widgets := gridWidgets()
	updates := []LayoutUpdate{
		{ID: "a", Layout: LayoutRect{X: 6, Y: 4, W: 6, H: 8}},
		{ID: "c", Layout: LayoutRect{X: 0, Y: 12, W: 12, H: 2}},
	}
	once := MergeLayout(widgets, updates)
	twice := MergeLayout(once, updates)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge not idempotent:\nonce:  %#v\ntwice: %#v", once, twice)
	}
}

func TestMergeLayoutIgnoresUnknownIdentities(t *testing.T) {
	widgets := gridWidgets()
	updates := []LayoutUpdate{
		{ID: "ghost", Layout: LayoutRect{X: 0, Y: 0, W: 1, H: 1}},
	}
	merged := MergeLayout(widgets, updates)
	if !reflect.DeepEqual(merged, widgets) {
		t.Fatalf("expected unknown update ignored, got %#v", merged)
	}
}

func TestMergeLayoutDoesNotMutateInput(t *testing.T) {
	widgets := gridWidgets()
	original := widgets[1].Layout
	MergeLayout(widgets, []LayoutUpdate{
		{ID: "b", Layout: LayoutRect{X: 3, Y: 3, W: 3, H: 3}},
	})
	if widgets[1].Layout != original {
		t.Fatalf("input slice mutated: %#v", widgets[1].Layout)
	}
}

func TestNextRowUsesLowestEdge(t *testing.T) {
	if got := nextRow(nil); got != 0 {
		t.Fatalf("empty grid nextRow = %d, want 0", got)
	}
	widgets := []DashboardWidget{
		{ID: "a", Layout: LayoutRect{X: 0, Y: 0, W: 6, H: 4}},
		{ID: "b", Layout: LayoutRect{X: 6, Y: 2, W: 6, H: 6}},
	}
	if got := nextRow(widgets); got != 8 {
		t.Fatalf("nextRow = %d, want 8", got)
	}
}

func TestBatchLayoutTwoPerRow(t *testing.T) {
	want := []LayoutRect{
		{X: 0, Y: 0, W: 6, H: 4},
		{X: 6, Y: 0, W: 6, H: 4},
		{X: 0, Y: 4, W: 6, H: 4},
		{X: 6, Y: 4, W: 6, H: 4},
		{X: 0, Y: 8, W: 6, H: 4},
	}
	for i, rect := range want {
		if got := batchLayout(i); got != rect {
			t.Fatalf("batchLayout(%d) = %#v, want %#v", i, got, rect)
		}
	}
}
