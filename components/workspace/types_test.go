package workspace

import (
	"encoding/json"
	"testing"
)

func TestChartSeriesDecodesPlainPoints(t *testing.T) {
	var series ChartSeries
	if err := json.Unmarshal([]byte(`[{"x":"2024-01","y":10},{"x":"2024-02","y":12.5}]`), &series); err != nil {
		t.Fatalf("unmarshal returned error: %v", err)
	}
	if series.IsComparison() {
		t.Fatalf("expected plain series")
	}
	if series.Len() != 2 || series.Plain[1].Y != 12.5 {
		t.Fatalf("unexpected series %#v", series)
	}
}

func TestChartSeriesDecodesComparisonPoints(t *testing.T) {
	var series ChartSeries
	payload := `[{"x":"2024-01","current":10,"previous":8},{"x":"2024-02","current":12}]`
	if err := json.Unmarshal([]byte(payload), &series); err != nil {
		t.Fatalf("unmarshal returned error: %v", err)
	}
	if !series.IsComparison() {
		t.Fatalf("expected comparison series")
	}
	if series.Comparison[0].Previous == nil || *series.Comparison[0].Previous != 8 {
		t.Fatalf("expected previous value carried, got %#v", series.Comparison[0])
	}
	if series.Comparison[1].Previous != nil {
		t.Fatalf("expected missing previous to stay nil")
	}
}

func TestChartSeriesEmptyMarshalsAsArray(t *testing.T) {
	data, err := json.Marshal(ChartSeries{})
	if err != nil {
		t.Fatalf("marshal returned error: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected empty array, got %s", data)
	}
}
