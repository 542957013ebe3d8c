package render

import (
	"math"
	"strings"
	"testing"
)

func testBox() Box {
	return Box{X: 40, Y: 80, W: 240, H: 300}
}

func TestRenderPie_ZeroTotalIsNoData(t *testing.T) {
	chart := RenderPie([]ChartDatum{{Label: "A", Value: 0}, {Label: "B", Value: 0}}, testBox(), Options{})
	if !chart.NoData {
		t.Fatal("expected explicit no-data result")
	}
	if len(chart.Sectors) != 0 {
		t.Fatalf("no-data result must not carry sectors, got %d", len(chart.Sectors))
	}
}

func TestRenderPie_EmptyDataIsNoData(t *testing.T) {
	chart := RenderPie(nil, testBox(), Options{})
	if !chart.NoData {
		t.Fatal("expected no-data result for empty input")
	}
}

func TestRenderPie_SweepsCoverFullCircle(t *testing.T) {
	chart := RenderPie([]ChartDatum{
		{Label: "A", Value: 50},
		{Label: "B", Value: 30},
		{Label: "C", Value: 20},
	}, testBox(), Options{})

	if chart.NoData || chart.Fallback {
		t.Fatalf("expected pie path, got %+v", chart)
	}
	if len(chart.Sectors) != 3 {
		t.Fatalf("expected 3 sectors, got %d", len(chart.Sectors))
	}

	// First sector starts at 12 o'clock.
	if math.Abs(chart.Sectors[0].Start+math.Pi/2) > 1e-9 {
		t.Errorf("expected first sector to start at -π/2, got %v", chart.Sectors[0].Start)
	}

	// Sectors are contiguous and sweep the full circle.
	var sum float64
	for i, s := range chart.Sectors {
		sum += s.Sweep
		if i > 0 {
			prev := chart.Sectors[i-1]
			if math.Abs(s.Start-(prev.Start+prev.Sweep)) > 1e-9 {
				t.Errorf("sector %d not contiguous", i)
			}
		}
	}
	if math.Abs(sum-2*math.Pi) > 1e-9 {
		t.Errorf("sweeps sum to %v, want 2π", sum)
	}

	if chart.CenterDisc == nil {
		t.Fatal("expected center disc")
	}
	if math.Abs(chart.CenterDisc.R-0.35*chart.Sectors[0].R) > 1e-9 {
		t.Errorf("center disc should be 0.35R, got %v of %v", chart.CenterDisc.R, chart.Sectors[0].R)
	}
}

func TestRenderPie_LabelThreshold(t *testing.T) {
	chart := RenderPie([]ChartDatum{
		{Label: "A", Value: 96},
		{Label: "B", Value: 4},
	}, testBox(), Options{})

	if len(chart.SliceLabels) != 1 {
		t.Fatalf("expected exactly one in-slice label, got %d", len(chart.SliceLabels))
	}
	if chart.SliceLabels[0].Text != "96.0%" {
		t.Errorf("expected label for the 96%% slice, got %q", chart.SliceLabels[0].Text)
	}
}

func TestRenderPie_LabelAtSliceMidpoint(t *testing.T) {
	// Single datum: slice covers the whole circle, midpoint at 6 o'clock.
	chart := RenderPie([]ChartDatum{{Label: "A", Value: 10}}, testBox(), Options{})
	if len(chart.SliceLabels) != 1 {
		t.Fatalf("expected one label, got %d", len(chart.SliceLabels))
	}

	s := chart.Sectors[0]
	l := chart.SliceLabels[0]
	mid := s.Start + s.Sweep/2
	wantX := s.CX + 0.6*s.R*math.Cos(mid)
	wantY := s.CY + 0.6*s.R*math.Sin(mid)
	if math.Abs(l.X-wantX) > 1e-9 || math.Abs(l.Y-wantY) > 1e-9 {
		t.Errorf("label at (%v,%v), want (%v,%v)", l.X, l.Y, wantX, wantY)
	}
}

func TestRenderPie_LegendCapAndOverflow(t *testing.T) {
	data := make([]ChartDatum, 9)
	for i := range data {
		data[i] = ChartDatum{Label: "Entry", Value: float64(10 - i)}
	}

	chart := RenderPie(data, testBox(), Options{})
	if len(chart.Legend) != 6 {
		t.Fatalf("expected 6 legend entries, got %d", len(chart.Legend))
	}
	if chart.Overflow == nil || chart.Overflow.Text != "+3 more" {
		t.Fatalf("expected '+3 more' indicator, got %+v", chart.Overflow)
	}
}

func TestRenderPie_LegendLabelTruncated(t *testing.T) {
	chart := RenderPie([]ChartDatum{
		{Label: "An Unreasonably Long Game Name", Value: 10},
	}, testBox(), Options{})

	if len(chart.Legend) != 1 {
		t.Fatalf("expected 1 legend entry, got %d", len(chart.Legend))
	}
	text := chart.Legend[0].Text.Text
	if !strings.Contains(text, "…") {
		t.Errorf("expected truncated label with ellipsis, got %q", text)
	}
	if strings.Contains(text, "Unreasonably Long") {
		t.Errorf("label not truncated: %q", text)
	}
}

func TestRenderPie_MalformedValueFallsBackToBars(t *testing.T) {
	chart := RenderPie([]ChartDatum{
		{Label: "A", Value: 10},
		{Label: "B", Value: math.NaN()},
	}, testBox(), Options{})

	if !chart.Fallback {
		t.Fatal("expected bar fallback for malformed input")
	}
	if len(chart.Sectors) != 0 {
		t.Errorf("fallback must not carry sectors")
	}
	if len(chart.Bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(chart.Bars))
	}
	if chart.Footer == nil {
		t.Fatal("expected stats footer on fallback path")
	}
	if !strings.Contains(chart.Footer.Text, "2 shown") {
		t.Errorf("unexpected footer: %q", chart.Footer.Text)
	}
}

func TestRenderPie_FallbackBarsScaleToMax(t *testing.T) {
	chart := RenderPie([]ChartDatum{
		{Label: "A", Value: 8},
		{Label: "B", Value: 4},
		{Label: "C", Value: math.Inf(1)},
	}, testBox(), Options{})

	if !chart.Fallback {
		t.Fatal("expected fallback")
	}
	if chart.Bars[0].W == 0 {
		t.Fatal("leader bar should have width")
	}
	ratio := chart.Bars[1].W / chart.Bars[0].W
	if math.Abs(ratio-0.5) > 1e-9 {
		t.Errorf("second bar should be half the leader, ratio %v", ratio)
	}
	// Malformed entry is clamped to zero length, not dropped.
	if chart.Bars[2].W != 0 {
		t.Errorf("malformed entry should render a zero bar, got %v", chart.Bars[2].W)
	}
}

func TestRenderPie_DegenerateBoxFallsBack(t *testing.T) {
	chart := RenderPie([]ChartDatum{{Label: "A", Value: 5}}, Box{}, Options{})
	if !chart.Fallback {
		t.Fatal("expected fallback for degenerate box")
	}
}
