package render

import (
	"errors"
	"fmt"
	"math"
)

// ChartDatum is the minimal renderer input. Caller order defines sector and
// legend order.
type ChartDatum struct {
	Label string
	Value float64
}

// Box bounds one chart in page coordinates (origin top-left, y grows down).
type Box struct {
	X, Y, W, H float64
}

// Options carry the tunable rendering constants. Zero values take defaults.
type Options struct {
	LabelMinPercent float64 // in-slice labels only above this share
	LegendMax       int
	LegendColumns   int
	LabelRunes      int // legend label truncation cap
}

func (o Options) withDefaults() Options {
	if o.LabelMinPercent == 0 {
		o.LabelMinPercent = 5
	}
	if o.LegendMax == 0 {
		o.LegendMax = 6
	}
	if o.LegendColumns == 0 {
		o.LegendColumns = 2
	}
	if o.LabelRunes == 0 {
		o.LabelRunes = 14
	}
	return o
}

// RGB is a fill color in [0,1] components.
type RGB struct {
	R, G, B float64
}

// Series palette, cycled by color index.
var palette = []RGB{
	{0.31, 0.27, 0.90}, {0.06, 0.73, 0.51}, {0.96, 0.62, 0.04},
	{0.94, 0.27, 0.27}, {0.55, 0.36, 0.96}, {0.02, 0.71, 0.83},
	{0.93, 0.28, 0.60}, {0.52, 0.80, 0.09}, {0.98, 0.45, 0.09},
	{0.39, 0.40, 0.95},
}

func PaletteColor(i int) RGB {
	return palette[i%len(palette)]
}

// Sector is one filled pie slice. Angles are radians in screen coordinates;
// Start=-π/2 is 12 o'clock.
type Sector struct {
	CX, CY, R    float64
	Start, Sweep float64
	ColorIndex   int
}

// Disc is the cosmetic center cut-out giving the ring look. Not data-bearing.
type Disc struct {
	CX, CY, R float64
}

type TextAnchor struct {
	X, Y     float64
	Text     string
	Size     float64
	Centered bool
}

type Swatch struct {
	X, Y, Size float64
	ColorIndex int
}

type LegendEntry struct {
	Swatch Swatch
	Text   TextAnchor
}

// Bar is one row of the horizontal fallback layout.
type Bar struct {
	X, Y, W, H float64
	ColorIndex int
	Label      TextAnchor
}

// Chart is pure geometry: drawable primitives with no paint API attached,
// so the same output can target any backend.
type Chart struct {
	NoData   bool
	Fallback bool

	Sectors     []Sector
	SliceLabels []TextAnchor
	CenterDisc  *Disc
	Legend      []LegendEntry
	Overflow    *TextAnchor // "+N more"

	Bars   []Bar
	Footer *TextAnchor // fallback stats footer
}

// RenderPie computes pie geometry for the data in caller order. A zero total
// yields an explicit no-data result. Malformed numeric input degrades to the
// horizontal-bar layout instead of failing the page.
func RenderPie(data []ChartDatum, box Box, opts Options) *Chart {
	opts = opts.withDefaults()

	var total float64
	for _, d := range data {
		total += d.Value
	}
	if total == 0 {
		return &Chart{NoData: true}
	}

	chart, err := buildSectors(data, box, opts, total)
	if err != nil {
		return renderBars(data, box, opts)
	}
	return chart
}

func buildSectors(data []ChartDatum, box Box, opts Options, total float64) (*Chart, error) {
	for _, d := range data {
		if math.IsNaN(d.Value) || math.IsInf(d.Value, 0) || d.Value < 0 {
			return nil, fmt.Errorf("malformed value %v for %q", d.Value, d.Label)
		}
	}
	if box.W <= 0 || box.H <= 0 {
		return nil, errors.New("degenerate bounding box")
	}

	cx := box.X + box.W/2
	cy := box.Y + box.H*0.38
	r := math.Min(box.W, box.H*0.76) * 0.38

	chart := &Chart{}
	angle := -math.Pi / 2
	for i, d := range data {
		sweep := d.Value / total * 2 * math.Pi
		chart.Sectors = append(chart.Sectors, Sector{
			CX: cx, CY: cy, R: r,
			Start: angle, Sweep: sweep,
			ColorIndex: i,
		})

		share := d.Value / total * 100
		if share > opts.LabelMinPercent {
			mid := angle + sweep/2
			chart.SliceLabels = append(chart.SliceLabels, TextAnchor{
				X:        cx + 0.6*r*math.Cos(mid),
				Y:        cy + 0.6*r*math.Sin(mid),
				Text:     fmt.Sprintf("%.1f%%", share),
				Size:     8,
				Centered: true,
			})
		}
		angle += sweep
	}

	chart.CenterDisc = &Disc{CX: cx, CY: cy, R: 0.35 * r}
	chart.Legend, chart.Overflow = buildLegend(data, box, opts, total, cy+r)
	return chart, nil
}

func buildLegend(data []ChartDatum, box Box, opts Options, total, topY float64) ([]LegendEntry, *TextAnchor) {
	shown := len(data)
	if shown > opts.LegendMax {
		shown = opts.LegendMax
	}

	colW := box.W / float64(opts.LegendColumns)
	const rowH = 14.0

	entries := make([]LegendEntry, 0, shown)
	for i := 0; i < shown; i++ {
		col := i % opts.LegendColumns
		row := i / opts.LegendColumns
		x := box.X + float64(col)*colW
		y := topY + 18 + float64(row)*rowH

		pct := data[i].Value / total * 100
		text := fmt.Sprintf("%d. %s  %s (%.1f%%)",
			i+1, truncateLabel(data[i].Label, opts.LabelRunes), formatValue(data[i].Value), pct)

		entries = append(entries, LegendEntry{
			Swatch: Swatch{X: x, Y: y - 7, Size: 8, ColorIndex: i},
			Text:   TextAnchor{X: x + 12, Y: y, Text: text, Size: 8},
		})
	}

	var overflow *TextAnchor
	if len(data) > shown {
		rows := (shown + opts.LegendColumns - 1) / opts.LegendColumns
		overflow = &TextAnchor{
			X:    box.X,
			Y:    topY + 18 + float64(rows)*rowH,
			Text: fmt.Sprintf("+%d more", len(data)-shown),
			Size: 8,
		}
	}
	return entries, overflow
}

// renderBars is the fallback path with its own layout math: bar length is
// proportional to the set maximum, not the total.
func renderBars(data []ChartDatum, box Box, opts Options) *Chart {
	chart := &Chart{Fallback: true}

	var total, maxV float64
	for _, d := range data {
		v := sanitize(d.Value)
		total += v
		if v > maxV {
			maxV = v
		}
	}

	const rowH, barH = 20.0, 10.0
	gutter := box.W * 0.38

	for i, d := range data {
		v := sanitize(d.Value)
		y := box.Y + float64(i)*rowH

		var w, pctMax, pctTotal float64
		if maxV > 0 {
			w = v / maxV * (box.W - gutter)
			pctMax = v / maxV * 100
		}
		if total > 0 {
			pctTotal = v / total * 100
		}

		label := fmt.Sprintf("%d. %s  %s · %.0f%% of max · %.1f%% of total",
			i+1, truncateLabel(d.Label, opts.LabelRunes), formatValue(v), pctMax, pctTotal)

		chart.Bars = append(chart.Bars, Bar{
			X: box.X + gutter, Y: y, W: w, H: barH,
			ColorIndex: i,
			Label:      TextAnchor{X: box.X, Y: y + barH - 1, Text: label, Size: 7},
		})
	}

	var leaderShare float64
	if total > 0 {
		leaderShare = maxV / total * 100
	}
	chart.Footer = &TextAnchor{
		X:    box.X,
		Y:    box.Y + float64(len(data))*rowH + 12,
		Text: fmt.Sprintf("%d shown, total %s, leader %.1f%%", len(data), formatValue(total), leaderShare),
		Size: 7,
	}
	return chart
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func truncateLabel(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes-1]) + "…"
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
