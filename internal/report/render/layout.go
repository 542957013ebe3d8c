package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"activity-report-service/internal/analytics/core/domain"
)

// A4 in points.
const (
	pageW = 595.28
	pageH = 841.89

	margin  = 50.0
	usableW = pageW - 2*margin
	maxY    = pageH - 60 // hard vertical limit for flowed content
)

var (
	black = RGB{0, 0, 0}
	gray  = RGB{0.45, 0.45, 0.45}
	white = RGB{1, 1, 1}
)

var ErrNoMetrics = errors.New("layout input is missing metrics bundles")

// LayoutInput is everything the layout needs; the engine never re-queries.
type LayoutInput struct {
	Title         string
	PeriodLabel   string
	GeneratedAt   time.Time
	FilterSummary []string

	Current  *domain.MetricsBundle
	Previous *domain.MetricsBundle
	Growth   []domain.GrowthMetric

	IncludeCharts bool
}

// Engine assembles the paginated report document. Assembly is sequential per
// request (the page cursor is stateful) but engines are stateless between
// calls and safe to share.
type Engine struct {
	log  *zap.Logger
	opts Options
}

func NewEngine(log *zap.Logger, opts Options) *Engine {
	return &Engine{log: log, opts: opts.withDefaults()}
}

// BuildReport lays out cover, executive summary, chart+analysis pages,
// ranking tables and the trend page, then stamps footers once the final page
// count is known.
func (e *Engine) BuildReport(in LayoutInput) ([]byte, error) {
	if in.Current == nil || in.Previous == nil {
		return nil, ErrNoMetrics
	}

	doc := NewDocument(pageW, pageH)

	e.coverPage(doc, in)
	e.summaryPage(doc, in)

	if in.IncludeCharts {
		for _, section := range chartSections(in.Current) {
			e.chartPage(doc, in, section)
		}
	}

	e.rankingPages(doc, in.Current)
	e.trendPage(doc, in)

	// Footer post-pass: total page count is only known now.
	total := doc.PageCount()
	for i := 0; i < total; i++ {
		doc.TextCentered(i, pageW/2, pageH-25, 8, false, gray,
			fmt.Sprintf("page %d of %d", i+1, total))
	}

	return doc.Bytes(), nil
}

// ----------------------------------------------------------------------------
// Cover
// ----------------------------------------------------------------------------

func (e *Engine) coverPage(doc *Document, in LayoutInput) {
	page := doc.AddPage()

	title := in.Title
	if title == "" {
		title = "Activity Report"
	}

	doc.TextCentered(page, pageW/2, 300, 26, true, black, title)
	doc.TextCentered(page, pageW/2, 335, 16, false, black, in.PeriodLabel)
	doc.TextCentered(page, pageW/2, 360, 10, false, gray,
		"Generated "+in.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))

	// Filter summary only when filters were applied.
	if len(in.FilterSummary) > 0 {
		y := 410.0
		doc.TextCentered(page, pageW/2, y, 10, true, black, "Applied filters")
		for _, f := range in.FilterSummary {
			y += 14
			doc.TextCentered(page, pageW/2, y, 9, false, gray, f)
		}
	}
}

// ----------------------------------------------------------------------------
// Executive summary
// ----------------------------------------------------------------------------

func (e *Engine) summaryPage(doc *Document, in LayoutInput) {
	page := doc.AddPage()
	doc.Text(page, margin, 70, 16, true, black, "Executive Summary")
	doc.Text(page, margin, 88, 10, false, gray, in.PeriodLabel)

	cols := []float64{margin, margin + 220, margin + 330}
	y := 130.0
	drawRow(doc, page, y, cols, true, "Metric", "Current period", "Previous period")
	doc.Line(page, margin, y+4, margin+usableW, y+4, 0.7, black)

	counters := []struct {
		name      string
		cur, prev int64
	}{
		{"Searches", in.Current.TotalSearches, in.Previous.TotalSearches},
		{"Activity views", in.Current.TotalViews, in.Previous.TotalViews},
		{"Registrations", in.Current.TotalRegistrations, in.Previous.TotalRegistrations},
		{"Unique participants", in.Current.UniqueActors, in.Previous.UniqueActors},
	}
	for _, c := range counters {
		y += 18
		drawRow(doc, page, y, cols, false, c.name, fmt.Sprintf("%d", c.cur), fmt.Sprintf("%d", c.prev))
	}

	y += 50
	doc.Text(page, margin, y, 13, true, black, "Growth vs previous period")
	gcols := []float64{margin, margin + 220, margin + 310, margin + 400}
	y += 24
	drawRow(doc, page, y, gcols, true, "Metric", "Current", "Previous", "Change")
	doc.Line(page, margin, y+4, margin+usableW, y+4, 0.7, black)

	for _, g := range in.Growth {
		y += 18
		drawRow(doc, page, y, gcols, false,
			g.Name,
			fmt.Sprintf("%d", g.Current),
			fmt.Sprintf("%d", g.Previous),
			fmt.Sprintf("%+.1f%%", g.ChangePercent),
		)
	}
}

func drawRow(doc *Document, page int, y float64, cols []float64, bold bool, cells ...string) {
	for i, cell := range cells {
		if i >= len(cols) {
			break
		}
		doc.Text(page, cols[i], y, 9, bold, black, cell)
	}
}

// ----------------------------------------------------------------------------
// Chart + analysis pages
// ----------------------------------------------------------------------------

type chartSection struct {
	Title  string
	Data   []ChartDatum
	List   []domain.DimensionMetric
	Shares []domain.CategoryShare
}

func chartSections(bundle *domain.MetricsBundle) []chartSection {
	shareData := make([]ChartDatum, 0, len(bundle.CategoryShares))
	for _, s := range bundle.CategoryShares {
		shareData = append(shareData, ChartDatum{Label: s.Category, Value: float64(s.Count)})
	}

	return []chartSection{
		{Title: "Top Searched Games", Data: metricData(bundle.TopGames), List: bundle.TopGames, Shares: bundle.CategoryShares},
		{Title: "Category Distribution", Data: shareData, Shares: bundle.CategoryShares},
		{Title: "Most Active Stores", Data: metricData(bundle.TopStores), List: bundle.TopStores},
		{Title: "Popular Activities", Data: metricData(bundle.TopActivities), List: bundle.TopActivities},
	}
}

func metricData(metrics []domain.DimensionMetric) []ChartDatum {
	data := make([]ChartDatum, 0, len(metrics))
	for _, m := range metrics {
		data = append(data, ChartDatum{Label: m.DisplayName, Value: float64(m.Count)})
	}
	return data
}

func (e *Engine) chartPage(doc *Document, in LayoutInput, section chartSection) {
	page := doc.AddPage()
	doc.Text(page, margin, 70, 16, true, black, section.Title)
	doc.Text(page, margin, 88, 10, false, gray, in.PeriodLabel)

	chartBox := Box{X: margin, Y: 120, W: usableW * 0.5, H: 420}
	chart := RenderPie(section.Data, chartBox, e.opts)
	if chart.Fallback {
		e.log.Warn("pie render degraded to bar fallback", zap.String("section", section.Title))
	}
	drawChart(doc, page, chart, chartBox)

	bullets := analysisBullets(section, in.Current.Window.Kind)
	e.analysisBlock(doc, page, bullets, len(section.Data))
}

// analysisBlock flows bullets through the fixed-width two-column machine on
// the right half of the page. Columns wrap-and-continue within this page;
// nothing spills onto a new page.
func (e *Engine) analysisBlock(doc *Document, page int, bullets []string, itemCount int) {
	blockX := margin + usableW*0.55
	colGap := 12.0
	colW := (usableW*0.45 - colGap) / 2

	flow := newColumnFlow(blockX, blockX+colW+colGap, 120, maxY-40, 10)
	maxChars := int(colW / 4) // ~8pt Helvetica average glyph width

	for _, bullet := range bullets {
		lines := wrapText("- "+bullet, maxChars)
		x, y, ok := flow.place(len(lines) + 1) // one blank line between bullets
		if !ok {
			doc.Text(page, blockX, maxY-20, 8, true, gray,
				fmt.Sprintf("%d items total", itemCount))
			return
		}
		for i, line := range lines {
			doc.Text(page, x, y+float64(i+1)*10, 8, false, black, line)
		}
		flow.alternate()
	}
}

// columnFlow is the cursor state machine for the two-column analysis layout:
// column index, per-column y-cursor, hard max-y. On overflow the cursor
// resets to the top of the same column; a second overflow exhausts the flow.
type columnFlow struct {
	colX    [2]float64
	topY    float64
	maxY    float64
	lineH   float64
	y       [2]float64
	col     int
	wrapped [2]bool
}

func newColumnFlow(leftX, rightX, topY, maxY, lineH float64) *columnFlow {
	return &columnFlow{
		colX:  [2]float64{leftX, rightX},
		topY:  topY,
		maxY:  maxY,
		lineH: lineH,
		y:     [2]float64{topY, topY},
	}
}

// place reserves vertical room for n lines in the active column and returns
// the anchor. ok=false means the flow is exhausted even after wrapping.
func (f *columnFlow) place(n int) (x, y float64, ok bool) {
	need := float64(n) * f.lineH
	if f.y[f.col]+need > f.maxY {
		if f.wrapped[f.col] {
			return 0, 0, false
		}
		f.wrapped[f.col] = true
		f.y[f.col] = f.topY
		if f.y[f.col]+need > f.maxY {
			return 0, 0, false
		}
	}
	x, y = f.colX[f.col], f.y[f.col]
	f.y[f.col] += need
	return x, y, true
}

// alternate switches the active column; bullets take turns left/right.
func (f *columnFlow) alternate() {
	f.col = 1 - f.col
}

// analysisBullets renders the templated observations for one section.
func analysisBullets(section chartSection, kind domain.PeriodKind) []string {
	list := section.List
	if len(list) == 0 && len(section.Shares) > 0 {
		// Category section carries shares instead of a ranked list.
		list = make([]domain.DimensionMetric, 0, len(section.Shares))
		for _, s := range section.Shares {
			list = append(list, domain.DimensionMetric{DisplayName: s.Category, Count: s.Count, Category: s.Category})
		}
	}
	if len(list) == 0 {
		return []string{"No recorded activity for this dimension in the period."}
	}

	leader := list[0]
	var total int64
	for _, m := range list {
		total += m.Count
	}

	bullets := []string{
		fmt.Sprintf("%s leads with %d events.", leader.DisplayName, leader.Count),
	}

	if len(list) > 1 {
		lead := leader.Count - list[1].Count
		bullets = append(bullets, fmt.Sprintf("%s outpaces %s by %d events.",
			leader.DisplayName, list[1].DisplayName, lead))
	}

	if total > 0 {
		share := float64(leader.Count) / float64(total) * 100
		bullets = append(bullets, fmt.Sprintf("%s holds %.1f%% of the tracked volume.",
			leader.DisplayName, share))
	}

	avg := float64(total) / float64(len(list))
	above := 0
	for _, m := range list {
		if float64(m.Count) > avg {
			above++
		}
	}
	bullets = append(bullets, fmt.Sprintf("%d of %d entries sit above the list average.", above, len(list)))

	if len(section.Shares) > 0 {
		bullets = append(bullets, fmt.Sprintf("Most volume concentrates in the %s category.",
			section.Shares[0].Category))
	}

	bullets = append(bullets, periodCloser(kind))
	return bullets
}

func periodCloser(kind domain.PeriodKind) string {
	switch kind {
	case domain.PeriodMonthly:
		return "Swings of this size are normal month over month."
	case domain.PeriodQuarterly:
		return "Quarter-long movements here are worth tracking into the next quarter."
	case domain.PeriodSemiannual:
		return "Half-year figures smooth out seasonal spikes."
	default:
		return "Annual totals set the baseline for next year's targets."
	}
}

// drawChart paints chart geometry onto a page: the pie path, the bar
// fallback, or the no-data placeholder.
func drawChart(doc *Document, page int, chart *Chart, box Box) {
	if chart.NoData {
		doc.Line(page, box.X, box.Y, box.X+box.W, box.Y, 0.5, gray)
		doc.Line(page, box.X, box.Y+box.H/2, box.X+box.W, box.Y+box.H/2, 0.5, gray)
		doc.TextCentered(page, box.X+box.W/2, box.Y+box.H/4, 11, false, gray, "No data for this period")
		return
	}

	if chart.Fallback {
		for _, bar := range chart.Bars {
			doc.FillRect(page, bar.X, bar.Y, bar.W, bar.H, PaletteColor(bar.ColorIndex))
			doc.Text(page, bar.Label.X, bar.Label.Y, bar.Label.Size, false, black, bar.Label.Text)
		}
		if chart.Footer != nil {
			doc.Text(page, chart.Footer.X, chart.Footer.Y, chart.Footer.Size, false, gray, chart.Footer.Text)
		}
		return
	}

	for _, s := range chart.Sectors {
		doc.FillSector(page, s, PaletteColor(s.ColorIndex))
	}
	if chart.CenterDisc != nil {
		doc.FillCircle(page, chart.CenterDisc.CX, chart.CenterDisc.CY, chart.CenterDisc.R, white)
	}
	for _, l := range chart.SliceLabels {
		doc.TextCentered(page, l.X, l.Y, l.Size, true, white, l.Text)
	}
	for _, entry := range chart.Legend {
		sw := entry.Swatch
		doc.FillRect(page, sw.X, sw.Y, sw.Size, sw.Size, PaletteColor(sw.ColorIndex))
		doc.Text(page, entry.Text.X, entry.Text.Y, entry.Text.Size, false, black, entry.Text.Text)
	}
	if chart.Overflow != nil {
		doc.Text(page, chart.Overflow.X, chart.Overflow.Y, chart.Overflow.Size, false, gray, chart.Overflow.Text)
	}
}

// ----------------------------------------------------------------------------
// Ranking tables
// ----------------------------------------------------------------------------

const tableRowsPerPage = 36

func (e *Engine) rankingPages(doc *Document, bundle *domain.MetricsBundle) {
	sections := []struct {
		title   string
		metrics []domain.DimensionMetric
	}{
		{"Games by search volume", bundle.TopGames},
		{"Stores by activity views", bundle.TopStores},
		{"Activities by registrations", bundle.TopActivities},
	}

	page := doc.AddPage()
	doc.Text(page, margin, 70, 16, true, black, "Detailed Rankings")
	y := 100.0
	rows := 0

	cols := []float64{margin, margin + 30, margin + 230, margin + 300, margin + 370, margin + 440}

	newPage := func() {
		page = doc.AddPage()
		y = 70.0
		rows = 0
	}
	ensureRoom := func() {
		if rows >= tableRowsPerPage || y > maxY-20 {
			newPage()
		}
	}

	for _, section := range sections {
		ensureRoom()
		y += 24
		doc.Text(page, margin, y, 12, true, black, section.title)
		y += 18
		drawRow(doc, page, y, cols, true, "#", "Name", "Count", "Related", "Actors", "Category")
		doc.Line(page, margin, y+4, margin+usableW, y+4, 0.5, black)
		rows += 3

		for i, m := range section.metrics {
			ensureRoom()
			y += 14
			drawRow(doc, page, y, cols, false,
				fmt.Sprintf("%d", i+1),
				truncateLabel(m.DisplayName, 38),
				fmt.Sprintf("%d", m.Count),
				fmt.Sprintf("%d", m.SecondaryCount),
				fmt.Sprintf("%d", m.UniqueActors),
				m.Category,
			)
			rows++
		}
		y += 10
	}
}

// ----------------------------------------------------------------------------
// Trend & recommendations
// ----------------------------------------------------------------------------

func (e *Engine) trendPage(doc *Document, in LayoutInput) {
	page := doc.AddPage()
	doc.Text(page, margin, 70, 16, true, black, "Trends & Recommendations")

	y := 100.0
	write := func(s string) {
		for _, line := range wrapText(s, 100) {
			y += 13
			doc.Text(page, margin, y, 9, false, black, line)
		}
		y += 6
	}

	for _, g := range in.Growth {
		write(growthSentence(g))
	}

	y += 8
	doc.Text(page, margin, y, 12, true, black, "Highlights")
	y += 4

	if len(in.Current.TopGames) > 0 {
		write(fmt.Sprintf("%s was the most searched game of the period.", in.Current.TopGames[0].DisplayName))
	}
	if len(in.Current.TopStores) > 0 {
		write(fmt.Sprintf("%s drew the most activity views.", in.Current.TopStores[0].DisplayName))
	}
	if len(in.Current.TopActivities) > 0 {
		write(fmt.Sprintf("%s collected the most registrations.", in.Current.TopActivities[0].DisplayName))
	}
	if len(in.Current.Trend) > 0 {
		busiest := in.Current.Trend[0]
		for _, p := range in.Current.Trend {
			if p.SearchCount+p.ViewCount+p.RegistrationCount >
				busiest.SearchCount+busiest.ViewCount+busiest.RegistrationCount {
				busiest = p
			}
		}
		write(fmt.Sprintf("Activity was recorded on %d distinct days; the busiest was %s.",
			len(in.Current.Trend), busiest.Day))
	}
}

// growthSentence turns a delta into grow/shrink/stable phrasing.
func growthSentence(g domain.GrowthMetric) string {
	switch {
	case g.ChangePercent > 1:
		return fmt.Sprintf("%s grew %.1f%% over the previous period (%d vs %d).",
			g.Name, g.ChangePercent, g.Current, g.Previous)
	case g.ChangePercent < -1:
		return fmt.Sprintf("%s shrank %.1f%% compared with the previous period (%d vs %d).",
			g.Name, -g.ChangePercent, g.Current, g.Previous)
	default:
		return fmt.Sprintf("%s held steady (%d vs %d).", g.Name, g.Current, g.Previous)
	}
}

// wrapText splits s into lines of at most maxChars characters, breaking on
// spaces. Overlong single words are hard-broken.
func wrapText(s string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}

	words := strings.Fields(s)
	var lines []string
	var current string

	flush := func() {
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
	}

	for _, word := range words {
		for len([]rune(word)) > maxChars {
			flush()
			runes := []rune(word)
			lines = append(lines, string(runes[:maxChars]))
			word = string(runes[maxChars:])
		}
		switch {
		case current == "":
			current = word
		case len([]rune(current))+1+len([]rune(word)) <= maxChars:
			current += " " + word
		default:
			flush()
			current = word
		}
	}
	flush()

	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
