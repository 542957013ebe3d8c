package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"
)

// Document is a minimal PDF 1.4 writer: enough pages, text, rectangles and
// bezier-approximated arcs to carry the report. Caller coordinates are
// top-left origin with y growing down; conversion to PDF space happens here.
type Document struct {
	w, h  float64
	pages []*bytes.Buffer
}

func NewDocument(w, h float64) *Document {
	return &Document{w: w, h: h}
}

// AddPage appends a blank page and returns its index.
func (d *Document) AddPage() int {
	d.pages = append(d.pages, &bytes.Buffer{})
	return len(d.pages) - 1
}

func (d *Document) PageCount() int {
	return len(d.pages)
}

func (d *Document) Width() float64  { return d.w }
func (d *Document) Height() float64 { return d.h }

// Text draws s at (x, y) where y is the text baseline.
func (d *Document) Text(page int, x, y, size float64, bold bool, color RGB, s string) {
	font := "/F1"
	if bold {
		font = "/F2"
	}
	buf := d.pages[page]
	fmt.Fprintf(buf, "BT %s %.2f Tf %.3f %.3f %.3f rg %.2f %.2f Td (%s) Tj ET\n",
		font, size, color.R, color.G, color.B, x, d.h-y, escapeText(s))
}

// TextCentered centers s horizontally on x using the Helvetica average-width
// approximation; exact metrics are not needed at report font sizes.
func (d *Document) TextCentered(page int, x, y, size float64, bold bool, color RGB, s string) {
	width := approxTextWidth(s, size)
	d.Text(page, x-width/2, y, size, bold, color, s)
}

func (d *Document) FillRect(page int, x, y, w, h float64, color RGB) {
	buf := d.pages[page]
	fmt.Fprintf(buf, "%.3f %.3f %.3f rg %.2f %.2f %.2f %.2f re f\n",
		color.R, color.G, color.B, x, d.h-y-h, w, h)
}

// Line strokes from (x1,y1) to (x2,y2).
func (d *Document) Line(page int, x1, y1, x2, y2, width float64, color RGB) {
	buf := d.pages[page]
	fmt.Fprintf(buf, "%.3f %.3f %.3f RG %.2f w %.2f %.2f m %.2f %.2f l S\n",
		color.R, color.G, color.B, width, x1, d.h-y1, x2, d.h-y2)
}

// FillSector fills a pie slice. The sweep is split into quarter-circle
// bezier segments, the standard arc approximation.
func (d *Document) FillSector(page int, s Sector, color RGB) {
	if s.Sweep <= 0 || s.R <= 0 {
		return
	}
	buf := d.pages[page]
	fmt.Fprintf(buf, "%.3f %.3f %.3f rg %.2f %.2f m ", color.R, color.G, color.B, s.CX, d.h-s.CY)

	startX := s.CX + s.R*math.Cos(s.Start)
	startY := s.CY + s.R*math.Sin(s.Start)
	fmt.Fprintf(buf, "%.2f %.2f l ", startX, d.h-startY)

	d.appendArc(buf, s.CX, s.CY, s.R, s.Start, s.Sweep)
	fmt.Fprintf(buf, "h f\n")
}

// FillCircle fills a full disc.
func (d *Document) FillCircle(page int, cx, cy, r float64, color RGB) {
	if r <= 0 {
		return
	}
	buf := d.pages[page]
	startX := cx + r
	fmt.Fprintf(buf, "%.3f %.3f %.3f rg %.2f %.2f m ", color.R, color.G, color.B, startX, d.h-cy)
	d.appendArc(buf, cx, cy, r, 0, 2*math.Pi)
	fmt.Fprintf(buf, "h f\n")
}

func (d *Document) appendArc(buf *bytes.Buffer, cx, cy, r, start, sweep float64) {
	segments := int(math.Ceil(sweep / (math.Pi / 2)))
	if segments < 1 {
		segments = 1
	}
	delta := sweep / float64(segments)
	k := 4.0 / 3.0 * math.Tan(delta/4)

	angle := start
	for i := 0; i < segments; i++ {
		a0, a1 := angle, angle+delta

		x0, y0 := math.Cos(a0), math.Sin(a0)
		x3, y3 := math.Cos(a1), math.Sin(a1)
		x1, y1 := x0-k*y0, y0+k*x0
		x2, y2 := x3+k*y3, y3-k*x3

		fmt.Fprintf(buf, "%.2f %.2f %.2f %.2f %.2f %.2f c ",
			cx+r*x1, d.h-(cy+r*y1),
			cx+r*x2, d.h-(cy+r*y2),
			cx+r*x3, d.h-(cy+r*y3))
		angle = a1
	}
}

// Bytes assembles the final PDF: catalog, page tree, two base fonts, then a
// page and content stream object per page, closed by the xref table.
func (d *Document) Bytes() []byte {
	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")

	objCount := 4 + 2*len(d.pages)
	offsets := make([]int, objCount+1)

	writeObj := func(num int, body string) {
		offsets[num] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, 0, len(d.pages))
	for i := range d.pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 5+2*i))
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(d.pages)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	writeObj(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >>")

	for i, content := range d.pages {
		pageNum := 5 + 2*i
		contentNum := pageNum + 1

		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] "+
				"/Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>",
			d.w, d.h, contentNum))

		offsets[contentNum] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			contentNum, content.Len(), content.Bytes())
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n0000000000 65535 f \n", objCount+1)
	for num := 1; num <= objCount; num++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		objCount+1, xrefStart)

	return out.Bytes()
}

// escapeText folds text to the base-font ASCII repertoire and escapes PDF
// string delimiters.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '…':
			b.WriteString("...")
		case '·':
			b.WriteByte('-')
		case '—', '–':
			b.WriteByte('-')
		default:
			if r < 32 || r > 126 {
				b.WriteByte('?')
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func approxTextWidth(s string, size float64) float64 {
	return float64(len([]rune(s))) * size * 0.5
}
