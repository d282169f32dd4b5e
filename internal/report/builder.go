// Package report assembles the per-student participation PDF.
package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/signintech/gopdf"
	"github.com/stemsi/attendance-dashboard/internal/config"
	"github.com/stemsi/attendance-dashboard/internal/model"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	fontRegular = "go"
	fontBold    = "go-bold"

	pageWidth    = 595.28
	pageHeight   = 841.89
	margin       = 40.0
	contentWidth = pageWidth - 2*margin
	bottomLimit  = pageHeight - margin
	rowHeight    = 18.0
	bandHeight   = 64.0
)

// Chart is a rendered PNG placed under the weekly table.
type Chart struct {
	Caption string
	PNG     []byte
}

// Document is everything printed in one student report.
type Document struct {
	Title       string
	Dataset     model.DatasetInfo
	Detail      model.StudentDetail
	Charts      []Chart
	GeneratedAt time.Time
}

// Builder lays out reports in the dashboard theme.
type Builder struct {
	theme config.Theme
}

func NewBuilder(theme config.Theme) *Builder {
	return &Builder{theme: theme}
}

type rgb struct{ r, g, b uint8 }

func color(hex string) rgb {
	r, g, b := config.MustRGB(hex)
	return rgb{r, g, b}
}

// page wraps gopdf with a cursor and the theme colors.
type page struct {
	pdf     *gopdf.GoPdf
	y       float64
	primary rgb
	text    rgb
	tint    rgb
	border  rgb
}

// Build writes the PDF for doc to w.
func (b *Builder) Build(w io.Writer, doc Document) error {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := pdf.AddTTFFontData(fontRegular, goregular.TTF); err != nil {
		return fmt.Errorf("add font: %w", err)
	}
	if err := pdf.AddTTFFontData(fontBold, gobold.TTF); err != nil {
		return fmt.Errorf("add bold font: %w", err)
	}
	pdf.SetInfo(gopdf.PdfInfo{
		Title:        "Participation Report - " + doc.Detail.Student,
		Subject:      doc.Title,
		Creator:      "attendance-dashboard",
		CreationDate: doc.GeneratedAt,
	})

	p := &page{
		pdf:     pdf,
		primary: color(b.theme.Primary),
		text:    color(b.theme.Text),
		tint:    color(b.theme.Tint),
		border:  color(b.theme.Border),
	}
	pdf.AddPage()

	steps := []func(Document) error{
		p.header,
		p.summary,
		p.attendance,
		p.weeks,
		p.charts,
	}
	for _, step := range steps {
		if err := step(doc); err != nil {
			return err
		}
	}

	if _, err := pdf.WriteTo(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (p *page) header(doc Document) error {
	p.pdf.SetFillColor(p.primary.r, p.primary.g, p.primary.b)
	p.pdf.RectFromUpperLeftWithStyle(0, 0, pageWidth, bandHeight, "F")

	p.pdf.SetTextColor(255, 255, 255)
	if err := p.write(fontBold, 18, margin, 16, contentWidth, "Participation Report"); err != nil {
		return err
	}
	if err := p.write(fontRegular, 10, margin, 40, contentWidth, doc.Title); err != nil {
		return err
	}

	p.y = bandHeight + 20
	p.pdf.SetTextColor(p.text.r, p.text.g, p.text.b)
	if err := p.write(fontBold, 16, margin, p.y, contentWidth, doc.Detail.Student); err != nil {
		return err
	}
	p.y += 24

	meta := fmt.Sprintf("Generated %s", doc.GeneratedAt.Format("2006-01-02 15:04 MST"))
	if doc.Dataset.Source != "" {
		meta += " from " + filepath.Base(doc.Dataset.Source)
	}
	if err := p.write(fontRegular, 9, margin, p.y, contentWidth, meta); err != nil {
		return err
	}
	p.y += 22
	return nil
}

func (p *page) summary(doc Document) error {
	d := doc.Detail
	if !d.Enrolled || len(d.Records) == 0 {
		p.pdf.SetTextColor(p.primary.r, p.primary.g, p.primary.b)
		if err := p.write(fontBold, 12, margin, p.y, contentWidth, "No attendance records for this student."); err != nil {
			return err
		}
		p.pdf.SetTextColor(p.text.r, p.text.g, p.text.b)
		p.y += 24
		return nil
	}

	s := d.Summary
	stats := [][2]string{
		{"Total participation", strconv.Itoa(s.TotalParticipation)},
		{"Total score", formatNumber(s.TotalScore)},
		{"Average per week", formatNumber(d.AveragePerWeek)},
		{"Weeks spoken", fmt.Sprintf("%d / %d", s.WeeksSpoken, s.WeeksTotal)},
		{"Rating", formatNumber(s.Rating) + " / 100"},
	}

	boxW := contentWidth / float64(len(stats))
	for i, st := range stats {
		x := margin + float64(i)*boxW
		p.pdf.SetFillColor(p.tint.r, p.tint.g, p.tint.b)
		p.pdf.RectFromUpperLeftWithStyle(x+2, p.y, boxW-4, 46, "F")

		p.pdf.SetTextColor(p.primary.r, p.primary.g, p.primary.b)
		if err := p.write(fontBold, 14, x+8, p.y+8, boxW-16, st[1]); err != nil {
			return err
		}
		p.pdf.SetTextColor(p.text.r, p.text.g, p.text.b)
		if err := p.write(fontRegular, 8, x+8, p.y+30, boxW-16, st[0]); err != nil {
			return err
		}
	}
	p.y += 62
	return nil
}

func (p *page) attendance(doc Document) error {
	d := doc.Detail
	if len(d.Records) == 0 {
		return nil
	}

	parts := make([]string, 0, len(model.AllStatuses))
	for _, st := range model.AllStatuses {
		parts = append(parts, fmt.Sprintf("%s: %d", st, d.AttendanceCounts[st]))
	}
	lines := []string{"Attendance  " + strings.Join(parts, "   ")}
	if len(d.AbsentTags) > 0 {
		lines = append(lines, "Absent: "+strings.Join(d.AbsentTags, ", "))
	}
	if len(d.ExcusedTags) > 0 {
		lines = append(lines, "Excused: "+strings.Join(d.ExcusedTags, ", "))
	}

	for _, line := range lines {
		if err := p.write(fontRegular, 10, margin, p.y, contentWidth, line); err != nil {
			return err
		}
		p.y += 16
	}
	p.y += 8
	return nil
}

var weekColumns = []struct {
	title string
	width float64
	right bool
}{
	{"Week", 95, false},
	{"Date", 45, false},
	{"Topic", 120, false},
	{"Part.", 40, true},
	{"Score", 40, true},
	{"Status", 70, false},
	{"Note", 105, false},
}

func (p *page) weeks(doc Document) error {
	d := doc.Detail
	if len(d.Records) == 0 {
		return nil
	}

	if err := p.sectionTitle("Weekly breakdown"); err != nil {
		return err
	}
	if err := p.tableHeader(); err != nil {
		return err
	}

	for i, pt := range d.Trend {
		if p.y+rowHeight > bottomLimit {
			p.newPage()
			if err := p.tableHeader(); err != nil {
				return err
			}
		}
		if i%2 == 1 {
			p.pdf.SetFillColor(p.tint.r, p.tint.g, p.tint.b)
			p.pdf.RectFromUpperLeftWithStyle(margin, p.y, contentWidth, rowHeight, "F")
		}

		status := string(pt.Status)
		if pt.Implicit {
			status += "*"
		}
		cells := []string{
			pt.Week,
			pt.Date,
			pt.Topic,
			strconv.Itoa(pt.Participation),
			formatNumber(pt.Score),
			status,
			pt.Note,
		}
		if err := p.row(fontRegular, cells); err != nil {
			return err
		}
	}

	p.pdf.SetStrokeColor(p.border.r, p.border.g, p.border.b)
	p.pdf.SetLineWidth(0.5)
	p.pdf.Line(margin, p.y, margin+contentWidth, p.y)
	p.y += 6
	if err := p.write(fontRegular, 8, margin, p.y, contentWidth, "* no record for this week, counted as absent"); err != nil {
		return err
	}
	p.y += 20
	return nil
}

func (p *page) tableHeader() error {
	p.pdf.SetFillColor(p.primary.r, p.primary.g, p.primary.b)
	p.pdf.RectFromUpperLeftWithStyle(margin, p.y, contentWidth, rowHeight, "F")
	p.pdf.SetTextColor(255, 255, 255)

	titles := make([]string, len(weekColumns))
	for i, c := range weekColumns {
		titles[i] = c.title
	}
	if err := p.row(fontBold, titles); err != nil {
		return err
	}
	p.pdf.SetTextColor(p.text.r, p.text.g, p.text.b)
	return nil
}

func (p *page) row(font string, cells []string) error {
	if err := p.pdf.SetFont(font, "", 9); err != nil {
		return fmt.Errorf("set font: %w", err)
	}
	x := margin
	for i, c := range weekColumns {
		text, err := p.fit(cells[i], c.width-8)
		if err != nil {
			return err
		}
		align := gopdf.Left | gopdf.Middle
		if c.right {
			align = gopdf.Right | gopdf.Middle
		}
		p.pdf.SetXY(x+4, p.y)
		if err := p.pdf.CellWithOption(&gopdf.Rect{W: c.width - 8, H: rowHeight}, text, gopdf.CellOption{Align: align}); err != nil {
			return fmt.Errorf("table cell: %w", err)
		}
		x += c.width
	}
	p.y += rowHeight
	return nil
}

func (p *page) charts(doc Document) error {
	for _, ch := range doc.Charts {
		if len(ch.PNG) == 0 {
			continue
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(ch.PNG))
		if err != nil {
			return fmt.Errorf("decode chart %q: %w", ch.Caption, err)
		}

		w := float64(cfg.Width)
		h := float64(cfg.Height)
		if w > contentWidth {
			h = h * contentWidth / w
			w = contentWidth
		}
		if p.y+h+24 > bottomLimit {
			p.newPage()
		}

		if err := p.sectionTitle(ch.Caption); err != nil {
			return err
		}
		holder, err := gopdf.ImageHolderByBytes(ch.PNG)
		if err != nil {
			return fmt.Errorf("load chart %q: %w", ch.Caption, err)
		}
		if err := p.pdf.ImageByHolder(holder, margin+(contentWidth-w)/2, p.y, &gopdf.Rect{W: w, H: h}); err != nil {
			return fmt.Errorf("place chart %q: %w", ch.Caption, err)
		}
		p.y += h + 16
	}
	return nil
}

func (p *page) sectionTitle(title string) error {
	if p.y+40 > bottomLimit {
		p.newPage()
	}
	p.pdf.SetTextColor(p.primary.r, p.primary.g, p.primary.b)
	if err := p.write(fontBold, 12, margin, p.y, contentWidth, title); err != nil {
		return err
	}
	p.pdf.SetTextColor(p.text.r, p.text.g, p.text.b)
	p.y += 20
	return nil
}

func (p *page) newPage() {
	p.pdf.AddPage()
	p.y = margin
}

func (p *page) write(font string, size float64, x, y, width float64, text string) error {
	if err := p.pdf.SetFont(font, "", size); err != nil {
		return fmt.Errorf("set font: %w", err)
	}
	text, err := p.fit(text, width)
	if err != nil {
		return err
	}
	p.pdf.SetXY(x, y)
	if err := p.pdf.Cell(&gopdf.Rect{W: width, H: size + 4}, text); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	return nil
}

// fit shortens text with an ellipsis until it is narrower than width.
func (p *page) fit(text string, width float64) (string, error) {
	w, err := p.pdf.MeasureTextWidth(text)
	if err != nil {
		return "", fmt.Errorf("measure text: %w", err)
	}
	if w <= width {
		return text, nil
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		w, err = p.pdf.MeasureTextWidth(candidate)
		if err != nil {
			return "", fmt.Errorf("measure text: %w", err)
		}
		if w <= width {
			return candidate, nil
		}
	}
	return "", nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
