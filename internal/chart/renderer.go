// Package chart renders the dashboard charts as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/stemsi/attendance-dashboard/internal/config"
	"github.com/stemsi/attendance-dashboard/internal/model"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a chart would have nothing to draw.
var ErrNoData = errors.New("no data to chart")

const (
	barWidth     = 36
	barSpacing   = 14
	minBarWidth  = 640
	chartHeight  = 440
	pieSize      = 440
	trendWidth   = 820
	titleSize    = 15
	axisFontSize = 9
)

// Renderer draws every chart with the same theme and fonts.
type Renderer struct {
	theme   config.Theme
	palette palette
	fonts   fonts
	light   drawing.Color
	primary drawing.Color
}

// NewRenderer prepares a Renderer for theme.
func NewRenderer(theme config.Theme) (*Renderer, error) {
	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &Renderer{
		theme:   theme,
		palette: newPalette(theme),
		fonts:   f,
		light:   hexColor(theme.Tint),
		primary: hexColor(theme.Primary),
	}, nil
}

// Leaderboard draws one bar per student for the leaderboard metric.
func (r *Renderer) Leaderboard(lb model.Leaderboard) ([]byte, error) {
	values := make([]float64, len(lb.Entries))
	labels := make([]string, len(lb.Entries))
	for i, e := range lb.Entries {
		labels[i] = e.Student
		switch lb.Metric {
		case model.MetricParticipation:
			values[i] = float64(e.TotalParticipation)
		case model.MetricRating:
			values[i] = e.Rating
		default:
			values[i] = e.TotalScore
		}
	}
	yMax := 0.0
	if lb.Metric == model.MetricRating {
		yMax = 100
	}
	return r.bars(leaderboardTitle(lb.Metric), labels, values, yMax)
}

func leaderboardTitle(m model.LeaderboardMetric) string {
	switch m {
	case model.MetricParticipation:
		return "Total Participation Leaderboard"
	case model.MetricRating:
		return "Participation Rating Leaderboard"
	default:
		return "Participation Score Leaderboard"
	}
}

// WeeklyAverage draws the mean participation of each week.
func (r *Renderer) WeeklyAverage(o model.Overview) ([]byte, error) {
	labels := make([]string, len(o.WeeklyAverages))
	values := make([]float64, len(o.WeeklyAverages))
	for i, w := range o.WeeklyAverages {
		labels[i] = w.Week
		values[i] = w.Average
	}
	return r.bars("Average Participation per Week", labels, values, 0)
}

// WeekParticipation draws the students of a week view.
func (r *Renderer) WeekParticipation(w model.WeekSummary) ([]byte, error) {
	labels := make([]string, len(w.Entries))
	values := make([]float64, len(w.Entries))
	for i, e := range w.Entries {
		labels[i] = e.Student
		values[i] = float64(e.Participation)
	}
	return r.bars("Participation by Student - "+w.Week.Label, labels, values, 0)
}

// Attendance draws a pie of the non-zero attendance counts.
func (r *Renderer) Attendance(title string, counts map[model.AttendanceStatus]int) ([]byte, error) {
	var values []gochart.Value
	for i, status := range model.AllStatuses {
		n := counts[status]
		if n == 0 {
			continue
		}
		c := r.statusColor(i)
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s (%d)", status, n),
			Value: float64(n),
			Style: gochart.Style{FillColor: c, StrokeColor: r.palette.background, StrokeWidth: 2, FontColor: r.palette.text},
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	graph := gochart.PieChart{
		Title:        title,
		TitleStyle:   r.titleStyle(),
		ColorPalette: r.palette,
		Font:         r.fonts.regular,
		Width:        pieSize,
		Height:       pieSize,
		Background:   gochart.Style{Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		Values:       values,
	}
	return render(title, graph.Render)
}

// statusColor maps AllStatuses order to palette slots: present, excused, absent.
func (r *Renderer) statusColor(i int) drawing.Color {
	slots := []int{0, 2, 4}
	return r.palette.GetSeriesColor(slots[i%len(slots)])
}

// StudentTrend draws score and participation per week for one enrolled
// student. A student who never scored or spoke has nothing to plot.
func (r *Renderer) StudentTrend(d model.StudentDetail) ([]byte, error) {
	if !d.Enrolled || len(d.Trend) == 0 {
		return nil, ErrNoData
	}

	n := len(d.Trend)
	xs := make([]float64, n)
	scores := make([]float64, n)
	parts := make([]float64, n)
	ticks := make([]gochart.Tick, n)
	top := 0.0
	for i, p := range d.Trend {
		xs[i] = float64(i + 1)
		scores[i] = p.Score
		parts[i] = float64(p.Participation)
		ticks[i] = gochart.Tick{Value: xs[i], Label: tickLabel(p)}
		top = math.Max(top, math.Max(p.Score, parts[i]))
	}
	if top <= 0 {
		return nil, ErrNoData
	}

	title := "Participation Over Time - " + d.Student
	graph := gochart.Chart{
		Title:        title,
		TitleStyle:   r.titleStyle(),
		ColorPalette: r.palette,
		Font:         r.fonts.regular,
		Width:        trendWidth,
		Height:       chartHeight,
		Background:   gochart.Style{Padding: gochart.Box{Top: 60, Left: 20, Right: 30, Bottom: 20}},
		XAxis: gochart.XAxis{
			Name:      "Week",
			Style:     gochart.Style{FontSize: axisFontSize},
			Ticks:     ticks,
			Range:     &gochart.ContinuousRange{Min: 0.5, Max: float64(n) + 0.5},
			NameStyle: gochart.Style{FontColor: r.primary},
		},
		YAxis: gochart.YAxis{
			Name:           "Count / Score",
			Style:          gochart.Style{FontSize: axisFontSize},
			Range:          &gochart.ContinuousRange{Min: 0, Max: niceMax(top)},
			ValueFormatter: numberFormatter,
			NameStyle:      gochart.Style{FontColor: r.primary},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "Score",
				XValues: xs,
				YValues: scores,
				Style: gochart.Style{
					StrokeColor: r.primary,
					StrokeWidth: 3,
					DotColor:    r.primary,
					DotWidth:    5,
				},
			},
			gochart.ContinuousSeries{
				Name:    "Participation",
				XValues: xs,
				YValues: parts,
				Style: gochart.Style{
					StrokeColor:     r.palette.GetSeriesColor(4),
					StrokeWidth:     2,
					StrokeDashArray: []float64{5, 3},
					DotColor:        r.palette.GetSeriesColor(4),
					DotWidth:        4,
				},
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return render(title, graph.Render)
}

func tickLabel(p model.TrendPoint) string {
	if p.WeekNumber > 0 {
		return "Wk " + strconv.Itoa(p.WeekNumber)
	}
	return p.Week
}

func (r *Renderer) bars(title string, labels []string, values []float64, yMax float64) ([]byte, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}

	top := 0.0
	for _, v := range values {
		top = math.Max(top, v)
	}
	if top <= 0 {
		return nil, ErrNoData
	}
	if yMax <= 0 {
		yMax = niceMax(top)
	}

	bars := make([]gochart.Value, len(values))
	for i, v := range values {
		c := shade(r.light, r.primary, 0.25+0.75*safeRatio(v, top))
		bars[i] = gochart.Value{
			Label: labels[i],
			Value: v,
			Style: gochart.Style{FillColor: c, StrokeColor: c},
		}
	}

	width := len(values)*(barWidth+barSpacing) + 160
	if width < minBarWidth {
		width = minBarWidth
	}

	graph := gochart.BarChart{
		Title:        title,
		TitleStyle:   r.titleStyle(),
		ColorPalette: r.palette,
		Font:         r.fonts.regular,
		Width:        width,
		Height:       chartHeight,
		BarWidth:     barWidth,
		BarSpacing:   barSpacing,
		Background:   gochart.Style{Padding: gochart.Box{Top: 60, Left: 20, Right: 20, Bottom: 40}},
		XAxis: gochart.Style{
			FontSize:            axisFontSize,
			TextRotationDegrees: 45,
		},
		YAxis: gochart.YAxis{
			Style:          gochart.Style{FontSize: axisFontSize},
			Range:          &gochart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: numberFormatter,
		},
		Bars: bars,
	}
	return render(title, graph.Render)
}

func (r *Renderer) titleStyle() gochart.Style {
	return gochart.Style{
		FontColor: r.primary,
		FontSize:  titleSize,
		Font:      r.fonts.bold,
	}
}

func render(title string, fn func(gochart.RendererProvider, io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

// niceMax pads the axis top by 10% and never returns zero.
func niceMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return math.Ceil(v * 1.1)
}

func safeRatio(v, top float64) float64 {
	if top <= 0 {
		return 0
	}
	return v / top
}

func numberFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(math.Round(f*10)/10, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
