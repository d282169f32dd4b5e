package chart

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"github.com/stemsi/attendance-dashboard/internal/config"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// palette applies the dashboard theme to every go-chart element.
type palette struct {
	background drawing.Color
	text       drawing.Color
	axis       drawing.Color
	series     []drawing.Color
}

func newPalette(t config.Theme) palette {
	p := palette{
		background: hexColor(t.Background),
		text:       hexColor(t.Text),
		axis:       hexColor(t.Border),
	}
	for _, c := range t.Palette {
		p.series = append(p.series, hexColor(c))
	}
	if len(p.series) == 0 {
		p.series = []drawing.Color{hexColor(t.Primary)}
	}
	return p
}

func (p palette) BackgroundColor() drawing.Color       { return p.background }
func (p palette) BackgroundStrokeColor() drawing.Color { return p.background }
func (p palette) CanvasColor() drawing.Color           { return p.background }
func (p palette) CanvasStrokeColor() drawing.Color     { return p.axis }
func (p palette) AxisStrokeColor() drawing.Color       { return p.axis }
func (p palette) TextColor() drawing.Color             { return p.text }

func (p palette) GetSeriesColor(index int) drawing.Color {
	return p.series[index%len(p.series)]
}

func hexColor(hex string) drawing.Color {
	r, g, b := config.MustRGB(hex)
	return drawing.Color{R: r, G: g, B: b, A: 255}
}

// shade interpolates from the light tint to the primary color by ratio in [0, 1].
func shade(from, to drawing.Color, ratio float64) drawing.Color {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*ratio)
	}
	return drawing.Color{R: mix(from.R, to.R), G: mix(from.G, to.G), B: mix(from.B, to.B), A: 255}
}

// fonts are the embedded Go fonts, shared with the PDF exporter.
type fonts struct {
	regular *truetype.Font
	bold    *truetype.Font
}

func loadFonts() (fonts, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fonts{}, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return fonts{}, fmt.Errorf("parse bold font: %w", err)
	}
	return fonts{regular: regular, bold: bold}, nil
}
