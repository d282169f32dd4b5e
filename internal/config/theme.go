package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Theme is the fixed visual identity shared by the HTML pages, the chart
// renderer and the PDF exporter.
type Theme struct {
	Primary     string   `json:"primary"`
	PrimaryDark string   `json:"primary_dark"`
	Text        string   `json:"text"`
	Background  string   `json:"background"`
	Tint        string   `json:"tint"`
	Border      string   `json:"border"`
	Palette     []string `json:"palette"`
	// FontFamily is the CSS font stack. Charts and PDFs always use the embedded Go fonts.
	FontFamily string `json:"font_family"`
}

// DefaultTheme returns the built-in red/black palette.
func DefaultTheme() Theme {
	return Theme{
		Primary:     "#CC0000",
		PrimaryDark: "#990000",
		Text:        "#111111",
		Background:  "#FFFFFF",
		Tint:        "#FFF5F5",
		Border:      "#E5E7EB",
		Palette:     []string{"#CC0000", "#990000", "#FF4D4D", "#7F1D1D", "#9CA3AF"},
		FontFamily:  "Poppins, sans-serif",
	}
}

func loadTheme() Theme {
	t := DefaultTheme()
	if c := getEnv("THEME_PRIMARY_COLOR", ""); c != "" {
		if _, _, _, err := ParseHex(c); err == nil {
			t.Primary = c
			t.Palette[0] = c
		}
	}
	t.FontFamily = getEnv("THEME_FONT_FAMILY", t.FontFamily)
	return t
}

// ParseHex converts "#RRGGBB" (leading # optional) into its components.
func ParseHex(hex string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// MustRGB is ParseHex for theme constants that are known to be valid; bad
// input falls back to black.
func MustRGB(hex string) (uint8, uint8, uint8) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return 0, 0, 0
	}
	return r, g, b
}
