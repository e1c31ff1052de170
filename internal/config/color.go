package config

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB triple with channels in [0,1].
type Color = colorful.Color

// DefaultDarkenFactor is used for the player's outline.
const DefaultDarkenFactor = 0.7

// RGB builds a Color from channel values in [0,1].
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// DarkenColor scales every channel by factor, never going below zero.
func DarkenColor(c Color, factor float64) Color {
	return Color{
		R: max(c.R*factor, 0),
		G: max(c.G*factor, 0),
		B: max(c.B*factor, 0),
	}
}

// ParseColor accepts "#rrggbb" hex colors.
func ParseColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return c, nil
}
