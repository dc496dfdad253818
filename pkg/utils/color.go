package utils

import (
	"strconv"
	"strings"
)

const (
	TextBlack = "#000000"
	TextWhite = "#ffffff"
)

// RGB is a colour with 8-bit channels
type RGB struct {
	R, G, B uint8
}

// ParseHexColor parses "#rrggbb" (the leading # is optional)
func ParseHexColor(hex string) (RGB, bool) {
	value := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(value) != 6 {
		return RGB{}, false
	}
	n, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, true
}

// Luminance returns the perceived brightness in [0, 1]
func (c RGB) Luminance() float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// ReadableTextColor picks black or white text for the given background.
// Unparseable colours get black text.
func ReadableTextColor(background string) string {
	c, ok := ParseHexColor(background)
	if !ok {
		return TextBlack
	}
	if c.Luminance() > 0.6 {
		return TextBlack
	}
	return TextWhite
}
