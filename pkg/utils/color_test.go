package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHexColor(t *testing.T) {
	c, ok := ParseHexColor("#1f77b4")
	assert.True(t, ok)
	assert.Equal(t, RGB{R: 0x1f, G: 0x77, B: 0xb4}, c)

	c, ok = ParseHexColor("FFFFFF")
	assert.True(t, ok)
	assert.Equal(t, RGB{R: 255, G: 255, B: 255}, c)

	_, ok = ParseHexColor("#fff")
	assert.False(t, ok)

	_, ok = ParseHexColor("#zzzzzz")
	assert.False(t, ok)
}

func TestReadableTextColor(t *testing.T) {
	assert.Equal(t, TextBlack, ReadableTextColor("#ffffff"))
	assert.Equal(t, TextBlack, ReadableTextColor("#ffff00"), "yellow is bright")
	assert.Equal(t, TextWhite, ReadableTextColor("#000000"))
	assert.Equal(t, TextWhite, ReadableTextColor("#1f77b4"))
	assert.Equal(t, TextBlack, ReadableTextColor(""), "missing colour falls back to black text")
	assert.Equal(t, TextBlack, ReadableTextColor("blue"))
}
