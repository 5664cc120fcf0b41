package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionOf(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"Hello", LTR},
		{"日本語", LTR},
		{"שלום", RTL},
		{"مرحبا", RTL},
		{"ab שלום", RTL},
		{"abc ש", LTR},
		{"ab שב", LTR},
		{"12.50 - (3)", Neutral},
		{"", Neutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DirectionOf(tt.in), "DirectionOf(%q)", tt.in)
	}

	assert.Equal(t, "LTR", LTR.String())
	assert.Equal(t, "RTL", RTL.String())
	assert.Equal(t, "Neutral", Neutral.String())
	assert.Equal(t, "Unknown", Direction(9).String())
}

func TestSplitLines(t *testing.T) {
	frags := []Fragment{
		{Text: "a", Y: 100, Height: 12},
		{Text: "b", Y: 103, Height: 12},
		{Text: "c", Y: 80, Height: 12},
		{Text: "縦", Y: 80, Height: 20, Vertical: true},
		{Text: "書", Y: 80, Height: 20, Vertical: true},
	}

	lines := splitLines(frags)
	require.Len(t, lines, 4)
	assert.Len(t, lines[0].frags, 2)
	assert.Equal(t, "c", lines[1].frags[0].Text)
	assert.Equal(t, "縦", lines[2].frags[0].Text)
	assert.Empty(t, splitLines(nil))
}

func TestTextLineOrdering(t *testing.T) {
	l := newTextLine([]Fragment{
		{Text: "العالم", X: 10, Width: 30, Direction: RTL},
		{Text: "42", X: 90, Width: 10, Direction: Neutral},
		{Text: "مرحبا", X: 50, Width: 30, Direction: RTL},
	})

	assert.Equal(t, RTL, l.dir)
	assert.Equal(t, "42", l.frags[0].Text)
	assert.Equal(t, "مرحبا", l.frags[1].Text)
	assert.InDelta(t, 10, l.between(l.frags[1], l.frags[2]), 1e-9)
}

func TestAssembleText(t *testing.T) {
	tests := []struct {
		name  string
		frags []Fragment
		want  string
	}{
		{"empty", nil, ""},
		{
			"word gap",
			[]Fragment{
				{Text: "Hello", X: 10, Y: 100, Width: 25, Height: 12, FontSize: 12},
				{Text: "World", X: 38, Y: 100, Width: 30, Height: 12, FontSize: 12},
			},
			"Hello World",
		},
		{
			"kerning gap",
			[]Fragment{
				{Text: "Hello", X: 10, Y: 100, Width: 25, Height: 12, FontSize: 12, SpaceWidth: 3.336},
				{Text: "world", X: 36, Y: 100, Width: 30, Height: 12, FontSize: 12},
			},
			"Helloworld",
		},
		{
			"explicit space",
			[]Fragment{
				{Text: "Hello ", X: 10, Y: 100, Width: 28, Height: 12, FontSize: 12},
				{Text: "World", X: 45, Y: 100, Width: 30, Height: 12, FontSize: 12},
			},
			"Hello World",
		},
		{
			"overlap",
			[]Fragment{
				{Text: "ab", X: 10, Y: 100, Width: 20, Height: 12, FontSize: 12},
				{Text: "cd", X: 25, Y: 100, Width: 20, Height: 12, FontSize: 12},
			},
			"abcd",
		},
		{
			"out of order on the page",
			[]Fragment{
				{Text: "World", X: 38, Y: 100, Width: 30, Height: 12, FontSize: 12},
				{Text: "Hello", X: 10, Y: 100, Width: 25, Height: 12, FontSize: 12},
			},
			"Hello World",
		},
		{
			"right to left",
			[]Fragment{
				{Text: "العالم", X: 10, Y: 100, Width: 30, Height: 12, FontSize: 12, Direction: RTL},
				{Text: "مرحبا", X: 50, Y: 100, Width: 30, Height: 12, FontSize: 12, Direction: RTL},
			},
			"مرحبا العالم",
		},
		{
			"mixed lines",
			[]Fragment{
				{Text: "Hello", X: 10, Y: 100, Width: 25, Height: 12, FontSize: 12, Direction: LTR},
				{Text: "World", X: 40, Y: 100, Width: 30, Height: 12, FontSize: 12, Direction: LTR},
				{Text: "العالم", X: 10, Y: 88, Width: 30, Height: 12, FontSize: 12, Direction: RTL},
				{Text: "مرحبا", X: 50, Y: 88, Width: 30, Height: 12, FontSize: 12, Direction: RTL},
			},
			"Hello World\nمرحبا العالم",
		},
		{
			"paragraph break",
			[]Fragment{
				{Text: "One", X: 10, Y: 100, Width: 20, Height: 12, FontSize: 12},
				{Text: "Two", X: 10, Y: 70, Width: 20, Height: 12, FontSize: 12},
			},
			"One\n\nTwo",
		},
		{
			"glyph per operation",
			[]Fragment{
				{Text: "H", X: 0, Y: 100, Width: 5, Height: 12, FontSize: 12},
				{Text: "i", X: 6, Y: 100, Width: 2, Height: 12, FontSize: 12},
				{Text: "y", X: 20, Y: 100, Width: 5, Height: 12, FontSize: 12},
				{Text: "o", X: 26, Y: 100, Width: 5, Height: 12, FontSize: 12},
			},
			"Hi yo",
		},
		{
			"glyph per operation with one gap",
			[]Fragment{
				{Text: "H", X: 72, Y: 700, Width: 8, Height: 12, FontSize: 12},
				{Text: "i", X: 80, Y: 700, Width: 3, Height: 12, FontSize: 12},
				{Text: "X", X: 300, Y: 700, Width: 8, Height: 12, FontSize: 12},
			},
			"Hi X",
		},
		{
			"evenly spaced glyphs",
			[]Fragment{
				{Text: "A", X: 72, Y: 700, Width: 8, Height: 12, FontSize: 12},
				{Text: "B", X: 100, Y: 700, Width: 8, Height: 12, FontSize: 12},
				{Text: "C", X: 128, Y: 700, Width: 8, Height: 12, FontSize: 12},
			},
			"A B C",
		},
		{
			"glyph per operation with two gaps",
			[]Fragment{
				{Text: "a", X: 0, Y: 100, Width: 5, Height: 12, FontSize: 12},
				{Text: "b", X: 5.5, Y: 100, Width: 5, Height: 12, FontSize: 12},
				{Text: "c", X: 30, Y: 100, Width: 5, Height: 12, FontSize: 12},
			},
			"ab c",
		},
		{
			"glyph per operation with explicit spaces",
			[]Fragment{
				{Text: "H", X: 0, Y: 100, Width: 5, Height: 12, FontSize: 12},
				{Text: "i", X: 6, Y: 100, Width: 2, Height: 12, FontSize: 12},
				{Text: " ", X: 8, Y: 100, Width: 3, Height: 12, FontSize: 12},
				{Text: "x", X: 11, Y: 100, Width: 5, Height: 12, FontSize: 12},
				{Text: "y", X: 30, Y: 100, Width: 5, Height: 12, FontSize: 12},
				{Text: "z", X: 36, Y: 100, Width: 5, Height: 12, FontSize: 12},
			},
			"Hi x yz",
		},
		{
			"vertical",
			[]Fragment{
				{Text: "縦", X: 100, Y: 480, Width: 10, Height: 20, Vertical: true},
				{Text: "書", X: 88, Y: 480, Width: 10, Height: 20, Vertical: true},
			},
			"縦\n書",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, assembleText(tt.frags))
		})
	}
}
