package text

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"
)

// Direction is the dominant writing direction of a run of text.
type Direction int

const (
	LTR Direction = iota
	RTL
	Neutral
)

func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case Neutral:
		return "Neutral"
	}
	return "Unknown"
}

// DirectionOf returns the direction most strong characters of s are
// written in. Ties go to LTR; text without strong characters (digits,
// punctuation, spaces) is Neutral.
func DirectionOf(s string) Direction {
	var ltr, rtl int
	for _, r := range s {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			ltr++
		case bidi.R, bidi.AL:
			rtl++
		}
	}
	switch {
	case ltr == 0 && rtl == 0:
		return Neutral
	case rtl > ltr:
		return RTL
	}
	return LTR
}

// Fragment is the text of one text-showing operation with its position in
// device space.
type Fragment struct {
	Text      string
	X, Y      float64
	Width     float64
	Height    float64
	FontName  string
	FontSize  float64 // effective size in device space
	Vertical  bool
	Direction Direction

	// SpaceWidth is the device space width of a space in this fragment's
	// font, or 0 when the font has no metrics.
	SpaceWidth float64
}

func (f Fragment) spaceWidth() float64 {
	if f.SpaceWidth > 0 {
		return f.SpaceWidth
	}
	return f.FontSize / 4
}

func (f Fragment) blank() bool {
	return strings.TrimSpace(f.Text) == ""
}

// textLine is a run of fragments sharing a baseline, in reading order.
type textLine struct {
	frags []Fragment
	dir   Direction

	// glyphwise is set when most fragments hold one or two characters,
	// as produced by generators that place every glyph on its own.
	glyphwise bool
	spaced    bool
	gap       float64 // lower median positive gap between non-blank fragments
}

// splitLines groups consecutive fragments whose baselines are within half
// a line height of each other. Vertical fragments stand alone.
func splitLines(frags []Fragment) []textLine {
	var lines []textLine
	start := 0
	for i := 1; i <= len(frags); i++ {
		if i < len(frags) {
			prev, cur := frags[i-1], frags[i]
			if !prev.Vertical && !cur.Vertical && math.Abs(cur.Y-prev.Y) <= prev.Height/2 {
				continue
			}
		}
		lines = append(lines, newTextLine(frags[start:i]))
		start = i
	}
	return lines
}

func newTextLine(frags []Fragment) textLine {
	l := textLine{frags: append([]Fragment(nil), frags...)}

	var ltr, rtl, runes int
	for _, f := range l.frags {
		switch f.Direction {
		case LTR:
			ltr++
		case RTL:
			rtl++
		}
		runes += utf8.RuneCountInString(f.Text)
		if strings.ContainsAny(f.Text, " \t") || f.blank() {
			l.spaced = true
		}
	}
	if rtl > ltr {
		l.dir = RTL
	}
	l.glyphwise = runes <= 2*len(l.frags)

	sort.SliceStable(l.frags, func(i, j int) bool {
		if l.dir == RTL {
			return l.frags[i].X > l.frags[j].X
		}
		return l.frags[i].X < l.frags[j].X
	})

	var gaps []float64
	for i := 1; i < len(l.frags); i++ {
		a, b := l.frags[i-1], l.frags[i]
		if a.blank() || b.blank() {
			continue
		}
		if g := l.between(a, b); g > 0 {
			gaps = append(gaps, g)
		}
	}
	if len(gaps) > 0 {
		sort.Float64s(gaps)
		l.gap = gaps[(len(gaps)-1)/2]
	}
	return l
}

// between returns the reading-direction distance from the end of a to the
// start of b. Overlaps are negative.
func (l textLine) between(a, b Fragment) float64 {
	if l.dir == RTL {
		return a.X - (b.X + b.Width)
	}
	return b.X - (a.X + a.Width)
}

// breaks reports whether the gap between adjacent fragments a and b reads
// as a word break.
func (l textLine) breaks(a, b Fragment) bool {
	if strings.HasSuffix(a.Text, " ") || strings.HasPrefix(b.Text, " ") {
		return false
	}
	d := l.between(a, b)
	if d <= a.FontSize/20 {
		return false
	}
	if d >= a.spaceWidth() {
		return true
	}
	switch {
	case l.glyphwise && l.spaced:
		return l.gap > 0 && d >= 5*l.gap
	case l.glyphwise:
		return d >= math.Max(a.FontSize*0.8, 3*l.gap)
	}
	return d >= a.spaceWidth()/2
}

func (l textLine) writeTo(sb *strings.Builder) {
	for i, f := range l.frags {
		if i > 0 && l.breaks(l.frags[i-1], f) {
			sb.WriteByte(' ')
		}
		sb.WriteString(f.Text)
	}
}

// assembleText lays fragments out as lines of text. A baseline step of more
// than one and a half line heights starts a new paragraph.
func assembleText(frags []Fragment) string {
	var sb strings.Builder
	lines := splitLines(frags)
	for i, l := range lines {
		if i > 0 {
			prev := lines[i-1].frags[0]
			sb.WriteByte('\n')
			if math.Abs(l.frags[0].Y-prev.Y) > 1.5*prev.Height {
				sb.WriteByte('\n')
			}
		}
		l.writeTo(&sb)
	}
	return sb.String()
}
