package graphicsstate

import (
	"math"

	"github.com/tsawler/pdfdevice/model"
)

// Segment is one path construction step in user space. Op is the operator
// letter that produced it: 'm', 'l', 'c' or 'h'. Curves carry both control
// points and the end point, closes carry nothing.
type Segment struct {
	Op  byte
	Pts []model.Point
}

// end returns the point the segment leaves the pen at.
func (s Segment) end() (model.Point, bool) {
	if len(s.Pts) == 0 {
		return model.Point{}, false
	}
	return s.Pts[len(s.Pts)-1], true
}

// Path accumulates the construction operators between two painting
// operators. The v and y curve forms are stored as full curves and re as
// a closed four-sided subpath.
type Path struct {
	Segments []Segment

	cur, start model.Point
	open       bool
}

// NewPath returns an empty path with no current point.
func NewPath() *Path {
	return &Path{}
}

func (p *Path) add(op byte, pts ...model.Point) {
	p.Segments = append(p.Segments, Segment{Op: op, Pts: pts})
}

// MoveTo begins a new subpath (m).
func (p *Path) MoveTo(x, y float64) {
	p.cur = model.Point{X: x, Y: y}
	p.start = p.cur
	p.open = true
	p.add('m', p.cur)
}

// LineTo appends a straight segment (l). Without a current point it acts
// as MoveTo.
func (p *Path) LineTo(x, y float64) {
	if !p.open {
		p.MoveTo(x, y)
		return
	}
	p.cur = model.Point{X: x, Y: y}
	p.add('l', p.cur)
}

// CurveTo appends a cubic Bézier segment (c).
func (p *Path) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	if !p.open {
		p.MoveTo(x1, y1)
	}
	p.cur = model.Point{X: x3, Y: y3}
	p.add('c', model.Point{X: x1, Y: y1}, model.Point{X: x2, Y: y2}, p.cur)
}

// CurveToV appends a curve whose first control point is the current point (v).
func (p *Path) CurveToV(x2, y2, x3, y3 float64) {
	if p.open {
		p.CurveTo(p.cur.X, p.cur.Y, x2, y2, x3, y3)
	}
}

// CurveToY appends a curve whose second control point is its end point (y).
func (p *Path) CurveToY(x1, y1, x3, y3 float64) {
	if p.open {
		p.CurveTo(x1, y1, x3, y3, x3, y3)
	}
}

// ClosePath closes the current subpath (h) and returns the pen to its start.
func (p *Path) ClosePath() {
	if !p.open {
		return
	}
	p.add('h')
	p.cur = p.start
}

// Rectangle appends a closed rectangular subpath (re).
func (p *Path) Rectangle(x, y, width, height float64) {
	p.MoveTo(x, y)
	p.LineTo(x+width, y)
	p.LineTo(x+width, y+height)
	p.LineTo(x, y+height)
	p.ClosePath()
}

// IsEmpty reports whether no segment has been added.
func (p *Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// Operators returns the segment operators in order, for example "mlllh".
func (p *Path) Operators() string {
	ops := make([]byte, len(p.Segments))
	for i, s := range p.Segments {
		ops[i] = s.Op
	}
	return string(ops)
}

// Line is a stroked straight edge in device space. Curves contribute their
// chord.
type Line struct {
	Start, End model.Point
	Width      float64
	Color      []float64

	IsHorizontal bool
	IsVertical   bool

	BBox model.BBox
}

// Rect is a painted axis-aligned rectangle in device space.
type Rect struct {
	BBox        model.BBox
	StrokeWidth float64
	StrokeColor []float64
	FillColor   []float64
	IsFilled    bool
	IsStroked   bool
}

// ShapeCollector records the lines and rectangles of painted paths.
type ShapeCollector struct {
	Lines []Line
	Rects []Rect

	// Tolerance is how far, in device units, an edge may lean and still
	// count as horizontal or vertical.
	Tolerance float64
}

// NewShapeCollector returns a collector with a half point tolerance.
func NewShapeCollector() *ShapeCollector {
	return &ShapeCollector{Tolerance: 0.5}
}

// Reset drops everything collected so far.
func (sc *ShapeCollector) Reset() {
	sc.Lines = nil
	sc.Rects = nil
}

// Collect records path as painted under gs. A path made of a single
// axis-aligned four-sided subpath becomes a Rect; otherwise every edge of
// a stroked path becomes a Line. Unpainted paths are ignored, as are the
// edges of paths that are only filled.
func (sc *ShapeCollector) Collect(gs *GraphicsState, path *Path, stroke, fill bool) {
	if path == nil || path.IsEmpty() || !(stroke || fill) {
		return
	}

	if box, ok := sc.rectangle(gs.CTM, path); ok {
		r := Rect{BBox: box, IsStroked: stroke, IsFilled: fill}
		if stroke {
			r.StrokeWidth = gs.LineWidth
			r.StrokeColor = gs.StrokeColor
		}
		if fill {
			r.FillColor = gs.FillColor
		}
		sc.Rects = append(sc.Rects, r)
		return
	}

	if !stroke {
		return
	}
	var pen, start model.Point
	for _, s := range path.Segments {
		switch s.Op {
		case 'm':
			pen, start = s.Pts[0], s.Pts[0]
		case 'h':
			sc.edge(gs, pen, start)
			pen = start
		default:
			end, _ := s.end()
			sc.edge(gs, pen, end)
			pen = end
		}
	}
}

// edge records the segment from a to b, both in user space. Edges that
// collapse to a point are dropped.
func (sc *ShapeCollector) edge(gs *GraphicsState, a, b model.Point) {
	s, e := gs.CTM.Transform(a), gs.CTM.Transform(b)
	dx, dy := math.Abs(e.X-s.X), math.Abs(e.Y-s.Y)
	if dx < sc.Tolerance && dy < sc.Tolerance {
		return
	}
	sc.Lines = append(sc.Lines, Line{
		Start:        s,
		End:          e,
		Width:        gs.LineWidth,
		Color:        gs.StrokeColor,
		IsHorizontal: dy < sc.Tolerance,
		IsVertical:   dx < sc.Tolerance,
		BBox:         model.NewBBoxFromPoints(s, e),
	})
}

// rectangle returns the device space box of path when it is one subpath
// of four straight edges that alternate between horizontal and vertical.
func (sc *ShapeCollector) rectangle(ctm model.Matrix, path *Path) (model.BBox, bool) {
	segs := path.Segments
	if segs[0].Op != 'm' {
		return model.BBox{}, false
	}
	var pts []model.Point
	for i, s := range segs {
		switch {
		case s.Op == 'm' && i == 0, s.Op == 'l':
			pts = append(pts, ctm.Transform(s.Pts[0]))
		case s.Op == 'h' && i == len(segs)-1:
		default:
			return model.BBox{}, false
		}
	}
	if len(pts) == 5 && sc.near(pts[0], pts[4]) {
		pts = pts[:4]
	}
	if len(pts) != 4 {
		return model.BBox{}, false
	}

	var horizontal [4]bool
	for i := range pts {
		a, b := pts[i], pts[(i+1)%4]
		dx, dy := math.Abs(b.X-a.X), math.Abs(b.Y-a.Y)
		switch {
		case dy < sc.Tolerance && dx >= sc.Tolerance:
			horizontal[i] = true
		case dx < sc.Tolerance && dy >= sc.Tolerance:
		default:
			return model.BBox{}, false
		}
	}
	if horizontal[0] == horizontal[1] || horizontal[1] == horizontal[2] || horizontal[2] == horizontal[3] {
		return model.BBox{}, false
	}

	box := model.NewBBoxFromPoints(pts[0], pts[2])
	return box.Union(model.NewBBoxFromPoints(pts[1], pts[3])), true
}

func (sc *ShapeCollector) near(a, b model.Point) bool {
	return math.Abs(a.X-b.X) < sc.Tolerance && math.Abs(a.Y-b.Y) < sc.Tolerance
}
