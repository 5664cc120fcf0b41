package interpreter

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/tsawler/pdfdevice/contentstream"
	"github.com/tsawler/pdfdevice/core"
	"github.com/tsawler/pdfdevice/device"
	"github.com/tsawler/pdfdevice/font"
	"github.com/tsawler/pdfdevice/graphicsstate"
	"github.com/tsawler/pdfdevice/internal/filters"
	"github.com/tsawler/pdfdevice/model"
	"github.com/tsawler/pdfdevice/observability"
)

// run is the state of one page while its content executes.
type run struct {
	in   *Interpreter
	dev  device.Device
	log  observability.Logger
	gs   *graphicsstate.GraphicsState
	path *graphicsstate.Path
	res  *Resources

	// form XObjects currently executing, by name
	active map[string]bool
	depth  int
}

// execute applies ops in order, stopping at the first error or when ctx
// is done.
func (r *run) execute(ctx context.Context, ops []contentstream.Operation) error {
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted at operation %d: %w", i, err)
		}
		if err := r.apply(ctx, op); err != nil {
			return &OperationError{Index: i, Operator: op.Operator, Err: err}
		}
	}
	return nil
}

// apply executes a single operation.
func (r *run) apply(ctx context.Context, op contentstream.Operation) error {
	args := op.Operands

	switch op.Operator {
	// Graphics state
	case "q":
		r.gs.Save()
	case "Q":
		if err := r.gs.Restore(); err != nil {
			return err
		}
		r.dev.SetCTM(r.gs.CTM)
	case "cm":
		if m, ok := operandsToMatrix(args); ok {
			r.gs.Transform(m)
			r.dev.SetCTM(r.gs.CTM)
		}
	case "w":
		if w, ok := operandFloat(args, 0, 1); ok {
			r.gs.SetLineWidth(w)
		}
	case "J":
		if v, ok := operandInt(args, 0, 1); ok {
			r.gs.LineCap = v
		}
	case "j":
		if v, ok := operandInt(args, 0, 1); ok {
			r.gs.LineJoin = v
		}
	case "M":
		if v, ok := operandFloat(args, 0, 1); ok {
			r.gs.MiterLimit = v
		}
	case "d":
		if len(args) == 2 {
			if arr, ok := args[0].(core.Array); ok {
				dash, _ := arr.Floats()
				phase, _ := core.Number(args[1])
				r.gs.SetDash(dash, phase)
			}
		}
	case "ri", "i", "gs":
		// Rendering intent, flatness and ExtGState do not affect devices

	// Color
	case "G":
		if v, ok := operandFloat(args, 0, 1); ok {
			r.gs.SetStrokeColor("DeviceGray", v)
		}
	case "g":
		if v, ok := operandFloat(args, 0, 1); ok {
			r.gs.SetFillColor("DeviceGray", v)
		}
	case "RG":
		if v, ok := numbers(args, 3); ok {
			r.gs.SetStrokeColor("DeviceRGB", v...)
		}
	case "rg":
		if v, ok := numbers(args, 3); ok {
			r.gs.SetFillColor("DeviceRGB", v...)
		}
	case "K":
		if v, ok := numbers(args, 4); ok {
			r.gs.SetStrokeColor("DeviceCMYK", v...)
		}
	case "k":
		if v, ok := numbers(args, 4); ok {
			r.gs.SetFillColor("DeviceCMYK", v...)
		}
	case "CS", "cs":
		if len(args) != 1 {
			break
		}
		name, ok := args[0].(core.Name)
		if !ok {
			break
		}
		cs, err := r.res.colorSpace(string(name))
		if err != nil {
			r.log.Warn("color space not found", observability.String("name", string(name)))
			break
		}
		if op.Operator == "CS" {
			r.gs.SetStrokeColor(cs.Name, initialColor(cs)...)
		} else {
			r.gs.SetFillColor(cs.Name, initialColor(cs)...)
		}
	case "SC", "SCN":
		if comps := floats(args); len(comps) > 0 {
			r.gs.StrokeColor = comps
		}
	case "sc", "scn":
		if comps := floats(args); len(comps) > 0 {
			r.gs.FillColor = comps
		}

	// Path construction
	case "m":
		if v, ok := numbers(args, 2); ok {
			r.path.MoveTo(v[0], v[1])
		}
	case "l":
		if v, ok := numbers(args, 2); ok {
			r.path.LineTo(v[0], v[1])
		}
	case "c":
		if v, ok := numbers(args, 6); ok {
			r.path.CurveTo(v[0], v[1], v[2], v[3], v[4], v[5])
		}
	case "v":
		if v, ok := numbers(args, 4); ok {
			r.path.CurveToV(v[0], v[1], v[2], v[3])
		}
	case "y":
		if v, ok := numbers(args, 4); ok {
			r.path.CurveToY(v[0], v[1], v[2], v[3])
		}
	case "h":
		r.path.ClosePath()
	case "re":
		if v, ok := numbers(args, 4); ok {
			r.path.Rectangle(v[0], v[1], v[2], v[3])
		}

	// Path painting
	case "S":
		return r.paint(true, false, false, false)
	case "s":
		return r.paint(true, false, false, true)
	case "f", "F":
		return r.paint(false, true, false, false)
	case "f*":
		return r.paint(false, true, true, false)
	case "B":
		return r.paint(true, true, false, false)
	case "B*":
		return r.paint(true, true, true, false)
	case "b":
		return r.paint(true, true, false, true)
	case "b*":
		return r.paint(true, true, true, true)
	case "n":
		r.path = graphicsstate.NewPath()
	case "W", "W*":
		// Clipping is not tracked

	// Text objects and state
	case "BT":
		r.gs.Text.Reset()
	case "ET":
	case "Tf":
		if len(args) != 2 {
			break
		}
		name, ok := args[0].(core.Name)
		if !ok {
			break
		}
		size, _ := core.Number(args[1])
		f, err := r.res.font(string(name))
		if err != nil {
			return err
		}
		r.gs.Text.SetFont(string(name), f, size)
	case "Tc":
		if v, ok := operandFloat(args, 0, 1); ok {
			r.gs.Text.CharSpace = v
		}
	case "Tw":
		if v, ok := operandFloat(args, 0, 1); ok {
			r.gs.Text.WordSpace = v
		}
	case "Tz":
		if v, ok := operandFloat(args, 0, 1); ok {
			r.gs.Text.Scaling = v
		}
	case "TL":
		if v, ok := operandFloat(args, 0, 1); ok {
			r.gs.Text.Leading = v
		}
	case "Tr":
		if v, ok := operandInt(args, 0, 1); ok {
			r.gs.Text.Render = v
		}
	case "Ts":
		if v, ok := operandFloat(args, 0, 1); ok {
			r.gs.Text.Rise = v
		}

	// Text positioning
	case "Td":
		if v, ok := numbers(args, 2); ok {
			r.gs.Text.Translate(v[0], v[1])
		}
	case "TD":
		if v, ok := numbers(args, 2); ok {
			r.gs.Text.TranslateSetLeading(v[0], v[1])
		}
	case "Tm":
		if m, ok := operandsToMatrix(args); ok {
			r.gs.Text.SetMatrix(m)
		}
	case "T*":
		r.gs.Text.NextLine()

	// Text showing
	case "Tj":
		if len(args) == 1 {
			return r.show(args[:1])
		}
	case "TJ":
		if len(args) == 1 {
			if arr, ok := args[0].(core.Array); ok {
				return r.show(arr)
			}
		}
	case "'":
		r.gs.Text.NextLine()
		if len(args) == 1 {
			return r.show(args[:1])
		}
	case "\"":
		if len(args) == 3 {
			if v, ok := core.Number(args[0]); ok {
				r.gs.Text.WordSpace = v
			}
			if v, ok := core.Number(args[1]); ok {
				r.gs.Text.CharSpace = v
			}
			r.gs.Text.NextLine()
			return r.show(args[2:3])
		}

	// Marked content
	case "BMC":
		if tag, ok := operandName(args, 0, 1); ok {
			return r.dev.BeginTag(tag, nil)
		}
	case "BDC":
		if tag, ok := operandName(args, 0, 2); ok {
			return r.dev.BeginTag(tag, r.properties(args[1]))
		}
	case "EMC":
		return r.dev.EndTag()
	case "MP":
		if tag, ok := operandName(args, 0, 1); ok {
			return r.dev.DoTag(tag, nil)
		}
	case "DP":
		if tag, ok := operandName(args, 0, 2); ok {
			return r.dev.DoTag(tag, r.properties(args[1]))
		}

	// XObjects
	case "Do":
		if name, ok := operandName(args, 0, 1); ok {
			return r.doXObject(ctx, name)
		}
	case "BI":
		r.log.Debug("inline image skipped")

	case "BX", "EX", "d0", "d1", "sh":
	default:
		r.log.Debug("unsupported operator", observability.String("op", op.Operator))
	}

	return nil
}

// show hands one text-showing operand sequence to the device.
func (r *run) show(seq []core.Object) error {
	return r.dev.RenderString(&r.gs.Text, seq, fillColorSpace(r.gs), r.gs)
}

// paint hands the current path to the device and starts a new one.
func (r *run) paint(stroke, fill, evenOdd, closePath bool) error {
	if closePath {
		r.path.ClosePath()
	}
	path := r.path
	r.path = graphicsstate.NewPath()
	if path.IsEmpty() {
		return nil
	}
	return r.dev.PaintPath(r.gs, stroke, fill, evenOdd, path)
}

// properties converts a marked content property operand, either an
// inline dictionary or the name of a property list resource.
func (r *run) properties(obj core.Object) map[string]any {
	switch v := obj.(type) {
	case core.Dict:
		return dictToMap(v)
	case core.Name:
		if d, ok := r.res.properties(string(v)); ok {
			return dictToMap(d)
		}
		r.log.Debug("property list not found", observability.String("name", string(v)))
	}
	return nil
}

// doXObject draws a form or image XObject.
func (r *run) doXObject(ctx context.Context, name string) error {
	xobj, ok := r.res.xobject(name)
	if !ok {
		r.log.Warn("xobject not found", observability.String("name", name))
		return nil
	}

	subtype, _ := xobj.Dict.GetName("Subtype")
	switch subtype {
	case "Form":
		return r.doForm(ctx, name, xobj)
	case "Image":
		_, hasWidth := xobj.Dict.GetNumber("Width")
		_, hasHeight := xobj.Dict.GetNumber("Height")
		if !hasWidth || !hasHeight {
			r.log.Warn("image without dimensions", observability.String("name", name))
			return nil
		}
		if err := r.dev.BeginFigure(name, model.NewBBox(0, 0, 1, 1), model.Identity()); err != nil {
			return err
		}
		if err := r.dev.RenderImage(name, xobj); err != nil {
			return err
		}
		return r.dev.EndFigure(name)
	default:
		r.log.Debug("xobject skipped", observability.String("name", name), observability.String("subtype", string(subtype)))
		return nil
	}
}

// doForm executes the content of a form XObject inside a figure. The
// form runs with its own resources when it has them, otherwise with the
// invoking resources, and with a saved copy of the graphics state. Its
// data is decoded with the stream's filters first. EndFigure is called
// even when the content fails.
func (r *run) doForm(ctx context.Context, name string, xobj *core.Stream) error {
	if r.active[name] {
		r.log.Warn("recursive form skipped", observability.String("name", name))
		return nil
	}
	if r.depth >= r.in.opts.maxDepth {
		r.log.Warn("form nesting too deep", observability.String("name", name), observability.Int("depth", r.depth))
		return nil
	}

	data, err := filters.Decode(xobj.Dict, xobj.Data)
	if err != nil {
		return fmt.Errorf("decode form %q: %w", name, err)
	}
	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return fmt.Errorf("parse form %q: %w", name, err)
	}

	matrix := model.Identity()
	if arr, ok := xobj.Dict.GetArray("Matrix"); ok {
		if v, ok := arr.Floats(); ok && len(v) == 6 {
			copy(matrix[:], v)
		}
	}
	var bbox model.BBox
	if arr, ok := xobj.Dict.GetArray("BBox"); ok {
		if v, ok := arr.Floats(); ok && len(v) == 4 {
			bbox = model.NewBBoxFromCorners(v[0], v[1], v[2], v[3])
		}
	}

	if err := r.dev.BeginFigure(name, bbox, matrix); err != nil {
		return err
	}

	base := r.gs.Depth()
	r.gs.Save()
	r.gs.Transform(matrix)
	r.dev.SetCTM(r.gs.CTM)
	path, res := r.path, r.res
	r.path = graphicsstate.NewPath()
	r.res = res.form(name)
	r.active[name] = true
	r.depth++

	err = r.execute(ctx, ops)

	r.depth--
	delete(r.active, name)
	r.path, r.res = path, res
	// Unbalanced q inside the form must not leak into the page
	for r.gs.Depth() > base {
		if rerr := r.gs.Restore(); rerr != nil {
			break
		}
	}
	r.dev.SetCTM(r.gs.CTM)

	endErr := r.dev.EndFigure(name)
	if err != nil {
		return fmt.Errorf("form %q: %w", name, err)
	}
	return endErr
}

// fillColorSpace describes the nonstroking color space of gs.
func fillColorSpace(gs *graphicsstate.GraphicsState) device.ColorSpace {
	if cs, ok := predefinedColorSpaces[gs.FillColorSpace]; ok {
		return cs
	}
	return device.ColorSpace{Name: gs.FillColorSpace, Components: len(gs.FillColor)}
}

// initialColor returns the color a color space starts with: black for
// the device families, zero components otherwise.
func initialColor(cs device.ColorSpace) []float64 {
	comps := make([]float64, cs.Components)
	if cs.Name == "DeviceCMYK" {
		comps[3] = 1
	}
	return comps
}

// dictToMap converts a property dictionary to plain Go values.
func dictToMap(d core.Dict) map[string]any {
	m := make(map[string]any, len(d))
	for k, v := range d {
		m[k] = toValue(v)
	}
	return m
}

func toValue(obj core.Object) any {
	switch v := obj.(type) {
	case core.Int:
		return int(v)
	case core.Real:
		return float64(v)
	case core.Bool:
		return bool(v)
	case core.String:
		return textString([]byte(v))
	case core.Name:
		return string(v)
	case core.Array:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = toValue(e)
		}
		return out
	case core.Dict:
		return dictToMap(v)
	case core.Null, nil:
		return nil
	default:
		return obj.String()
	}
}

// textString decodes a PDF text string: UTF-16BE with a byte order mark,
// otherwise PDFDocEncoding.
func textString(b []byte) string {
	if bytes.HasPrefix(b, []byte{0xFE, 0xFF}) {
		if s, err := font.DecodeUTF16BE(b); err == nil {
			return s
		}
	}
	var sb strings.Builder
	for _, c := range b {
		if r, ok := font.PDFDocEncoding.Rune(c); ok {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(rune(c))
		}
	}
	return sb.String()
}

// Helper functions

func toFloat(obj core.Object) (float64, bool) {
	return core.Number(obj)
}

func toInt(obj core.Object) (int, bool) {
	switch v := obj.(type) {
	case core.Int:
		return int(v), true
	case core.Real:
		return int(v), true
	default:
		return 0, false
	}
}

// floats converts numeric operands; non-numeric operands are skipped.
func floats(args []core.Object) []float64 {
	vals := make([]float64, 0, len(args))
	for _, a := range args {
		if v, ok := toFloat(a); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

func operandFloat(args []core.Object, i, n int) (float64, bool) {
	if len(args) != n {
		return 0, false
	}
	return toFloat(args[i])
}

func operandInt(args []core.Object, i, n int) (int, bool) {
	if len(args) != n {
		return 0, false
	}
	return toInt(args[i])
}

func operandName(args []core.Object, i, n int) (string, bool) {
	if len(args) != n {
		return "", false
	}
	name, ok := args[i].(core.Name)
	return string(name), ok
}

// numbers converts exactly n numeric operands.
func numbers(args []core.Object, n int) ([]float64, bool) {
	if len(args) != n {
		return nil, false
	}
	vals := make([]float64, n)
	for i, a := range args {
		v, ok := toFloat(a)
		if !ok {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

func operandsToMatrix(operands []core.Object) (model.Matrix, bool) {
	var m model.Matrix
	vals, ok := numbers(operands, 6)
	if !ok {
		return m, false
	}
	copy(m[:], vals)
	return m, true
}
