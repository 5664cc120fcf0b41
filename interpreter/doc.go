// Package interpreter executes page content streams against a device.
//
// An [Interpreter] parses a content stream, maintains the graphics and
// text state, and forwards what the page draws to a [device.Device]:
//
//	dev, _ := device.NewTagExtractor(os.Stdout)
//	interp := interpreter.New(dev, interpreter.WithLogger(logger))
//	res := &interpreter.Resources{Fonts: map[string]font.Font{"F1": helvetica}}
//	if err := interp.ProcessPage(ctx, page, res, content); err != nil {
//		return err
//	}
//
// Text-showing operators reach the device as one RenderString call per
// operator. Marked content becomes BeginTag/EndTag/DoTag, painted paths
// become PaintPath and XObjects become figures.
//
// [Interpreter.ProcessStreams] and form XObjects decode stream data with
// the filters named in the stream dictionary. [Interpreter.ProcessPage]
// takes content that is already decoded.
package interpreter
