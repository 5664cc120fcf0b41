// Package text turns positioned glyphs into readable text.
//
// The [Converter] is a device that records every glyph placed by the
// embedded text device, groups the glyphs of each text-showing operation
// into a [Fragment] and assembles fragments into lines and pages:
//
//	conv := text.NewConverter(text.WithLogger(logger))
//	interp := interpreter.New(conv)
//	if err := interp.ProcessPage(ctx, page, resources, content); err != nil {
//		return err
//	}
//	conv.Close()
//	fmt.Println(conv.Text())
//
// Fragments are in device space, so rotated pages and scaled text
// matrices produce the same layout a viewer shows.
//
// # Layout
//
// Each fragment carries a [Direction] computed by [DirectionOf] from
// Unicode bidi classes. Fragments on a shared baseline form a line, read
// right to left when most of its fragments are RTL. A space is inserted
// between two fragments when their gap is at least half a space of the
// font; lines that place one glyph per operation are judged against the
// median gap of the line instead. A baseline step of more than one and a
// half line heights separates paragraphs with a blank line.
//
// # Shapes
//
// Stroked and filled paths are collected as lines and rectangles on each
// [PageText].
package text
