// Package contentstream tokenizes PDF content streams into operations.
//
// A content stream is a postfix program: operands are pushed until an
// operator consumes them. The parser groups them the same way:
//
//	ops, err := contentstream.NewParser(data).Parse()
//	for _, op := range ops {
//	    fmt.Printf("%s %v\n", op.Operator, op.Operands)
//	}
//
// Operands are core objects: numbers (core.Int, core.Real), strings
// (core.String, from literal or hexadecimal syntax), names (core.Name,
// without the leading slash and with #xx escapes decoded), arrays,
// dictionaries, booleans and null. The TJ operator therefore receives a
// single core.Array mixing strings and kerning numbers, and BDC receives a
// tag name followed by an inline property dictionary or a resource name.
//
// Inline images (BI ... ID ... EI) are returned as a single "BI" operation
// whose operands are the image dictionary and the raw image bytes. Comments
// are skipped, and operands left over at the end of the stream are dropped.
//
// Malformed input yields a *SyntaxError carrying the byte offset of the
// offending token; it wraps ErrSyntax. The same tokenizer also reads
// ToUnicode CMap programs, whose bfchar and bfrange blocks arrive as the
// operands of their end operators.
package contentstream
