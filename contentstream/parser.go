package contentstream

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/tsawler/pdfdevice/core"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("content stream syntax error")

// SyntaxError reports malformed content at a byte offset.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are PDF objects that precede the operator.
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands
}

// Parser parses PDF content streams into a sequence of operations.
type Parser struct {
	data     []byte
	pos      int
	ops      []Operation
	operands []core.Object // pending operands for the next operator
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse parses the content stream and returns all operations in order.
// Operands left without an operator at the end are dropped.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		p.skipSpaceAndComments()
		if p.eof() {
			return p.ops, nil
		}

		c := p.data[p.pos]
		if isLetter(c) || c == '\'' || c == '"' {
			if err := p.parseKeyword(); err != nil {
				return nil, err
			}
			continue
		}

		operand, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		p.operands = append(p.operands, operand)
	}
}

func (p *Parser) eof() bool {
	return p.pos >= len(p.data)
}

func (p *Parser) errorf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// emit turns the pending operands into an operation.
func (p *Parser) emit(operator string, operands []core.Object) {
	p.ops = append(p.ops, Operation{Operator: operator, Operands: operands})
	p.operands = nil
}

// readKeyword reads an operator or bare keyword. Digits may follow the
// first letter (d0, d1) and '*' may appear anywhere after it (T*, f*, B*).
func (p *Parser) readKeyword() string {
	start := p.pos
	if c := p.data[p.pos]; c == '\'' || c == '"' {
		p.pos++
		return string(c)
	}
	for !p.eof() {
		c := p.data[p.pos]
		if !isLetter(c) && !(p.pos > start && (c == '*' || isDigit(c))) {
			break
		}
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// parseKeyword handles a keyword at the top level: the operand keywords
// true, false and null, inline images, and operators.
func (p *Parser) parseKeyword() error {
	start := p.pos
	word := p.readKeyword()

	if obj, ok := keywordOperand(word); ok {
		p.operands = append(p.operands, obj)
		return nil
	}
	if word == "BI" {
		return p.parseInlineImage(start)
	}

	operands := make([]core.Object, len(p.operands))
	copy(operands, p.operands)
	p.emit(word, operands)
	return nil
}

func keywordOperand(word string) (core.Object, bool) {
	switch word {
	case "true":
		return core.Bool(true), true
	case "false":
		return core.Bool(false), true
	case "null":
		return core.Null{}, true
	}
	return nil, false
}

// parseInlineImage parses BI <dict entries> ID <data> EI and emits a single
// "BI" operation whose operands are the image dictionary and its raw data.
func (p *Parser) parseInlineImage(start int) error {
	dict := make(core.Dict)
	for {
		p.skipSpaceAndComments()
		if p.eof() {
			return p.errorf(start, "unterminated inline image")
		}
		if bytes.HasPrefix(p.data[p.pos:], []byte("ID")) {
			p.pos += 2
			break
		}
		if p.data[p.pos] != '/' {
			return p.errorf(p.pos, "inline image key must be a name")
		}
		key := p.parseName()
		value, err := p.parseOperand()
		if err != nil {
			return err
		}
		dict[string(key)] = value
	}

	// A single whitespace byte separates ID from the data
	if !p.eof() && isWhitespace(p.data[p.pos]) {
		p.pos++
	}

	dataStart := p.pos
	end := -1
	for i := dataStart; i+1 < len(p.data); i++ {
		if p.data[i] != 'E' || p.data[i+1] != 'I' {
			continue
		}
		before := i == dataStart || isWhitespace(p.data[i-1])
		after := i+2 >= len(p.data) || isWhitespace(p.data[i+2]) || isDelimiter(p.data[i+2])
		if before && after {
			end = i
			break
		}
	}
	if end < 0 {
		return p.errorf(start, "inline image missing EI")
	}

	data := bytes.TrimRight(p.data[dataStart:end], " \t\r\n\f\x00")
	p.pos = end + 2
	p.emit("BI", []core.Object{dict, core.String(data)})
	return nil
}

// parseOperand parses a number, string, name, array, dictionary, boolean
// or null.
func (p *Parser) parseOperand() (core.Object, error) {
	p.skipSpaceAndComments()
	if p.eof() {
		return nil, p.errorf(p.pos, "unexpected end of stream")
	}

	c := p.data[p.pos]
	switch {
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		return p.parseNumber()
	case c == '(':
		return p.parseString()
	case c == '<' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '<':
		return p.parseDict()
	case c == '<':
		return p.parseHexString()
	case c == '/':
		return p.parseName(), nil
	case c == '[':
		return p.parseArray()
	case isLetter(c):
		start := p.pos
		word := p.readKeyword()
		if obj, ok := keywordOperand(word); ok {
			return obj, nil
		}
		return nil, p.errorf(start, "unexpected keyword %q in operand", word)
	}
	return nil, p.errorf(p.pos, "unexpected character %q", c)
}

// parseNumber parses an integer or real number operand.
func (p *Parser) parseNumber() (core.Object, error) {
	start := p.pos
	if c := p.data[p.pos]; c == '+' || c == '-' {
		p.pos++
	}

	isReal := false
	for !p.eof() {
		c := p.data[p.pos]
		if c == '.' && !isReal {
			isReal = true
		} else if !isDigit(c) {
			break
		}
		p.pos++
	}

	text := string(p.data[start:p.pos])
	if isReal {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errorf(start, "invalid real number %q", text)
		}
		return core.Real(v), nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorf(start, "invalid integer %q", text)
	}
	return core.Int(v), nil
}

// escapes maps the single character escapes of literal strings.
var escapes = map[byte]byte{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'b':  '\b',
	'f':  '\f',
	'(':  '(',
	')':  ')',
	'\\': '\\',
}

// parseString parses a literal string (...) with balanced parentheses and
// escape sequences.
func (p *Parser) parseString() (core.Object, error) {
	start := p.pos
	p.pos++ // skip '('

	var buf bytes.Buffer
	depth := 1
	for !p.eof() {
		c := p.data[p.pos]
		p.pos++

		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return core.String(buf.String()), nil
			}
		case '\\':
			if p.eof() {
				continue
			}
			p.unescape(&buf)
			continue
		}
		buf.WriteByte(c)
	}
	return nil, p.errorf(start, "unclosed string")
}

// unescape decodes the escape sequence following a backslash.
func (p *Parser) unescape(buf *bytes.Buffer) {
	c := p.data[p.pos]
	p.pos++

	if b, ok := escapes[c]; ok {
		buf.WriteByte(b)
		return
	}

	switch {
	case c == '\r':
		// Line continuation; \r\n counts as one end of line
		if !p.eof() && p.data[p.pos] == '\n' {
			p.pos++
		}
	case c == '\n':
	case c >= '0' && c <= '7':
		// Up to three octal digits, high-order overflow ignored
		v := int(c - '0')
		for i := 0; i < 2 && !p.eof() && p.data[p.pos] >= '0' && p.data[p.pos] <= '7'; i++ {
			v = v*8 + int(p.data[p.pos]-'0')
			p.pos++
		}
		buf.WriteByte(byte(v))
	default:
		// Unknown escape: the backslash is ignored
		buf.WriteByte(c)
	}
}

// parseHexString parses a hexadecimal string <...>. Whitespace is ignored
// and an odd final digit is padded with 0.
func (p *Parser) parseHexString() (core.Object, error) {
	start := p.pos
	p.pos++ // skip '<'

	var digits []byte
	for !p.eof() {
		c := p.data[p.pos]
		p.pos++
		switch {
		case c == '>':
			if len(digits)%2 == 1 {
				digits = append(digits, '0')
			}
			out := make([]byte, len(digits)/2)
			for i := range out {
				out[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
			}
			return core.String(out), nil
		case isWhitespace(c):
		case isHexDigit(c):
			digits = append(digits, c)
		default:
			return nil, p.errorf(p.pos-1, "invalid hex digit %q", c)
		}
	}
	return nil, p.errorf(start, "unclosed hex string")
}

// parseName parses a name object /Name, decoding #xx escapes. The leading
// slash is not part of the result.
func (p *Parser) parseName() core.Name {
	p.pos++ // skip '/'

	var buf bytes.Buffer
	for !p.eof() {
		c := p.data[p.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && p.pos+2 < len(p.data) && isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			buf.WriteByte(hexValue(p.data[p.pos+1])<<4 | hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}
		buf.WriteByte(c)
		p.pos++
	}
	return core.Name(buf.String())
}

// parseArray parses an array [...] of operands.
func (p *Parser) parseArray() (core.Object, error) {
	start := p.pos
	p.pos++ // skip '['

	arr := core.Array{}
	for {
		p.skipSpaceAndComments()
		if p.eof() {
			return nil, p.errorf(start, "unclosed array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		obj, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

// parseDict parses a dictionary <<...>>, used by BDC, DP and inline images.
func (p *Parser) parseDict() (core.Object, error) {
	start := p.pos
	p.pos += 2 // skip '<<'

	dict := make(core.Dict)
	for {
		p.skipSpaceAndComments()
		if p.eof() {
			return nil, p.errorf(start, "unclosed dictionary")
		}
		if bytes.HasPrefix(p.data[p.pos:], []byte(">>")) {
			p.pos += 2
			return dict, nil
		}
		if p.data[p.pos] != '/' {
			return nil, p.errorf(p.pos, "dictionary key must be a name")
		}
		key := p.parseName()
		value, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		dict[string(key)] = value
	}
}

// skipSpaceAndComments advances past whitespace and % comments.
func (p *Parser) skipSpaceAndComments() {
	for !p.eof() {
		c := p.data[p.pos]
		switch {
		case isWhitespace(c):
			p.pos++
		case c == '%':
			for !p.eof() && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
		default:
			return
		}
	}
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// hexValue returns the numeric value of a hexadecimal digit.
func hexValue(c byte) byte {
	switch {
	case isDigit(c):
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
