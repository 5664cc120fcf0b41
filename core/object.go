package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object is a content stream operand or dictionary value. String renders
// the object in PDF syntax.
type Object interface {
	String() string
	object()
}

type (
	// Null is the null object.
	Null struct{}

	// Bool is a boolean.
	Bool bool

	// Int is an integer.
	Int int64

	// Real is a real number.
	Real float64

	// String holds the raw bytes of a literal or hexadecimal string. The
	// bytes are glyph codes or encoded text, never decoded characters.
	String string

	// Name is a name without its leading slash and with #xx escapes
	// decoded.
	Name string

	Array []Object

	// Dict maps keys, stored without their slash, to values.
	Dict map[string]Object
)

// Stream pairs a dictionary with its data. Data is encoded as described by
// the dictionary's Filter entry until a filter pass decodes it.
type Stream struct {
	Dict Dict
	Data []byte
}

func (Null) object()    {}
func (Bool) object()    {}
func (Int) object()     {}
func (Real) object()    {}
func (String) object()  {}
func (Name) object()    {}
func (Array) object()   {}
func (Dict) object()    {}
func (*Stream) object() {}

func (o Null) String() string   { return format(o) }
func (o Bool) String() string   { return format(o) }
func (o Int) String() string    { return format(o) }
func (o Real) String() string   { return format(o) }
func (o String) String() string { return format(o) }
func (o Name) String() string   { return format(o) }
func (o Array) String() string  { return format(o) }
func (o Dict) String() string   { return format(o) }

func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", format(s.Dict), len(s.Data))
}

func format(obj Object) string {
	var sb strings.Builder
	write(&sb, obj)
	return sb.String()
}

func write(sb *strings.Builder, obj Object) {
	switch v := obj.(type) {
	case nil, Null:
		sb.WriteString("null")
	case Bool:
		sb.WriteString(strconv.FormatBool(bool(v)))
	case Int:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case Real:
		sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 64))
	case String:
		writeString(sb, string(v))
	case Name:
		sb.WriteByte('/')
		for i := 0; i < len(v); i++ {
			c := v[i]
			if c <= ' ' || c > '~' || c == '#' || strings.IndexByte("()<>[]{}/%", c) >= 0 {
				fmt.Fprintf(sb, "#%02X", c)
			} else {
				sb.WriteByte(c)
			}
		}
	case Array:
		sb.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				sb.WriteByte(' ')
			}
			write(sb, e)
		}
		sb.WriteByte(']')
	case Dict:
		sb.WriteString("<<")
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteByte(' ')
			}
			write(sb, Name(k))
			sb.WriteByte(' ')
			write(sb, v[k])
		}
		sb.WriteString(">>")
	default:
		sb.WriteString(v.String())
	}
}

// writeString writes s as a literal string, or as a hexadecimal string
// when it holds bytes outside printable ASCII.
func writeString(sb *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		if s[i] < ' ' || s[i] > '~' {
			fmt.Fprintf(sb, "<%X>", s)
			return
		}
	}
	sb.WriteByte('(')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '(', ')', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(')')
}

// Get returns element i, or nil when i is out of range.
func (a Array) Get(i int) Object {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// Floats returns the elements as numbers. It fails if any element is not
// a number.
func (a Array) Floats() ([]float64, bool) {
	out := make([]float64, len(a))
	for i, obj := range a {
		v, ok := Number(obj)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (d Dict) Get(key string) Object {
	return d[key]
}

func (d Dict) GetName(key string) (Name, bool) {
	n, ok := d[key].(Name)
	return n, ok
}

// GetNumber returns an Int or Real entry as a float64.
func (d Dict) GetNumber(key string) (float64, bool) {
	return Number(d[key])
}

func (d Dict) GetArray(key string) (Array, bool) {
	a, ok := d[key].(Array)
	return a, ok
}

// Keys returns the keys in sorted order.
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Number returns the value of an Int or Real.
func Number(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

// Bytes returns the raw bytes of a String.
func Bytes(obj Object) ([]byte, bool) {
	s, ok := obj.(String)
	return []byte(s), ok
}
