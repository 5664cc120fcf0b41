package font

import (
	"fmt"

	"github.com/tsawler/pdfdevice/contentstream"
	"github.com/tsawler/pdfdevice/core"
)

// CMap represents a ToUnicode character map
type CMap struct {
	// Single character mappings: charCode -> unicode string
	charMappings map[uint32]string

	// Range mappings, searched in order after charMappings
	rangeMappings []CMapRange
}

// CMapRange maps StartCode..EndCode to Unicode strings. The last rune of
// Start is incremented by the offset of the code within the range.
type CMapRange struct {
	StartCode uint32
	EndCode   uint32
	Start     []rune
}

// NewCMap creates a new empty CMap
func NewCMap() *CMap {
	return &CMap{
		charMappings: make(map[uint32]string),
	}
}

// ParseToUnicodeCMap parses decoded ToUnicode CMap data. CMap programs use
// the same token syntax as content streams, so each bfchar/bfrange block
// arrives as the operands of its end operator.
func ParseToUnicodeCMap(data []byte) (*CMap, error) {
	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse cmap: %w", err)
	}

	cm := NewCMap()
	for _, op := range ops {
		switch op.Operator {
		case "endbfchar":
			cm.parseBfChar(op.Operands)
		case "endbfrange":
			cm.parseBfRange(op.Operands)
		}
	}
	return cm, nil
}

// parseBfChar handles <srcCode> <dstUnicode> pairs
func (cm *CMap) parseBfChar(operands []core.Object) {
	for i := 0; i+1 < len(operands); i += 2 {
		src, ok1 := core.Bytes(operands[i])
		dst, ok2 := core.Bytes(operands[i+1])
		if !ok1 || !ok2 {
			continue
		}
		s, err := decodeDestination(dst)
		if err != nil {
			continue
		}
		cm.Add(bytesToCode(src), s)
	}
}

// parseBfRange handles <lo> <hi> <dst> and <lo> <hi> [<d1> <d2> ...] triples
func (cm *CMap) parseBfRange(operands []core.Object) {
	for i := 0; i+2 < len(operands); i += 3 {
		lo, ok1 := core.Bytes(operands[i])
		hi, ok2 := core.Bytes(operands[i+1])
		if !ok1 || !ok2 {
			continue
		}
		start, end := bytesToCode(lo), bytesToCode(hi)
		if end < start {
			continue
		}

		switch dst := operands[i+2].(type) {
		case core.String:
			s, err := decodeDestination([]byte(dst))
			if err != nil || s == "" {
				continue
			}
			cm.AddRange(start, end, s)
		case core.Array:
			code := start
			for _, obj := range dst {
				if code > end {
					break
				}
				if b, ok := core.Bytes(obj); ok {
					if s, err := decodeDestination(b); err == nil {
						cm.Add(code, s)
					}
				}
				code++
			}
		}
	}
}

// Add maps a single code
func (cm *CMap) Add(code uint32, s string) {
	cm.charMappings[code] = s
}

// AddRange maps start..end, incrementing the last rune of s per code
func (cm *CMap) AddRange(start, end uint32, s string) {
	cm.rangeMappings = append(cm.rangeMappings, CMapRange{
		StartCode: start,
		EndCode:   end,
		Start:     []rune(s),
	})
}

// Lookup looks up a character code. It reports false when the code has no
// mapping.
func (cm *CMap) Lookup(charCode uint32) (string, bool) {
	if cm == nil {
		return "", false
	}
	if unicode, ok := cm.charMappings[charCode]; ok {
		return unicode, true
	}

	for _, r := range cm.rangeMappings {
		if charCode >= r.StartCode && charCode <= r.EndCode {
			out := make([]rune, len(r.Start))
			copy(out, r.Start)
			out[len(out)-1] += rune(charCode - r.StartCode)
			return string(out), true
		}
	}

	return "", false
}

// Len returns the number of single mappings plus ranges
func (cm *CMap) Len() int {
	return len(cm.charMappings) + len(cm.rangeMappings)
}

// bytesToCode packs big-endian bytes into a code
func bytesToCode(b []byte) uint32 {
	var code uint32
	for _, c := range b {
		code = code<<8 | uint32(c)
	}
	return code
}

// decodeDestination converts a bf destination to text. Destinations of two
// or more bytes are UTF-16BE; a single byte is taken as a Latin-1 code point.
func decodeDestination(b []byte) (string, error) {
	switch len(b) {
	case 0:
		return "", fmt.Errorf("empty destination")
	case 1:
		return string(rune(b[0])), nil
	default:
		return DecodeUTF16BE(b)
	}
}
