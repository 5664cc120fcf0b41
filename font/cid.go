package font

import "fmt"

// CIDSystemInfo identifies a character collection
type CIDSystemInfo struct {
	Registry   string // e.g., "Adobe"
	Ordering   string // e.g., "Japan1", "GB1", "CNS1", "Korea1"
	Supplement int    // Version of the character collection
}

func (s CIDSystemInfo) String() string {
	return fmt.Sprintf("%s-%s-%d", s.Registry, s.Ordering, s.Supplement)
}

// WidthRange represents a width specification in the W array
type WidthRange struct {
	StartCID int
	EndCID   int
	Width    float64   // Single width for range
	Widths   []float64 // Individual widths (if non-nil)
}

// VerticalMetric holds the vertical displacement W1 and the position vector
// (VX, VY) of a glyph, in thousandths of an em.
type VerticalMetric struct {
	W1     float64
	VX, VY float64
}

// VerticalRange represents an entry of the W2 array
type VerticalRange struct {
	StartCID int
	EndCID   int
	Metric   VerticalMetric   // Shared metric for the range
	Metrics  []VerticalMetric // Individual metrics (if non-nil)
}

// CIDFont is a composite (Type0) font addressed by two-byte CIDs through an
// Identity-H or Identity-V CMap.
type CIDFont struct {
	BaseFont      string
	Encoding      string // Identity-H or Identity-V
	SystemInfo    CIDSystemInfo
	ToUnicodeCMap *CMap

	DW  float64 // Default width
	W   []WidthRange
	DW2 [2]float64 // Default vertical metrics [vy w1]
	W2  []VerticalRange
}

// NewCIDFont creates a composite font with the standard default metrics
// (DW 1000, DW2 [880 -1000]).
func NewCIDFont(baseFont, encoding string) *CIDFont {
	if encoding == "" {
		encoding = "Identity-H"
	}
	return &CIDFont{
		BaseFont: baseFont,
		Encoding: encoding,
		DW:       1000,
		DW2:      [2]float64{880, -1000},
	}
}

func (f *CIDFont) String() string {
	return f.BaseFont
}

// Decode reads big-endian two-byte codes. A trailing odd byte is dropped.
func (f *CIDFont) Decode(data []byte) []int {
	codes := make([]int, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		codes = append(codes, int(data[i])<<8|int(data[i+1]))
	}
	return codes
}

func (f *CIDFont) IsMultibyte() bool { return true }
func (f *CIDFont) CodeWidth() int    { return 2 }

// IsVertical returns true if this font uses vertical writing mode
func (f *CIDFont) IsVertical() bool {
	return IsVerticalEncoding(f.Encoding)
}

// IsVerticalEncoding checks if an encoding name indicates vertical writing
// mode. Identity-V is used for vertical text in CJK fonts.
func IsVerticalEncoding(encoding string) bool {
	return encoding == "Identity-V"
}

func (f *CIDFont) ToUnicode(code int) (string, error) {
	if f.ToUnicodeCMap != nil {
		if s, ok := f.ToUnicodeCMap.Lookup(uint32(code)); ok {
			return NormalizeUnicode(s), nil
		}
	}
	return "", &UndefinedMappingError{Font: f.BaseFont, Code: code}
}

// GetWidthForCID returns the width for a specific CID in thousandths of an em
func (f *CIDFont) GetWidthForCID(cid int) float64 {
	for _, wr := range f.W {
		if cid < wr.StartCID || cid > wr.EndCID {
			continue
		}
		if wr.Widths != nil {
			if idx := cid - wr.StartCID; idx < len(wr.Widths) {
				return wr.Widths[idx]
			}
			continue
		}
		return wr.Width
	}
	return f.DW
}

// GetVerticalMetric returns the vertical metrics for a specific CID
func (f *CIDFont) GetVerticalMetric(cid int) VerticalMetric {
	for _, vr := range f.W2 {
		if cid < vr.StartCID || cid > vr.EndCID {
			continue
		}
		if vr.Metrics != nil {
			if idx := cid - vr.StartCID; idx < len(vr.Metrics) {
				return vr.Metrics[idx]
			}
			continue
		}
		return vr.Metric
	}
	return VerticalMetric{
		W1: f.DW2[1],
		VX: f.GetWidthForCID(cid) / 2,
		VY: f.DW2[0],
	}
}

func (f *CIDFont) CharWidth(code int) float64 {
	return f.GetWidthForCID(code) * 0.001
}

func (f *CIDFont) VerticalDisplacement(code int) float64 {
	return f.GetVerticalMetric(code).W1 * 0.001
}

// IsCJK returns true if this is a Chinese, Japanese or Korean font
func (f *CIDFont) IsCJK() bool {
	switch f.SystemInfo.Ordering {
	case "Japan1", "GB1", "CNS1", "Korea1":
		return true
	}
	return false
}
