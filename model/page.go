package model

// Page describes a page being rendered into a device.
type Page struct {
	Index    int  // 0-indexed position in the document
	MediaBox BBox // Page boundaries in default user space
	Rotate   int  // Rotation angle in degrees (0, 90, 180, 270)
}

// NewPage creates a page descriptor with the given media box.
func NewPage(index int, mediaBox BBox) *Page {
	return &Page{
		Index:    index,
		MediaBox: mediaBox,
	}
}

// DefaultCTM returns the page-to-device transform that maps the media box
// origin to (0, 0) and applies the page rotation.
func (p *Page) DefaultCTM() Matrix {
	box := p.MediaBox
	switch ((p.Rotate % 360) + 360) % 360 {
	case 90:
		return Matrix{0, -1, 1, 0, -box.Bottom(), box.Right()}
	case 180:
		return Matrix{-1, 0, 0, -1, box.Right(), box.Top()}
	case 270:
		return Matrix{0, 1, -1, 0, box.Top(), -box.Left()}
	default:
		return Translate(-box.Left(), -box.Bottom())
	}
}
