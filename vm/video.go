package vm

// ScreenWidth and ScreenHeight are the fixed Chip16 framebuffer
// dimensions.
const (
	ScreenWidth  = 320
	ScreenHeight = 240
)

// RGB is a single 24-bit palette entry.
type RGB struct {
	R, G, B byte
}

// Palette holds the 16 indexed colors. Index 0 is the transparent color
// for sprite blits and also the BGC clear color.
type Palette struct {
	Entries [16]RGB
}

// defaultPalette mirrors the canonical Chip16 default palette (index 0
// is always treated as transparent regardless of its RGB value).
var defaultPalette = [16]RGB{
	{0x00, 0x00, 0x00}, {0x00, 0x00, 0x00}, {0x88, 0x88, 0x88}, {0xBF, 0x39, 0x32},
	{0xDE, 0x7A, 0xAE}, {0x4C, 0x3D, 0x21}, {0x90, 0x5F, 0x25}, {0xE4, 0x94, 0x36},
	{0xFF, 0xE7, 0x63}, {0x9B, 0xD3, 0x6A}, {0x37, 0x94, 0x6E}, {0x57, 0xCD, 0xEF},
	{0x41, 0x3A, 0xC2}, {0x60, 0x55, 0x98}, {0xFF, 0xFF, 0xFF}, {0xCC, 0xCC, 0xCC},
}

// NewPalette returns the default Chip16 palette.
func NewPalette() *Palette {
	p := &Palette{}
	p.Entries = defaultPalette
	return p
}

// LoadFromBytes loads 16 consecutive RGB triples (48 bytes) into the
// palette, as PALI/PALR do from memory.
func (p *Palette) LoadFromBytes(data []byte) {
	for i := 0; i < 16 && (i*3+2) < len(data); i++ {
		p.Entries[i] = RGB{R: data[i*3], G: data[i*3+1], B: data[i*3+2]}
	}
}

// VideoMemory is the 320x240 indexed-color framebuffer, packed two
// 4-bit pixels per byte, row-major and top-down. The low nibble of a
// byte is the left pixel of the pair, the high nibble the right.
type VideoMemory struct {
	data [ScreenWidth * ScreenHeight / 2]byte
}

// NewVideoMemory returns a cleared framebuffer.
func NewVideoMemory() *VideoMemory {
	return &VideoMemory{}
}

// Clear zeroes every pixel, as CLS does.
func (v *VideoMemory) Clear() {
	v.data = [ScreenWidth * ScreenHeight / 2]byte{}
}

func byteIndex(x, y int) (idx int, highNibble bool) {
	offset := y*ScreenWidth + x
	return offset / 2, offset%2 == 1
}

// InBounds reports whether (x, y) is a valid on-screen pixel.
func InBounds(x, y int) bool {
	return x >= 0 && x < ScreenWidth && y >= 0 && y < ScreenHeight
}

// GetPixel returns the palette index at (x, y). Callers must check
// InBounds first; out-of-range coordinates are a programming error in
// this package, not a runtime one, since every caller (the sprite
// engine) already clips.
func (v *VideoMemory) GetPixel(x, y int) byte {
	idx, high := byteIndex(x, y)
	if high {
		return v.data[idx] >> 4
	}
	return v.data[idx] & 0x0F
}

// SetPixel writes a 4-bit palette index at (x, y).
func (v *VideoMemory) SetPixel(x, y int, index byte) {
	idx, high := byteIndex(x, y)
	index &= 0x0F
	if high {
		v.data[idx] = v.data[idx]&0x0F | index<<4
	} else {
		v.data[idx] = v.data[idx]&0xF0 | index
	}
}

// Export returns the framebuffer as a flat, row-major slice of 4-bit
// palette indices, one byte per pixel — the form a host consumes once
// per simulated frame.
func (v *VideoMemory) Export() []byte {
	out := make([]byte, ScreenWidth*ScreenHeight)
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			out[y*ScreenWidth+x] = v.GetPixel(x, y)
		}
	}
	return out
}

// ExportRGB expands the framebuffer through pal into (r,g,b) triples,
// row-major, top-down.
func (v *VideoMemory) ExportRGB(pal *Palette) []RGB {
	out := make([]RGB, ScreenWidth*ScreenHeight)
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			out[y*ScreenWidth+x] = pal.Entries[v.GetPixel(x, y)]
		}
	}
	return out
}
