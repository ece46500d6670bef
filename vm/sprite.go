package vm

// SpriteState holds the DRW instruction's persistent operands: the
// dimensions set by the last SPR, and the flip flags set by the last
// FLIP.
type SpriteState struct {
	// WidthBytes is the sprite width in bytes; each byte packs two
	// horizontal pixels, so the pixel width is WidthBytes*2.
	WidthBytes byte
	// Height is the sprite height in pixel rows.
	Height byte
	FlipH  bool
	FlipV  bool
}

// PixelWidth returns the sprite's width in pixels.
func (s *SpriteState) PixelWidth() int { return int(s.WidthBytes) * 2 }

// SetFlip decodes FLIP's operand nibble: bit 0 selects vertical flip,
// bit 1 selects horizontal flip.
func (s *SpriteState) SetFlip(n byte) {
	s.FlipV = n&0x01 != 0
	s.FlipH = n&0x02 != 0
}

// Blit draws the sprite whose packed-nibble data starts at baseAddr in
// mem onto video at signed screen position (originX, originY), honoring
// the current flip flags and clipping against the screen bounds. It
// returns true if any destination pixel it wrote was already
// non-transparent (sprite collision); §4.5's contract makes that a flag,
// never an error.
func (s *SpriteState) Blit(mem *Memory, video *VideoMemory, originX, originY int16, baseAddr uint32) (collision bool, err error) {
	w := s.PixelWidth()
	h := int(s.Height)

	for sy := 0; sy < h; sy++ {
		rowAddr := baseAddr + uint32(sy)*uint32(s.WidthBytes)
		row, rerr := mem.GetBytes(rowAddr, uint32(s.WidthBytes))
		if rerr != nil {
			return collision, rerr
		}

		for sx := 0; sx < w; sx++ {
			b := row[sx/2]
			var p byte
			if sx%2 == 0 {
				p = b & 0x0F
			} else {
				p = b >> 4
			}
			if p == 0 {
				continue
			}

			esx, esy := sx, sy
			if s.FlipH {
				esx = w - 1 - sx
			}
			if s.FlipV {
				esy = h - 1 - sy
			}

			dx := int(originX) + esx
			dy := int(originY) + esy
			if !InBounds(dx, dy) {
				continue
			}

			if video.GetPixel(dx, dy) != 0 {
				collision = true
			}
			video.SetPixel(dx, dy, p)
		}
	}

	return collision, nil
}
