package tilemap

import "github.com/nathoo/timeward/types"

// Neighbor bits of a wall mask.
const (
	WallN = 1 << iota
	WallS
	WallW
	WallE
)

var wallGlyphs = [16]rune{
	0:                             '○',
	WallN:                         '║',
	WallS:                         '║',
	WallN | WallS:                 '║',
	WallW:                         '═',
	WallE:                         '═',
	WallW | WallE:                 '═',
	WallN | WallW:                 '╝',
	WallS | WallW:                 '╗',
	WallN | WallS | WallW:         '╣',
	WallN | WallE:                 '╚',
	WallS | WallE:                 '╔',
	WallN | WallS | WallE:         '╠',
	WallN | WallW | WallE:         '╩',
	WallS | WallW | WallE:         '╦',
	WallN | WallS | WallW | WallE: '╬',
}

// GlyphForMask maps a 4-bit neighbor mask to a box-drawing rune.
func GlyphForMask(mask int) rune {
	return wallGlyphs[mask&0xF]
}

// WallMask returns the neighbor mask of the wall at (x, y). Cells on the
// grid edge report -1.
func (m *Map) WallMask(x, y int) int {
	if x < 1 || y < 1 || x >= m.Width-1 || y >= m.Height-1 {
		return -1
	}
	mask := 0
	if m.At(x, y-1) == types.TileWall {
		mask |= WallN
	}
	if m.At(x, y+1) == types.TileWall {
		mask |= WallS
	}
	if m.At(x-1, y) == types.TileWall {
		mask |= WallW
	}
	if m.At(x+1, y) == types.TileWall {
		mask |= WallE
	}
	return mask
}

// WallGlyph returns the rune drawn for the wall at (x, y).
func (m *Map) WallGlyph(x, y int) rune {
	mask := m.WallMask(x, y)
	if mask < 0 {
		return '#'
	}
	return GlyphForMask(mask)
}
