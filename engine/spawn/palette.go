package spawn

import "github.com/nathoo/timeward/types"

// Glyphs.
const (
	PlayerGlyph = '@'
	KeyGlyph    = 'k'
	ItemGlyph   = '*'
	PortalGlyph = 'p'
	DoorGlyph   = '+'
	NpcGlyph    = '☺'
)

// Colors.
var (
	Black       = types.RGB{}
	PlayerColor = types.RGB{R: 255, G: 50, B: 0}
	NpcColor    = types.RGB{R: 255, G: 111, B: 0}
	KeyColor    = types.RGB{R: 240, G: 250, B: 30}
	DoorColor   = types.RGB{R: 52, G: 27, B: 212}
	PortalColor = types.RGB{R: 21, G: 246, B: 111}
	TileColor   = types.RGB{R: 188, G: 188, B: 188}
	WallColor   = types.RGB{R: 130, G: 130, B: 130}
)

// Render orders. Higher is painted first, so the player ends up on top.
const (
	PlayerOrder = 0
	NpcOrder    = 1
	ItemOrder   = 2
	PortalOrder = 3
)
