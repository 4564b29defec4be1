// Package tilemap holds the per-place tile grid and its generation from a
// room footprint.
package tilemap

import (
	"fmt"

	"github.com/nathoo/timeward/types"
)

// Default grid size of every place.
const (
	Width  = 55
	Height = 43
)

// Map is the tile grid of one place.
type Map struct {
	Tiles  []types.TileType `json:"tiles"`
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Place  types.Place      `json:"place"`
}

// New allocates a map of the given size filled with Space.
func New(place types.Place, width, height int) *Map {
	return &Map{
		Tiles:  make([]types.TileType, width*height),
		Width:  width,
		Height: height,
		Place:  place,
	}
}

// Generate builds the base grid of a place: the room interior is carved to
// Floor and a Wall border is laid one cell outside it. Portal and NPC
// overlays are applied by the caller, which knows the entities.
func Generate(place types.Place, room types.Rect) *Map {
	m := New(place, Width, Height)
	for y := room.Y1; y < room.Y2; y++ {
		for x := room.X1; x < room.X2; x++ {
			if m.InBounds(x, y) {
				m.Set(x, y, types.TileFloor)
			}
		}
	}
	for x := room.X1 - 1; x <= room.X2; x++ {
		m.setIfInBounds(x, room.Y1-1, types.TileWall)
		m.setIfInBounds(x, room.Y2, types.TileWall)
	}
	for y := room.Y1 - 1; y <= room.Y2; y++ {
		m.setIfInBounds(room.X1-1, y, types.TileWall)
		m.setIfInBounds(room.X2, y, types.TileWall)
	}
	return m
}

// InBounds reports whether (x, y) lies on the grid.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Index returns the flat slice index of (x, y). It panics on out-of-range
// coordinates: callers clamp first.
func (m *Map) Index(x, y int) int {
	if !m.InBounds(x, y) {
		panic(fmt.Sprintf("tilemap: (%d,%d) outside %dx%d map", x, y, m.Width, m.Height))
	}
	return y*m.Width + x
}

// At returns the tile at (x, y).
func (m *Map) At(x, y int) types.TileType {
	return m.Tiles[m.Index(x, y)]
}

// Set overwrites the tile at (x, y).
func (m *Map) Set(x, y int, t types.TileType) {
	m.Tiles[m.Index(x, y)] = t
}

func (m *Map) setIfInBounds(x, y int, t types.TileType) {
	if m.InBounds(x, y) {
		m.Set(x, y, t)
	}
}

// Clamp limits (x, y) to the grid.
func (m *Map) Clamp(x, y int) (int, int) {
	return clamp(x, 0, m.Width-1), clamp(y, 0, m.Height-1)
}

// Clone returns a deep copy.
func (m *Map) Clone() *Map {
	c := *m
	c.Tiles = make([]types.TileType, len(m.Tiles))
	copy(c.Tiles, m.Tiles)
	return &c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
