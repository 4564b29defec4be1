package types

// PlaceDef is a place as declared by the world script.
type PlaceDef struct {
	ID   Place
	Name string
	Room Rect
}

// RevealDef turns a door into a dormant door that only materializes while
// the player stands inside the zone holding Item.
type RevealDef struct {
	X      Span
	Y      Span
	Item   ItemKind
	Before TileType
}

// PortalDef is a traversal point. A door is a portal with a key.
type PortalDef struct {
	Name   string
	Place  Place
	Pos    Point
	Target Place
	Warp   Point
	Key    *ItemKind
	Reveal *RevealDef
}

// ItemDef is a quest item. Items without Pos start off the map and are
// handed out by NPCs or produced by crafting.
type ItemDef struct {
	Kind      ItemKind
	Place     Place
	Pos       *Point
	Permanent bool
}

// NpcDef is a dialogue-capable character.
type NpcDef struct {
	Name             string
	Place            Place
	Pos              Point
	Glyph            rune
	Color            *RGB
	Dialogues        [][]string
	Wants            []ItemKind
	Gives            []ItemKind
	GetIndices       []int
	GiveIndices      []int
	ObjectiveIndices []int
}
