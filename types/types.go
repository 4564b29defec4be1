// Package types defines the shared data structures for the Timeward engine.
// This package contains only type definitions and the name tables of its
// enumerations, and no game logic.
package types

// Point is a tile-space coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NoTarget marks the targeted position as unset.
var NoTarget = Point{X: -1, Y: -1}

// Rect is a rectangular room footprint. X2/Y2 are exclusive.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// NewRect builds a room from its top-left corner and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// RGB is a presentation color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Span is an inclusive integer range used by reveal trigger zones.
type Span struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Position is the live tile of an entity in its place.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DormantPosition is the latent tile of an entity that is not on the map.
type DormantPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BelongsTo scopes an entity to a place.
type BelongsTo struct {
	Domain Place `json:"domain"`
}

// Renderable is presentation only. Higher RenderOrder is painted first.
type Renderable struct {
	Glyph       rune `json:"glyph"`
	FG          RGB  `json:"fg"`
	BG          RGB  `json:"bg"`
	RenderOrder int  `json:"render_order"`
}

// Name is a display label.
type Name struct {
	Name string `json:"name"`
}

// Player marks the single player entity.
type Player struct{}

// Item gives an entity a quest item identity.
type Item struct {
	Kind ItemKind `json:"kind"`
}

// Stored marks an item as held in the player inventory.
type Stored struct{}

// PermanentItem marks an item that is not consumed when it unlocks a barrier.
type PermanentItem struct{}

// RequiresItem gates a barrier or NPC on a single item.
type RequiresItem struct {
	Key ItemKind `json:"key"`
}

// RequiresItems gates an NPC on an ordered list of items, consumed from the front.
type RequiresItems struct {
	Items []ItemKind `json:"items"`
}

// ContainsItem is a single item an NPC hands out.
type ContainsItem struct {
	Item ItemKind `json:"item"`
}

// ContainsItems is the ordered list of items an NPC hands out.
type ContainsItems struct {
	Items []ItemKind `json:"items"`
}

// Portal moves the player to Target at Warp when stepped on.
type Portal struct {
	Target Place `json:"target"`
	Warp   Point `json:"warp"`
}

// Npc carries the dialogue state of an NPC.
type Npc struct {
	State NpcState `json:"state"`
}

// Interaction is the dialogue script of one NPC plus its cursors.
type Interaction struct {
	Dialogues              [][]string `json:"dialogues"`
	DialogueIndex          int        `json:"dialogue_index"`
	GetItemIndices         []int      `json:"get_item_indices"`
	GiveItemIndices        []int      `json:"give_item_indices"`
	ChangeObjectiveIndices []int      `json:"change_objective_indices"`
	Repeat                 bool       `json:"repeat"`
	PrintNoItem            bool       `json:"print_no_item"`
}

// Objective tracks the active quest step.
type Objective struct {
	Objectives []string `json:"objectives"`
	Index      int      `json:"index"`
}

// RevealerInformation describes when a dormant barrier materializes.
type RevealerInformation struct {
	XEndPoints   Span     `json:"x_end_points"`
	YEndPoints   Span     `json:"y_end_points"`
	RevealerItem ItemKind `json:"revealer_item"`
	BeforeReveal TileType `json:"before_reveal"`
}

// Marker is the stable cross-session identity of an entity.
type Marker struct {
	ID string `json:"id"`
}

// RunMode is the top-level mode of a session.
type RunMode struct {
	Kind RunModeKind `json:"kind"`
	Line int         `json:"line,omitempty"` // revealed dialogue line while interacting
	Won  bool        `json:"won,omitempty"`
}

// GameDef holds game metadata from the world script.
type GameDef struct {
	Title       string
	Author      string
	Version     string
	Start       Place
	StartPos    Point
	FinishPlace Place
	FinalItem   ItemKind
	Welcome     string
	Objectives  []string
}
