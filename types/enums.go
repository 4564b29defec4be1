package types

import "fmt"

// Place is a self-contained room and the unit of map regeneration.
type Place int

const (
	PlaceHome Place = iota
	PlaceSchoolSouth
	PlaceSchoolNorth
	PlaceClass
	PlaceLibrary
	PlaceOttomanMain
	PlaceOttomanLeft
	PlaceOttomanRight
	PlaceOttomanTop
	PlaceOttomanBottom
)

var placeIDs = [...]string{
	PlaceHome:          "home",
	PlaceSchoolSouth:   "school_south",
	PlaceSchoolNorth:   "school_north",
	PlaceClass:         "class",
	PlaceLibrary:       "library",
	PlaceOttomanMain:   "ottoman_main",
	PlaceOttomanLeft:   "ottoman_left",
	PlaceOttomanRight:  "ottoman_right",
	PlaceOttomanTop:    "ottoman_top",
	PlaceOttomanBottom: "ottoman_bottom",
}

// Places lists every place in declaration order.
func Places() []Place {
	out := make([]Place, len(placeIDs))
	for i := range placeIDs {
		out[i] = Place(i)
	}
	return out
}

// String returns the content identifier, e.g. "school_south".
func (p Place) String() string {
	if p < 0 || int(p) >= len(placeIDs) {
		return fmt.Sprintf("place(%d)", int(p))
	}
	return placeIDs[p]
}

// Era returns the year shown for a place.
func (p Place) Era() string {
	switch p {
	case PlaceHome, PlaceSchoolSouth, PlaceSchoolNorth, PlaceClass, PlaceLibrary:
		return "2021"
	default:
		return "1890"
	}
}

// ParsePlace resolves a content identifier.
func ParsePlace(s string) (Place, error) {
	for i, id := range placeIDs {
		if id == s {
			return Place(i), nil
		}
	}
	return 0, fmt.Errorf("unknown place %q", s)
}

func (p Place) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Place) UnmarshalText(b []byte) error {
	v, err := ParsePlace(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// TileType is the semantic content of a map cell.
type TileType int

const (
	TileSpace TileType = iota
	TileWall
	TileFloor
	TileRequiresKey
	TilePortal
	TileNPC
)

var tileIDs = [...]string{
	TileSpace:       "space",
	TileWall:        "wall",
	TileFloor:       "floor",
	TileRequiresKey: "requires_key",
	TilePortal:      "portal",
	TileNPC:         "npc",
}

func (t TileType) String() string {
	if t < 0 || int(t) >= len(tileIDs) {
		return fmt.Sprintf("tile(%d)", int(t))
	}
	return tileIDs[t]
}

// ParseTileType resolves a tile identifier.
func ParseTileType(s string) (TileType, error) {
	for i, id := range tileIDs {
		if id == s {
			return TileType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tile type %q", s)
}

func (t TileType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TileType) UnmarshalText(b []byte) error {
	v, err := ParseTileType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ItemKind is the closed set of quest item identities.
type ItemKind int

const (
	ItemBook ItemKind = iota
	ItemSecretGateKey
	ItemOttomanKey1
	ItemOttomanKey2
	ItemOttomanKey3
	ItemOttomanKeyMain
	ItemOttomanRewardPoem
	ItemOttomanRewardBookCover
	ItemOttomanRewardGlue
	ItemOttomanCombinedRewardPoemBook
	ItemOttomanRewardMosquePart1
	ItemOttomanRewardMosquePart2
	ItemOttomanCombinedRewardMosqueModel
	ItemOttomanRewardNotePaper
	ItemOttomanRewardCanvas
	ItemOttomanRewardClay
	ItemOttomanCombinedRewardWeirdCollage
)

var itemIDs = [...]string{
	ItemBook:                              "book",
	ItemSecretGateKey:                     "secret_gate_key",
	ItemOttomanKey1:                       "ottoman_key_1",
	ItemOttomanKey2:                       "ottoman_key_2",
	ItemOttomanKey3:                       "ottoman_key_3",
	ItemOttomanKeyMain:                    "ottoman_key_main",
	ItemOttomanRewardPoem:                 "poem",
	ItemOttomanRewardBookCover:            "book_cover",
	ItemOttomanRewardGlue:                 "glue",
	ItemOttomanCombinedRewardPoemBook:     "poem_book",
	ItemOttomanRewardMosquePart1:          "mosque_part_1",
	ItemOttomanRewardMosquePart2:          "mosque_part_2",
	ItemOttomanCombinedRewardMosqueModel:  "mosque_model",
	ItemOttomanRewardNotePaper:            "note_paper",
	ItemOttomanRewardCanvas:               "canvas",
	ItemOttomanRewardClay:                 "clay",
	ItemOttomanCombinedRewardWeirdCollage: "weird_collage",
}

var itemNames = [...]string{
	ItemBook:                              "Book",
	ItemSecretGateKey:                     "Secret Gate Key",
	ItemOttomanKey1:                       "West Gate Key",
	ItemOttomanKey2:                       "North Gate Key",
	ItemOttomanKey3:                       "East Gate Key",
	ItemOttomanKeyMain:                    "Time Gate Key",
	ItemOttomanRewardPoem:                 "Translated Poem",
	ItemOttomanRewardBookCover:            "Book Cover",
	ItemOttomanRewardGlue:                 "Glue",
	ItemOttomanCombinedRewardPoemBook:     "Poem Book",
	ItemOttomanRewardMosquePart1:          "Mosque Facade",
	ItemOttomanRewardMosquePart2:          "Mosque Dome",
	ItemOttomanCombinedRewardMosqueModel:  "Mosque Model",
	ItemOttomanRewardNotePaper:            "Note Paper",
	ItemOttomanRewardCanvas:               "Canvas",
	ItemOttomanRewardClay:                 "Clay",
	ItemOttomanCombinedRewardWeirdCollage: "Weird Collage",
}

// ID returns the content identifier, e.g. "secret_gate_key".
func (k ItemKind) ID() string {
	if k < 0 || int(k) >= len(itemIDs) {
		return fmt.Sprintf("item(%d)", int(k))
	}
	return itemIDs[k]
}

// String returns the display name.
func (k ItemKind) String() string {
	if k < 0 || int(k) >= len(itemNames) {
		return fmt.Sprintf("item(%d)", int(k))
	}
	return itemNames[k]
}

// ParseItemKind resolves a content identifier.
func ParseItemKind(s string) (ItemKind, error) {
	for i, id := range itemIDs {
		if id == s {
			return ItemKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown item %q", s)
}

func (k ItemKind) MarshalText() ([]byte, error) { return []byte(k.ID()), nil }

func (k *ItemKind) UnmarshalText(b []byte) error {
	v, err := ParseItemKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// NpcState is the dialogue state of an NPC.
type NpcState int

const (
	NpcHasDialogue NpcState = iota
	NpcWantsItem
	NpcWillGiveItem
	NpcDone
)

var npcStateIDs = [...]string{
	NpcHasDialogue:  "has_dialogue",
	NpcWantsItem:    "wants_item",
	NpcWillGiveItem: "will_give_item",
	NpcDone:         "done",
}

func (s NpcState) String() string {
	if s < 0 || int(s) >= len(npcStateIDs) {
		return fmt.Sprintf("npc_state(%d)", int(s))
	}
	return npcStateIDs[s]
}

func (s NpcState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *NpcState) UnmarshalText(b []byte) error {
	for i, id := range npcStateIDs {
		if id == string(b) {
			*s = NpcState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown npc state %q", string(b))
}

// RunModeKind selects which flow consumes the next input.
type RunModeKind int

const (
	ModeGame RunModeKind = iota
	ModeUseInventory
	ModeInteractNpc
	ModeGameOver
)

var modeIDs = [...]string{
	ModeGame:         "game",
	ModeUseInventory: "use_inventory",
	ModeInteractNpc:  "interact_npc",
	ModeGameOver:     "game_over",
}

func (m RunModeKind) String() string {
	if m < 0 || int(m) >= len(modeIDs) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeIDs[m]
}

func (m RunModeKind) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *RunModeKind) UnmarshalText(b []byte) error {
	for i, id := range modeIDs {
		if id == string(b) {
			*m = RunModeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown run mode %q", string(b))
}
