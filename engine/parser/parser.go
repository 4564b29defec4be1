// Package parser converts command strings into Input events for the plain
// front end and scripted playback. Intentionally dumb: one word, one event.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/timeward/types"
)

var directions = map[string][2]int{
	"n": {0, -1}, "north": {0, -1}, "up": {0, -1}, "k": {0, -1},
	"s": {0, 1}, "south": {0, 1}, "down": {0, 1}, "j": {0, 1},
	"w": {-1, 0}, "west": {-1, 0}, "left": {-1, 0}, "h": {-1, 0},
	"e": {1, 0}, "east": {1, 0}, "right": {1, 0}, "l": {1, 0},
}

var confirmWords = map[string]bool{
	"enter": true, "confirm": true, "c": true, "talk": true, "next": true, "ok": true,
}

var cancelWords = map[string]bool{
	"esc": true, "escape": true, "cancel": true, "q": true, "leave": true, "back": true,
}

var idleWords = map[string]bool{
	"wait": true, "z": true, ".": true,
}

var selectVerbs = map[string]bool{
	"use": true, "select": true, "pick": true,
}

// Parse converts a raw command into an Input. Inventory entries are
// numbered from 1 ("use 2", or just "2"); "use b" picks by letter.
// ok is false for unrecognized text.
func Parse(input string) (in types.Input, ok bool) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	switch len(words) {
	case 0:
		return types.Idle, true
	case 1:
		w := words[0]
		if d, ok := directions[w]; ok {
			return types.Move(d[0], d[1]), true
		}
		if confirmWords[w] {
			return types.Confirm, true
		}
		if cancelWords[w] {
			return types.Cancel, true
		}
		if idleWords[w] {
			return types.Idle, true
		}
		if n, err := strconv.Atoi(w); err == nil && n >= 1 {
			return types.Select(n - 1), true
		}
	case 2:
		// "go north"
		if words[0] == "go" || words[0] == "move" {
			if d, ok := directions[words[1]]; ok {
				return types.Move(d[0], d[1]), true
			}
		}
		if selectVerbs[words[0]] {
			if n, ok := entryNumber(words[1]); ok {
				return types.Select(n), true
			}
		}
	}
	return types.Idle, false
}

// entryNumber maps a 1-based entry number or a letter (a = first) to a
// zero-based index.
func entryNumber(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 {
			return 0, false
		}
		return n - 1, true
	}
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return int(s[0] - 'a'), true
	}
	return 0, false
}
