package parser

import (
	"testing"

	"github.com/nathoo/timeward/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   types.Input
		wantOK bool
	}{
		// Empty input is an idle tick.
		{name: "empty string", input: "", want: types.Idle, wantOK: true},
		{name: "whitespace only", input: "   ", want: types.Idle, wantOK: true},
		{name: "wait", input: "wait", want: types.Idle, wantOK: true},

		// Directions
		{name: "n", input: "n", want: types.Move(0, -1), wantOK: true},
		{name: "south", input: "south", want: types.Move(0, 1), wantOK: true},
		{name: "left", input: "left", want: types.Move(-1, 0), wantOK: true},
		{name: "vi l", input: "l", want: types.Move(1, 0), wantOK: true},
		{name: "go east", input: "go east", want: types.Move(1, 0), wantOK: true},
		{name: "case insensitive", input: "  NORTH ", want: types.Move(0, -1), wantOK: true},

		// Dialogue and menus
		{name: "confirm", input: "confirm", want: types.Confirm, wantOK: true},
		{name: "c", input: "c", want: types.Confirm, wantOK: true},
		{name: "cancel", input: "esc", want: types.Cancel, wantOK: true},
		{name: "q", input: "q", want: types.Cancel, wantOK: true},

		// Inventory selection
		{name: "bare number", input: "1", want: types.Select(0), wantOK: true},
		{name: "use 3", input: "use 3", want: types.Select(2), wantOK: true},
		{name: "use letter", input: "use b", want: types.Select(1), wantOK: true},
		{name: "zero is not an entry", input: "0", want: types.Idle, wantOK: false},

		// Unknown
		{name: "gibberish", input: "dance wildly", want: types.Idle, wantOK: false},
		{name: "go nowhere", input: "go nowhere", want: types.Idle, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if ok != tt.wantOK {
				t.Errorf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
