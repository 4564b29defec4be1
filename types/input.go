package types

// InputKind is the kind of a discrete input event.
type InputKind int

const (
	InputNone InputKind = iota
	InputMove
	InputConfirm
	InputCancel
	InputSelect
)

// Input is one input event fed to a tick. DX/DY are set for InputMove,
// Index (zero-based) for InputSelect.
type Input struct {
	Kind  InputKind
	DX    int
	DY    int
	Index int
}

// Move is a directional step.
func Move(dx, dy int) Input { return Input{Kind: InputMove, DX: dx, DY: dy} }

// Select picks the n-th inventory entry.
func Select(n int) Input { return Input{Kind: InputSelect, Index: n} }

var (
	Idle    = Input{Kind: InputNone}
	Confirm = Input{Kind: InputConfirm}
	Cancel  = Input{Kind: InputCancel}
)
