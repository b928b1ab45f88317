package types

import "fmt"

// Value is a centipawn score from the side-to-move's point of view
// (negamax convention: a positive value always favors the mover).
type Value int16

const (
	// ValueZero is a dead-equal evaluation.
	ValueZero Value = 0
	// ValueDraw is the score assigned to draws by repetition, the 50-move
	// rule, or insufficient material.
	ValueDraw Value = 0
	// ValueNA marks "no value computed", never returned from search.
	ValueNA Value = -32001

	// ValueInfinite bounds the alpha-beta window at the root.
	ValueInfinite Value = 32000
	// ValueCheckMate is the score of a checkmate delivered on the current
	// ply. Mates found deeper are reported as ValueCheckMate minus the
	// number of plies to the mate, so closer mates sort as more valuable -
	// see ValueCheckMateThreshold.
	ValueCheckMate Value = 31000
	// ValueCheckMateThreshold is the boundary above (or, mirrored, below)
	// which a score is considered a forced mate rather than a material
	// evaluation. Used by the transposition table to detect and correct
	// mate-distance scores when storing/loading entries from different
	// search depths (see search.valueToTT / valueFromTT).
	ValueCheckMateThreshold Value = ValueCheckMate - 1000
)

// IsCheckMateValue reports whether v encodes a forced mate for either side.
func (v Value) IsCheckMateValue() bool {
	return v >= ValueCheckMateThreshold || v <= -ValueCheckMateThreshold
}

// MateIn returns the number of full moves to deliver (or suffer) the mate
// encoded by v. Only meaningful when IsCheckMateValue(v) is true.
func (v Value) MateIn() int {
	if v > 0 {
		return (int(ValueCheckMate-v) + 1) / 2
	}
	return -(int(ValueCheckMate+v) + 1) / 2
}

// String renders v the way UCI "info score" expects: "cp <centipawns>" for
// a normal evaluation, or "mate <n>" (n negative when own side is the one
// getting mated) for a forced mate.
func (v Value) String() string {
	switch {
	case v == ValueNA:
		return "N/A"
	case v.IsCheckMateValue():
		return fmt.Sprintf("mate %d", v.MateIn())
	default:
		return fmt.Sprintf("cp %d", int(v))
	}
}
