package types

// PieceType is one of the six piece kinds, or PtNone for an empty square.
// Order matters: it is used both as an array index and, via Value(), for
// MVV/LVA ordering and material scoring.
type PieceType int8

const (
	PtNone PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
	PtLength = 7
)

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "-"
	}
}

// PieceTypeFromPromoLetter parses the promotion letter of algebraic move
// notation ('q', 'r', 'b', 'n'), returning PtNone for anything else.
func PieceTypeFromPromoLetter(c byte) PieceType {
	switch c {
	case 'q', 'Q':
		return Queen
	case 'r', 'R':
		return Rook
	case 'b', 'B':
		return Bishop
	case 'n', 'N':
		return Knight
	default:
		return PtNone
	}
}

// materialValue gives the standard centipawn value of a piece type, used by
// the naive evaluator and by search's material-delta futility checks.
var materialValue = [PtLength]Value{
	PtNone: 0,
	Pawn:   100,
	Knight: 320,
	Bishop: 330,
	Rook:   500,
	Queen:  900,
	King:   0,
}

// Value returns the standard centipawn value of the piece type.
func (pt PieceType) Value() Value {
	return materialValue[pt]
}

// mvvVictimValue and lvaAttackerBonus implement the MVV/LVA capture
// ordering key: most-valuable-victim primary, least-valuable-attacker
// as a tiebreak (king capture must never be generated/searched).
var mvvVictimValue = [PtLength]int{
	PtNone: 100,
	Pawn:   100,
	Knight: 200,
	Bishop: 300,
	Rook:   400,
	Queen:  500,
	King:   600,
}

var lvaAttackerBonus = [PtLength]int{
	King:   0,
	Queen:  1,
	Rook:   2,
	Bishop: 3,
	Knight: 4,
	Pawn:   5,
	PtNone: 5,
}

// MvvLvaScore returns the capture-ordering key for a capture of victim by
// attacker: higher is searched first. Stable sort on this key gives
// MVV primary / LVA tiebreak ordering.
func MvvLvaScore(attacker, victim PieceType) int {
	return mvvVictimValue[victim]*8 + lvaAttackerBonus[attacker]
}

// Piece packs a PieceType and a Color, used only at the I/O boundary (FEN
// board array, evaluator dirty-piece deltas) - the core Position never
// stores a piece-per-square board, it derives piece identity from its
// bitboards on demand.
type Piece int8

const PieceNone Piece = -1

// NewPiece packs a piece type and color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == PtNone {
		return PieceNone
	}
	return Piece(int8(c)*int8(PtLength) + int8(pt))
}

// TypeOf unpacks the piece type.
func (p Piece) TypeOf() PieceType {
	if p == PieceNone {
		return PtNone
	}
	return PieceType(int8(p) % PtLength)
}

// ColorOf unpacks the color.
func (p Piece) ColorOf() Color {
	if p == PieceNone {
		return ColorNone
	}
	return Color(int8(p) / PtLength)
}

func (p Piece) String() string {
	if p == PieceNone {
		return "."
	}
	s := p.TypeOf().String()
	if p.ColorOf() == White {
		return upper(s)
	}
	return s
}

func upper(s string) string {
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 32
	}
	return string(b)
}
