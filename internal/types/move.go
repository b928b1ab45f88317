package types

// Move is a 16-bit packed move: 6 bits "from", 6 bits "to", 4 bits
// promotion piece type (None or Queen/Rook/Bishop/Knight). Castling is
// encoded as a king move of exactly 2 files; en-passant is encoded as a
// pawn diagonal move to an empty square - neither needs a dedicated tag
// bit, both are recognized from geometry plus board state at apply time
// (see position.Position.Apply).
type Move uint16

const (
	moveToMask    = 0x003F
	moveFromShift = 6
	moveFromMask  = 0x0FC0
	movePromoShift = 12
)

// MoveNone is the zero value, used as a sentinel for "no move".
const MoveNone Move = 0

// promoEncode/promoDecode map PieceType <-> the 3 bits actually used in the
// 4-bit promotion field (None, Knight, Bishop, Rook, Queen).
var promoEncode = map[PieceType]Move{
	PtNone: 0,
	Knight: 1,
	Bishop: 2,
	Rook:   3,
	Queen:  4,
}

var promoDecode = [8]PieceType{PtNone, Knight, Bishop, Rook, Queen, PtNone, PtNone, PtNone}

// NewMove packs a from/to/promotion triple into a Move.
func NewMove(from, to Square, promo PieceType) Move {
	return Move(from)<<moveFromShift | Move(to) | promoEncode[promo]<<movePromoShift
}

// From returns the origin square.
func (m Move) From() Square {
	return Square((m & moveFromMask) >> moveFromShift)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square(m & moveToMask)
}

// Promotion returns the promotion piece type, or PtNone if this move is not
// a promotion.
func (m Move) Promotion() PieceType {
	return promoDecode[(m>>movePromoShift)&0x7]
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promotion() != PtNone
}

// String renders the move in UCI long algebraic notation, e.g. "e2e4" or
// "e7e8q". Coordinates here are in the position's own internal (possibly
// mirrored) perspective - the UCI layer flips them for display.
func (m Move) String() string {
	if m == MoveNone {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += m.Promotion().String()
	}
	return s
}

// StringUci is an alias of String - moves already render in UCI long
// algebraic notation, so callers that historically asked for a
// protocol-specific rendering get the same string.
func (m Move) StringUci() string {
	return m.String()
}

// Mirror flips from/to across the board's horizontal midline, leaving the
// promotion piece untouched. Applying Mirror twice returns the original
// move, so the same call converts a move between a position's own/enemy
// perspective and absolute board coordinates in either direction.
func (m Move) Mirror() Move {
	if m == MoveNone {
		return m
	}
	return NewMove(m.From().Mirror(), m.To().Mirror(), m.Promotion())
}
