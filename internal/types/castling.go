package types

// CastlingRights is a 4-bit set of {own-kingside, own-queenside,
// enemy-kingside, enemy-queenside}, always relative to the mover's own/enemy
// perspective - Mirror() swaps the own/enemy pairs so the set stays correct
// after Position.Mirror() flips the board.
type CastlingRights uint8

const (
	CastleOwnKingside CastlingRights = 1 << iota
	CastleOwnQueenside
	CastleEnemyKingside
	CastleEnemyQueenside

	CastleNone CastlingRights = 0
	CastleAll  CastlingRights = CastleOwnKingside | CastleOwnQueenside | CastleEnemyKingside | CastleEnemyQueenside
)

// Has reports whether the given right (or set of rights) is present.
func (cr CastlingRights) Has(r CastlingRights) bool {
	return cr&r == r
}

// Clear returns cr with the given right(s) removed.
func (cr CastlingRights) Clear(r CastlingRights) CastlingRights {
	return cr &^ r
}

// Mirror swaps the own/enemy halves of the castling rights, used when the
// whole position is mirrored to change perspective.
func (cr CastlingRights) Mirror() CastlingRights {
	var out CastlingRights
	if cr.Has(CastleOwnKingside) {
		out |= CastleEnemyKingside
	}
	if cr.Has(CastleOwnQueenside) {
		out |= CastleEnemyQueenside
	}
	if cr.Has(CastleEnemyKingside) {
		out |= CastleOwnKingside
	}
	if cr.Has(CastleEnemyQueenside) {
		out |= CastleOwnQueenside
	}
	return out
}

func (cr CastlingRights) String() string {
	if cr == CastleNone {
		return "-"
	}
	s := ""
	if cr.Has(CastleOwnKingside) {
		s += "K"
	}
	if cr.Has(CastleOwnQueenside) {
		s += "Q"
	}
	if cr.Has(CastleEnemyKingside) {
		s += "k"
	}
	if cr.Has(CastleEnemyQueenside) {
		s += "q"
	}
	return s
}
