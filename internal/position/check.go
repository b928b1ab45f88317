/*
 * CoreChess - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 CoreChess Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package position

import (
	"github.com/corechess/corechess/internal/attacks"
	. "github.com/corechess/corechess/internal/types"
)

// IsAttackedByEnemy reports whether sq is attacked by any enemy piece. Used
// both for "is own king in check" and for the castling-through-check rule,
// which must check the king's whole transit, not just its final square.
func (p *Position) IsAttackedByEnemy(sq Square) bool {
	occ := p.Occupied()
	if attacks.KnightAttacks(sq)&p.enemyPieces&p.Knights() != BbZero {
		return true
	}
	if attacks.KingAttacks(sq)&BbSquare(p.enemyKing) != BbZero {
		return true
	}
	if attacks.RookAttacks(sq, occ)&p.enemyPieces&p.rookQueens != BbZero {
		return true
	}
	if attacks.BishopAttacks(sq, occ)&p.enemyPieces&p.bishopQueens != BbZero {
		return true
	}
	return attacks.PawnAttacks(sq)&p.enemyPieces&p.Pawns() != BbZero
}

// IsAttackedByOwn is the mirror image of IsAttackedByEnemy, used after a
// speculative Apply to check whether the side that just moved (now "enemy"
// of the returned, mirrored Position) left its own king in check.
func (p *Position) IsAttackedByOwn(sq Square) bool {
	occ := p.Occupied()
	if attacks.KnightAttacks(sq)&p.ownPieces&p.Knights() != BbZero {
		return true
	}
	if attacks.KingAttacks(sq)&BbSquare(p.ownKing) != BbZero {
		return true
	}
	if attacks.RookAttacks(sq, occ)&p.ownPieces&p.rookQueens != BbZero {
		return true
	}
	if attacks.BishopAttacks(sq, occ)&p.ownPieces&p.bishopQueens != BbZero {
		return true
	}
	return attacks.PawnAttackOrigins(sq)&p.ownPieces&p.Pawns() != BbZero
}

// IsInCheck reports whether own's king is currently attacked.
func (p *Position) IsInCheck() bool {
	return p.IsAttackedByEnemy(p.ownKing)
}

// PinnedPieces returns the own pieces absolutely pinned against the own
// king: for each of the eight ray directions from the king, if the first
// piece encountered is own and the next piece beyond it (along the same
// ray) is an enemy slider attacking in that direction, the own piece is
// pinned and may only move along the pin ray.
func (p *Position) PinnedPieces() Bitboard {
	var pinned Bitboard
	occ := p.Occupied()
	rookRay := attacks.RookAttacks(p.ownKing, occ)
	bishopRay := attacks.BishopAttacks(p.ownKing, occ)

	for candidates := (rookRay | bishopRay) & p.ownPieces; candidates != BbZero; {
		var sq Square
		sq, candidates = candidates.PopLsb()
		behind := occ.PopSquare(sq)
		sliders := (attacks.RookAttacks(p.ownKing, behind) &^ rookRay & p.enemyPieces & p.rookQueens) |
			(attacks.BishopAttacks(p.ownKing, behind) &^ bishopRay & p.enemyPieces & p.bishopQueens)
		if sliders != BbZero {
			pinned |= BbSquare(sq)
		}
	}
	return pinned
}

// IsLegalMove reports whether m, assumed pseudo-legal, does not leave own's
// king in check - including the castling-specific rule that the king may
// not be in, pass through, or land in check. It clones the position rather
// than applying and undoing, since Position has no undo.
func (p *Position) IsLegalMove(m Move) bool {
	if p.PieceTypeAt(m.From()) == King && abs(int(m.From().FileOf())-int(m.To().FileOf())) == 2 {
		if p.IsInCheck() {
			return false
		}
		step := m.To()
		mid := SquareOf((m.From().FileOf()+m.To().FileOf())/2, m.From().RankOf())
		if p.IsAttackedByEnemy(mid) || p.IsAttackedByEnemy(step) {
			return false
		}
	}
	clone := p.Clone()
	clone.Apply(m)
	return !clone.IsAttackedByOwn(clone.enemyKing)
}
