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

package search

import (
	"github.com/corechess/corechess/internal/attacks"
	"github.com/corechess/corechess/internal/position"
	. "github.com/corechess/corechess/internal/types"
)

// see computes the Static Exchange Evaluation of a capture: the net material
// gain for own after all profitable recaptures on move.To() have played out.
// Works directly off own/enemy bitboards rather than making any moves - the
// exchange is simulated by shrinking an occupancy bitboard and re-deriving
// attackers to the target square after every capture, alternating the side
// to move between own and enemy.
func see(p *position.Position, move Move) Value {
	toSquare := move.To()
	fromSquare := move.From()

	// en-passant captures are rare and always at least break even - treat as
	// a small fixed gain rather than modelling the vacated capture square.
	if move.To() == p.EnPassantSquare() && p.Pawns().Has(move.From()) && p.PieceTypeAt(move.From()) == Pawn {
		return 100
	}

	var gain [32]Value
	ply := 0
	movedPieceType := p.PieceTypeAt(fromSquare)
	occupied := p.Occupied()

	gain[ply] = p.PieceTypeAt(toSquare).Value()

	ownToMove := false // the side moving next into the exchange is the enemy of the original mover
	for {
		ply++

		if move.IsPromotion() && ply == 1 {
			gain[ply] = move.Promotion().Value() - Pawn.Value() - gain[ply-1]
		} else {
			gain[ply] = movedPieceType.Value() - gain[ply-1]
		}

		// pruning: if neither side benefits from continuing this recapture
		// chain the final score will not change.
		if max(-gain[ply-1], gain[ply]) < 0 {
			break
		}

		occupied = occupied.PopSquare(fromSquare)

		attackers := attackersTo(p, toSquare, occupied)
		var sideAttackers Bitboard
		if ownToMove {
			sideAttackers = attackers & p.OwnPieces()
		} else {
			sideAttackers = attackers & p.EnemyPieces()
		}

		fromSquare = leastValuableAttacker(p, sideAttackers)
		if fromSquare == SqNone {
			break
		}
		movedPieceType = p.PieceTypeAt(fromSquare)
		ownToMove = !ownToMove
	}

	ply--
	for ply > 0 {
		gain[ply-1] = -max(-gain[ply-1], gain[ply])
		ply--
	}

	return gain[0]
}

// attackersTo returns every piece (own and enemy) attacking sq given the
// occupancy occ, which may be a shrunk copy of the real board occupancy used
// to reveal x-ray attacks during a simulated exchange.
func attackersTo(p *position.Position, sq Square, occ Bitboard) Bitboard {
	var att Bitboard
	att |= attacks.PawnAttackOrigins(sq) & p.Pawns() & p.OwnPieces() & occ
	att |= attacks.PawnAttacks(sq) & p.Pawns() & p.EnemyPieces() & occ
	att |= attacks.KnightAttacks(sq) & p.Knights() & occ
	att |= attacks.KingAttacks(sq) & (BbSquare(p.OwnKing()) | BbSquare(p.EnemyKing())) & occ
	att |= attacks.RookAttacks(sq, occ) & p.RookQueens() & occ
	att |= attacks.BishopAttacks(sq, occ) & p.BishopQueens() & occ
	return att
}

// leastValuableAttacker returns the square of the cheapest piece among
// attackers, which the exchange simulation must use next.
func leastValuableAttacker(p *position.Position, attackers Bitboard) Square {
	switch {
	case attackers&p.Pawns() != BbZero:
		return (attackers & p.Pawns()).Lsb()
	case attackers&p.Knights() != BbZero:
		return (attackers & p.Knights()).Lsb()
	case attackers&p.Bishops() != BbZero:
		return (attackers & p.Bishops()).Lsb()
	case attackers&p.Rooks() != BbZero:
		return (attackers & p.Rooks()).Lsb()
	case attackers&p.Queens() != BbZero:
		return (attackers & p.Queens()).Lsb()
	default:
		kingBb := BbSquare(p.OwnKing()) | BbSquare(p.EnemyKing())
		if attackers&kingBb != BbZero {
			return (attackers & kingBb).Lsb()
		}
		return SqNone
	}
}

func max(x, y Value) Value {
	if x > y {
		return x
	}
	return y
}
