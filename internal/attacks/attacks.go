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

// Package attacks holds the engine's attack tables: magic-bitboard rook and
// bishop lookups plus precomputed knight/king/pawn leaper tables. Every
// query here is stateless and color-agnostic - under the mirrored-perspective
// board convention a "pawn attack" is always the attack of a pawn moving
// North, so the position package (which does know which side is own right
// now) is the only caller that ever needs to reason about color. Keeping
// this package free of any Position dependency also avoids an import cycle,
// since internal/position calls into here to answer IsAttackedByEnemy.
package attacks

import (
	. "github.com/corechess/corechess/internal/types"
)

var (
	knightAttacksTable     [SqLength]Bitboard
	kingAttacksTable       [SqLength]Bitboard
	pawnAttacksTable       [SqLength]Bitboard
	pawnAttackOriginsTable [SqLength]Bitboard

	rookTable    []Bitboard
	bishopTable  []Bitboard
	rookMagics   [64]Magic
	bishopMagics [64]Magic
)

var rookDirections = [4]Direction{North, East, South, West}
var bishopDirections = [4]Direction{Northeast, Southeast, Southwest, Northwest}
var kingDirections = [8]Direction{North, Northeast, East, Southeast, South, Southwest, West, Northwest}

func init() {
	initLeaperTables()
	rookTable = make([]Bitboard, 0x19000)
	bishopTable = make([]Bitboard, 0x1480)
	initMagics(&rookTable, &rookMagics, &rookDirections)
	initMagics(&bishopTable, &bishopMagics, &bishopDirections)
}

func initLeaperTables() {
	knightDeltas := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	for sq := SqA1; sq < SqLength; sq++ {
		f, r := int(sq.FileOf()), int(sq.RankOf())

		var knight Bitboard
		for _, d := range knightDeltas {
			nf, nr := f+d[0], r+d[1]
			if nf >= 0 && nf < FileLength && nr >= 0 && nr < RankLength {
				knight = knight.PushSquare(SquareOf(File(nf), Rank(nr)))
			}
		}
		knightAttacksTable[sq] = knight

		var king Bitboard
		for _, d := range kingDirections {
			if to := sq.To(d); to.IsValid() {
				king = king.PushSquare(to)
			}
		}
		kingAttacksTable[sq] = king

		var pawn Bitboard
		if to := sq.To(Northeast); to.IsValid() {
			pawn = pawn.PushSquare(to)
		}
		if to := sq.To(Northwest); to.IsValid() {
			pawn = pawn.PushSquare(to)
		}
		pawnAttacksTable[sq] = pawn

		var origins Bitboard
		if to := sq.To(Southeast); to.IsValid() {
			origins = origins.PushSquare(to)
		}
		if to := sq.To(Southwest); to.IsValid() {
			origins = origins.PushSquare(to)
		}
		pawnAttackOriginsTable[sq] = origins
	}
}

// PawnAttacks returns the squares a pawn of the mover's own color, standing
// on sq, attacks diagonally. Own pawns always attack North by convention.
func PawnAttacks(sq Square) Bitboard { return pawnAttacksTable[sq] }

// PawnAttackOrigins returns the squares from which an own (North-attacking)
// pawn would attack sq - the reverse lookup used to test whether sq is
// defended/attacked by an own pawn.
func PawnAttackOrigins(sq Square) Bitboard { return pawnAttackOriginsTable[sq] }

// KnightAttacks returns the squares a knight on sq attacks.
func KnightAttacks(sq Square) Bitboard { return knightAttacksTable[sq] }

// KingAttacks returns the squares a king on sq attacks.
func KingAttacks(sq Square) Bitboard { return kingAttacksTable[sq] }

// RookAttacks returns the squares a rook on sq attacks given the full board
// occupancy occ (both colors).
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	m := &rookMagics[sq]
	return m.Attacks[m.index(occ)]
}

// BishopAttacks returns the squares a bishop on sq attacks given occ.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	m := &bishopMagics[sq]
	return m.Attacks[m.index(occ)]
}

// QueenAttacks returns the squares a queen on sq attacks given occ.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// AttacksBb dispatches to the right table/magic lookup for pt. King/Knight
// ignore occ; Pawn ignores occ and always answers in the own-moves-North
// convention - callers checking an enemy pawn's attack must query from the
// target square using the enemy's own perspective (see Position.IsAttackedByEnemy).
func AttacksBb(pt PieceType, sq Square, occ Bitboard) Bitboard {
	switch pt {
	case Pawn:
		return PawnAttacks(sq)
	case Knight:
		return KnightAttacks(sq)
	case Bishop:
		return BishopAttacks(sq, occ)
	case Rook:
		return RookAttacks(sq, occ)
	case Queen:
		return QueenAttacks(sq, occ)
	case King:
		return KingAttacks(sq)
	default:
		return BbZero
	}
}
