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
	"github.com/corechess/corechess/internal/assert"
	. "github.com/corechess/corechess/internal/types"
)

// Apply plays m as own's move and leaves the Position ready for the
// opponent: it updates every bitboard incrementally, maintains the Zobrist
// key alongside them, and finishes by mirroring the whole board so the
// caller always sees an own-to-move position afterwards. m is assumed
// pseudo-legal - callers that need a legality check should use IsLegalMove
// first (typically via Clone, since Apply does not support undo).
func (p *Position) Apply(m Move) {
	from, to := m.From(), m.To()
	pt := p.PieceTypeAt(from)
	key := p.zobristKey
	p.deltaCount = 0

	if assert.DEBUG {
		assert.Assert(pt != PtNone, "apply: no piece on from square %s", from.String())
		assert.Assert(p.ownPieces.Has(from), "apply: from square %s holds no own piece", from.String())
	}

	// Step 1: retire any en-passant marker left over from the previous ply.
	oldEp := p.EnPassantSquare()
	if oldEp != SqNone {
		key ^= zobristEnPassant[oldEp.FileOf()]
	}
	p.pawnsEnPassant &^= Rank1Bb

	// Step 2: identify a capture, direct or en passant.
	epCapture := pt == Pawn && to == oldEp
	captured := PtNone
	capSq := to
	if p.enemyPieces.Has(to) {
		captured = p.PieceTypeAt(to)
	} else if epCapture {
		captured = Pawn
		capSq = SquareOf(to.FileOf(), Rank5)
	}
	progressMade := pt == Pawn || captured != PtNone

	// Step 3: lift the moving piece off `from`.
	p.pushDelta(pt, from, true, false)
	key ^= zobristPieceSquare[pt][from]
	p.ownPieces = p.ownPieces.PopSquare(from)
	switch pt {
	case Pawn:
		p.pawnsEnPassant = p.pawnsEnPassant.PopSquare(from)
	case Rook:
		p.rookQueens = p.rookQueens.PopSquare(from)
	case Bishop:
		p.bishopQueens = p.bishopQueens.PopSquare(from)
	case Queen:
		p.rookQueens = p.rookQueens.PopSquare(from)
		p.bishopQueens = p.bishopQueens.PopSquare(from)
	}

	// Step 4: remove a captured piece and any castling right it carried.
	if captured != PtNone {
		if assert.DEBUG {
			assert.Assert(captured != King, "apply: king capture on %s", capSq.String())
		}
		p.pushDelta(captured, capSq, false, false)
		key ^= zobristPieceSquare[captured][capSq.Mirror()]
		p.enemyPieces = p.enemyPieces.PopSquare(capSq)
		switch captured {
		case Pawn:
			p.pawnsEnPassant = p.pawnsEnPassant.PopSquare(capSq)
		case Rook:
			p.rookQueens = p.rookQueens.PopSquare(capSq)
			if capSq == SqA8 && p.castling.Has(CastleEnemyQueenside) {
				key ^= castlingKey(p.castling)
				p.castling = p.castling.Clear(CastleEnemyQueenside)
				key ^= castlingKey(p.castling)
			} else if capSq == SqH8 && p.castling.Has(CastleEnemyKingside) {
				key ^= castlingKey(p.castling)
				p.castling = p.castling.Clear(CastleEnemyKingside)
				key ^= castlingKey(p.castling)
			}
		case Bishop:
			p.bishopQueens = p.bishopQueens.PopSquare(capSq)
		case Queen:
			p.rookQueens = p.rookQueens.PopSquare(capSq)
			p.bishopQueens = p.bishopQueens.PopSquare(capSq)
		}
	}

	// Step 5: king moves give up both own castling rights; a castling move
	// also relocates the rook. Step 6: a rook moving off its home square
	// gives up the matching right.
	isCastle := pt == King && abs(int(from.FileOf())-int(to.FileOf())) == 2
	if isCastle {
		var rookFrom, rookTo Square
		if to.FileOf() == FileG {
			rookFrom, rookTo = SqH1, SqF1
		} else {
			rookFrom, rookTo = SqA1, SqD1
		}
		p.pushDelta(Rook, rookFrom, true, false)
		p.pushDelta(Rook, rookTo, true, true)
		key ^= zobristPieceSquare[Rook][rookFrom]
		p.ownPieces = p.ownPieces.PopSquare(rookFrom).PushSquare(rookTo)
		p.rookQueens = p.rookQueens.PopSquare(rookFrom).PushSquare(rookTo)
		key ^= zobristPieceSquare[Rook][rookTo]
	}
	if pt == King {
		p.ownKing = to
		if p.castling&(CastleOwnKingside|CastleOwnQueenside) != CastleNone {
			key ^= castlingKey(p.castling)
			p.castling = p.castling.Clear(CastleOwnKingside | CastleOwnQueenside)
			key ^= castlingKey(p.castling)
		}
	} else if pt == Rook {
		if from == SqA1 && p.castling.Has(CastleOwnQueenside) {
			key ^= castlingKey(p.castling)
			p.castling = p.castling.Clear(CastleOwnQueenside)
			key ^= castlingKey(p.castling)
		} else if from == SqH1 && p.castling.Has(CastleOwnKingside) {
			key ^= castlingKey(p.castling)
			p.castling = p.castling.Clear(CastleOwnKingside)
			key ^= castlingKey(p.castling)
		}
	}

	// Step 7: write the moving (or promoted) piece onto `to`.
	promo := m.Promotion()
	destPt := pt
	if pt == Pawn && promo != PtNone {
		destPt = promo
	}
	p.pushDelta(destPt, to, true, true)
	p.ownPieces = p.ownPieces.PushSquare(to)
	switch destPt {
	case Pawn:
		p.pawnsEnPassant = p.pawnsEnPassant.PushSquare(to)
	case Rook:
		p.rookQueens = p.rookQueens.PushSquare(to)
	case Bishop:
		p.bishopQueens = p.bishopQueens.PushSquare(to)
	case Queen:
		p.rookQueens = p.rookQueens.PushSquare(to)
		p.bishopQueens = p.bishopQueens.PushSquare(to)
	}
	key ^= zobristPieceSquare[destPt][to]

	// Step 8: a double pawn push plants a fresh en-passant marker on own's
	// rank 8 - Mirror() below flips rank index r to 7-r, turning that into
	// rank 1 of the new own, which is exactly where EnPassantSquare()
	// expects to find it at rest.
	if pt == Pawn && promo == PtNone {
		if d := int(to.RankOf()) - int(from.RankOf()); d == 2 || d == -2 {
			p.pawnsEnPassant = p.pawnsEnPassant.PushSquare(SquareOf(from.FileOf(), Rank8))
			key ^= zobristEnPassant[from.FileOf()]
		}
	}

	// Step 9-10: move counters.
	if progressMade {
		p.halfMoveClock = 0
	} else {
		p.halfMoveClock++
	}
	if p.isFlipped {
		p.fullMoveNumber++
	}
	p.ply++

	// Step 11: commit the key and hand the position to the opponent.
	p.zobristKey = key
	p.Mirror()

	// Step 12: record history for repetition detection and sanity-check the
	// incremental key against a from-scratch computation in debug builds.
	p.pushHistory(progressMade)
	if assert.DEBUG {
		p.assertZobrist()
	}
}

// NullMove passes the turn without moving a piece - used by search's
// null-move pruning. The en-passant marker cannot survive a skipped turn,
// same as in Apply.
func (p *Position) NullMove() {
	p.deltaCount = 0
	if oldEp := p.EnPassantSquare(); oldEp != SqNone {
		p.zobristKey ^= zobristEnPassant[oldEp.FileOf()]
		p.pawnsEnPassant &^= Rank1Bb
	}
	p.halfMoveClock++
	if p.isFlipped {
		p.fullMoveNumber++
	}
	p.ply++
	p.Mirror()
	p.pushHistory(false)
}

func (p *Position) pushDelta(pt PieceType, sq Square, own bool, add bool) {
	p.deltas[p.deltaCount] = MoveDelta{Pt: pt, Sq: sq, Own: own, Add: add}
	p.deltaCount++
}

func (p *Position) pushHistory(progressMade bool) {
	if p.historyCount >= MaxGameLength {
		return
	}
	p.history[p.historyCount] = historyEntry{
		key:          p.zobristKey,
		progressMade: progressMade,
	}
	p.historyCount++
}
