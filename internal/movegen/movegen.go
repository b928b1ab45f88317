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

// Package movegen generates moves for the mover's own side of a Position:
// pseudo-legal moves straight off the bitboards, and legal moves by
// filtering those through Position.IsLegalMove. Pawn moves use the
// branchless shift generation the mirrored-perspective board was designed
// for - own pawns always push North, so there is no per-color branch
// anywhere in this package.
package movegen

import (
	"regexp"
	"strings"

	"github.com/op/go-logging"

	"github.com/corechess/corechess/internal/attacks"
	myLogging "github.com/corechess/corechess/internal/logging"
	"github.com/corechess/corechess/internal/moveslice"
	"github.com/corechess/corechess/internal/position"
	. "github.com/corechess/corechess/internal/types"
)

var log *logging.Logger

func init() {
	log = myLogging.GetLog()
}

// Movegen holds reusable move-list buffers so repeated calls in search's
// hot path do not allocate.
type Movegen struct {
	pseudoLegalMoves *moveslice.MoveSlice
	legalMoves       *moveslice.MoveSlice
}

// NewMoveGen creates a move generator with pre-sized move-list buffers.
func NewMoveGen() *Movegen {
	return &Movegen{
		pseudoLegalMoves: moveslice.NewMoveSlice(128),
		legalMoves:       moveslice.NewMoveSlice(128),
	}
}

// GeneratePseudoLegalMoves fills and returns the pseudo-legal move list for
// own to move: every geometrically valid move, without checking whether it
// leaves own's king in check.
func (mg *Movegen) GeneratePseudoLegalMoves(p *position.Position) *moveslice.MoveSlice {
	mg.pseudoLegalMoves.Clear()
	generatePawnMoves(p, mg.pseudoLegalMoves)
	generatePieceMoves(p, Knight, mg.pseudoLegalMoves)
	generatePieceMoves(p, Bishop, mg.pseudoLegalMoves)
	generatePieceMoves(p, Rook, mg.pseudoLegalMoves)
	generatePieceMoves(p, Queen, mg.pseudoLegalMoves)
	generateKingMoves(p, mg.pseudoLegalMoves)
	return mg.pseudoLegalMoves
}

// GenerateLegalMoves returns only the moves that do not leave own's king in
// check, including the castling-through-check rule.
func (mg *Movegen) GenerateLegalMoves(p *position.Position) *moveslice.MoveSlice {
	mg.GeneratePseudoLegalMoves(p)
	mg.legalMoves.Clear()
	inCheck := p.IsInCheck()
	pins := p.PinnedPieces()
	for i := 0; i < mg.pseudoLegalMoves.Len(); i++ {
		m := mg.pseudoLegalMoves.At(i)
		if legalMove(p, m, inCheck, pins) {
			mg.legalMoves.PushBack(m)
		}
	}
	return mg.legalMoves
}

// HasLegalMove reports whether own has at least one legal move, without
// building the full list - used by search to detect checkmate/stalemate
// cheaply once a position is otherwise quiescent.
func (mg *Movegen) HasLegalMove(p *position.Position) bool {
	mg.GeneratePseudoLegalMoves(p)
	inCheck := p.IsInCheck()
	pins := p.PinnedPieces()
	for i := 0; i < mg.pseudoLegalMoves.Len(); i++ {
		if legalMove(p, mg.pseudoLegalMoves.At(i), inCheck, pins) {
			return true
		}
	}
	return false
}

// legalMove accepts or rejects a pseudo-legal move without the full
// try-move test where the pin set already answers the question: a
// non-pinned, non-king piece cannot expose the king when not in check, and
// a pinned piece is legal exactly when it stays on the king-pinner line.
// King moves (castling included), en-passant captures and everything while
// in check keep the try-move test - those can expose the king in ways the
// pin set does not describe.
func legalMove(p *position.Position, m Move, inCheck bool, pins Bitboard) bool {
	from, to := m.From(), m.To()
	pt := p.PieceTypeAt(from)
	if inCheck || pt == King || (pt == Pawn && to == p.EnPassantSquare()) {
		return p.IsLegalMove(m)
	}
	if pins.Has(from) {
		return colinear(from, to, p.OwnKing())
	}
	return true
}

// colinear reports whether from, to and king lie on one line - the cross
// product of (from-king) and (to-king) is zero.
func colinear(from, to, king Square) bool {
	f1 := int(from.FileOf()) - int(king.FileOf())
	r1 := int(from.RankOf()) - int(king.RankOf())
	f2 := int(to.FileOf()) - int(king.FileOf())
	r2 := int(to.RankOf()) - int(king.RankOf())
	return f1*r2 == r1*f2
}

var promotionPieces = [4]PieceType{Queen, Rook, Bishop, Knight}

func generatePawnMoves(p *position.Position, moves *moveslice.MoveSlice) {
	pawns := p.Pawns() & p.OwnPieces()
	occupied := p.Occupied()

	addPawnTargets := func(targets Bitboard, dir Direction) {
		for targets != BbZero {
			var to Square
			to, targets = targets.PopLsb()
			from := to.To(-dir)
			if to.RankOf() == Rank8 {
				for _, promo := range promotionPieces {
					moves.PushBack(NewMove(from, to, promo))
				}
				continue
			}
			moves.PushBack(NewMove(from, to, PtNone))
		}
	}

	singlePush := pawns.Shift(North) &^ occupied
	addPawnTargets(singlePush, North)

	doublePush := (pawns & Rank2Bb).Shift(North) &^ occupied
	doublePush = doublePush.Shift(North) &^ occupied
	addPawnTargets(doublePush, North+North)

	enemy := p.EnemyPieces()
	epSq := p.EnPassantSquare()
	var epTarget Bitboard
	if epSq != SqNone {
		epTarget = BbSquare(epSq)
	}

	addPawnTargets(pawns.Shift(Northeast)&(enemy|epTarget), Northeast)
	addPawnTargets(pawns.Shift(Northwest)&(enemy|epTarget), Northwest)
}

func generatePieceMoves(p *position.Position, pt PieceType, moves *moveslice.MoveSlice) {
	occupied := p.Occupied()
	own := p.OwnPieces()

	var pieces Bitboard
	switch pt {
	case Knight:
		pieces = p.Knights() & own
	case Bishop:
		pieces = p.Bishops() & own
	case Rook:
		pieces = p.Rooks() & own
	case Queen:
		pieces = p.Queens() & own
	}

	for pieces != BbZero {
		var from Square
		from, pieces = pieces.PopLsb()
		targets := pieceAttacks(pt, from, occupied) &^ own
		for targets != BbZero {
			var to Square
			to, targets = targets.PopLsb()
			moves.PushBack(NewMove(from, to, PtNone))
		}
	}
}

func generateKingMoves(p *position.Position, moves *moveslice.MoveSlice) {
	from := p.OwnKing()
	own := p.OwnPieces()
	targets := kingAttacksOf(from) &^ own
	for targets != BbZero {
		var to Square
		to, targets = targets.PopLsb()
		moves.PushBack(NewMove(from, to, PtNone))
	}

	if from != SqE1 {
		return
	}
	occupied := p.Occupied()
	cr := p.CastlingRights()
	if cr.Has(CastleOwnKingside) &&
		occupied&(BbSquare(SqF1)|BbSquare(SqG1)) == BbZero {
		moves.PushBack(NewMove(from, SqG1, PtNone))
	}
	if cr.Has(CastleOwnQueenside) &&
		occupied&(BbSquare(SqB1)|BbSquare(SqC1)|BbSquare(SqD1)) == BbZero {
		moves.PushBack(NewMove(from, SqC1, PtNone))
	}
}

func pieceAttacks(pt PieceType, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Knight:
		return attacks.KnightAttacks(sq)
	case Bishop:
		return attacks.BishopAttacks(sq, occupied)
	case Rook:
		return attacks.RookAttacks(sq, occupied)
	case Queen:
		return attacks.QueenAttacks(sq, occupied)
	default:
		return BbZero
	}
}

func kingAttacksOf(sq Square) Bitboard {
	return attacks.KingAttacks(sq)
}

var regexSanMove = regexp.MustCompile(`([NBRQK])?([a-h])?([1-8])?x?([a-h][1-8]|O-O-O|O-O)(=?([NBRQ]))?([!?+#]*)?`)

// GetMoveFromSan generates all legal moves for p and matches the given SAN
// move string (e.g. "Nf3", "exd5", "a1=Q", "O-O") against them, returning
// the single matching Move in p's own/enemy perspective, or MoveNone if
// none or more than one legal move matches.
//
// SAN squares are always given in absolute board coordinates, while
// generated moves live in p's own perspective, mirrored whenever
// p.IsFlipped(). Mirror only ever flips rank, not file, so file
// disambiguation and castling side (kingside/queenside is a file
// distinction) can be read directly off the own-perspective move; only the
// destination square and rank disambiguation need mirroring before they are
// compared against the SAN text.
func (mg *Movegen) GetMoveFromSan(p *position.Position, sanMove string) Move {
	matches := regexSanMove.FindStringSubmatch(sanMove)
	if matches == nil {
		return MoveNone
	}
	pieceLetter := matches[1]
	disambFile := matches[2]
	disambRank := matches[3]
	toPart := matches[4]
	promoLetter := matches[6]

	found := MoveNone
	count := 0

	for _, genMove := range *mg.GenerateLegalMoves(p) {
		if genMove.From() == p.OwnKing() {
			fileDiff := int(genMove.To().FileOf()) - int(genMove.From().FileOf())
			if fileDiff == 2 || fileDiff == -2 {
				castling := "O-O"
				if fileDiff < 0 {
					castling = "O-O-O"
				}
				if castling == toPart {
					found = genMove
					count++
				}
				continue
			}
		}
		if toPart == "O-O" || toPart == "O-O-O" {
			continue
		}

		absFrom := genMove.From()
		absTo := genMove.To()
		if p.IsFlipped() {
			absFrom = absFrom.Mirror()
			absTo = absTo.Mirror()
		}

		if absTo.String() != toPart {
			continue
		}

		pt := p.PieceTypeAt(genMove.From())
		if pt == Pawn {
			if len(pieceLetter) != 0 {
				continue
			}
		} else if pieceLetter != strings.ToUpper(pt.String()) {
			continue
		}

		if len(disambFile) != 0 && absFrom.FileOf().String() != disambFile {
			continue
		}
		if len(disambRank) != 0 && absFrom.RankOf().String() != disambRank {
			continue
		}

		if len(promoLetter) != 0 {
			if strings.ToUpper(genMove.Promotion().String()) != promoLetter {
				continue
			}
		} else if genMove.IsPromotion() {
			continue
		}

		found = genMove
		count++
	}

	if count == 1 {
		return found
	}
	if count > 1 {
		log.Warningf("SAN move %s is ambiguous (%d matches) on %s", sanMove, count, p.StringFen())
	}
	return MoveNone
}
