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
	"strconv"
	"strings"

	. "github.com/corechess/corechess/internal/types"
)

// StringFen renders the position as a complete, six-field FEN string,
// translating own/enemy back into White/Black. Unlike the original this is
// grounded on, every field is emitted - board, side to move, castling
// rights, en-passant square, half-move clock and full-move number.
func (p *Position) StringFen() string {
	var sb strings.Builder
	for r := Rank8; r >= Rank1; r-- {
		empty := 0
		for f := FileA; f <= FileH; f++ {
			// sq is the absolute board square; the internal board is
			// mirrored whenever Black is to move
			sq := SquareOf(f, r)
			isq := sq
			if p.isFlipped {
				isq = sq.Mirror()
			}
			pt := p.PieceTypeAt(isq)
			if pt == PtNone {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			s := pt.String()
			var owner Color
			if p.ownPieces.Has(isq) {
				owner = p.NextPlayer()
			} else {
				owner = p.NextPlayer().Flip()
			}
			if owner == White {
				s = strings.ToUpper(s)
			}
			sb.WriteString(s)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r != Rank1 {
			sb.WriteString("/")
		}
	}

	sb.WriteString(" ")
	if p.isFlipped {
		sb.WriteString("b")
	} else {
		sb.WriteString("w")
	}

	sb.WriteString(" ")
	cr := p.castling
	if p.isFlipped {
		cr = cr.Mirror()
	}
	sb.WriteString(castlingFenString(cr))

	sb.WriteString(" ")
	if epSq := p.fenEnPassantSquare(); epSq != SqNone {
		sb.WriteString(epSq.String())
	} else {
		sb.WriteString("-")
	}

	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(p.halfMoveClock))
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(p.fullMoveNumber))

	return sb.String()
}

// castlingFenString renders castling rights using the absolute White/Black
// letters FEN expects, given rights already un-mirrored to White's view.
func castlingFenString(cr CastlingRights) string {
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
	if s == "" {
		return "-"
	}
	return s
}

// fenEnPassantSquare returns the en-passant target square in absolute
// White/Black board coordinates, undoing the own-relative rank-6 convention
// EnPassantSquare() uses internally.
func (p *Position) fenEnPassantSquare() Square {
	sq := p.EnPassantSquare()
	if sq == SqNone {
		return SqNone
	}
	if p.isFlipped {
		return sq.Mirror()
	}
	return sq
}
