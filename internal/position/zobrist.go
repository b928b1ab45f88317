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
	. "github.com/corechess/corechess/internal/types"
)

// Zobrist keying is built around the same own/enemy symmetry as the board
// itself: zobristPieceSquare is indexed purely by piece type and an
// "own-relative" square, and an enemy piece contributes the value its
// mirror-image own piece would. Mirror() swaps own and enemy and mirrors
// every square, so every piece term maps back onto itself - the piece
// contribution of the key is invariant across Mirror(), and only the side
// key needs to flip. Castling uses the same trick: a single "kingside" key
// and a single "queenside" key are reused for own and enemy, since Mirror()
// only ever swaps which side holds a right, never invents or destroys one.
var zobristPieceSquare [PtLength][SqLength]Key
var zobristCastleKingside Key
var zobristCastleQueenside Key
var zobristEnPassant [8]Key
var zobristSideKey Key

// zobristRng is the xorshift64star stream used to seed the Zobrist tables -
// the same generator family as internal/attacks' magic-number search, kept
// as a small private copy here since the two packages seed independent,
// unrelated streams.
type zobristRng struct{ s uint64 }

func (r *zobristRng) rand64() uint64 {
	r.s ^= r.s >> 12
	r.s ^= r.s << 25
	r.s ^= r.s >> 27
	return r.s * 2685821657736338717
}

// initZobrist fills the random tables once at process start with a single
// seeded PRNG stream so a run is reproducible across restarts.
func initZobrist() {
	rng := &zobristRng{s: 1070372}
	for pt := Pawn; pt < PtLength; pt++ {
		for sq := SqA1; sq < SqLength; sq++ {
			zobristPieceSquare[pt][sq] = Key(rng.rand64())
		}
	}
	zobristCastleKingside = Key(rng.rand64())
	zobristCastleQueenside = Key(rng.rand64())
	for f := FileA; f <= FileH; f++ {
		zobristEnPassant[f] = Key(rng.rand64())
	}
	zobristSideKey = Key(rng.rand64())
}

// castlingKey folds a CastlingRights value into its Zobrist contribution.
func castlingKey(cr CastlingRights) Key {
	var key Key
	if cr.Has(CastleOwnKingside) {
		key ^= zobristCastleKingside
	}
	if cr.Has(CastleEnemyKingside) {
		key ^= zobristCastleKingside
	}
	if cr.Has(CastleOwnQueenside) {
		key ^= zobristCastleQueenside
	}
	if cr.Has(CastleEnemyQueenside) {
		key ^= zobristCastleQueenside
	}
	return key
}

// computeZobristKey recomputes a position's key entirely from scratch - the
// reference computation assertZobrist checks incremental updates against.
func computeZobristKey(p *Position) Key {
	var key Key

	for pt := Pawn; pt <= Queen; pt++ {
		bb := p.pieceBitboard(pt) & p.ownPieces
		for bb != BbZero {
			var sq Square
			sq, bb = bb.PopLsb()
			key ^= zobristPieceSquare[pt][sq]
		}
		bb = p.pieceBitboard(pt) & p.enemyPieces
		for bb != BbZero {
			var sq Square
			sq, bb = bb.PopLsb()
			key ^= zobristPieceSquare[pt][sq.Mirror()]
		}
	}
	key ^= zobristPieceSquare[King][p.ownKing]
	key ^= zobristPieceSquare[King][p.enemyKing.Mirror()]

	key ^= castlingKey(p.castling)

	if epSq := p.EnPassantSquare(); epSq != SqNone {
		key ^= zobristEnPassant[epSq.FileOf()]
	}

	if p.isFlipped {
		key ^= zobristSideKey
	}

	return key
}
