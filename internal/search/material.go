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
	"github.com/corechess/corechess/internal/evaluator"
	"github.com/corechess/corechess/internal/position"
	. "github.com/corechess/corechess/internal/types"
)

// ownMaterial sums the centipawn value of all pieces own currently has on
// the board, pawns included.
func ownMaterial(p *position.Position) Value {
	own := p.OwnPieces()
	return materialOf(p.Pawns()&own, Pawn) +
		materialOf(p.Knights()&own, Knight) +
		materialOf(p.Bishops()&own, Bishop) +
		materialOf(p.Rooks()&own, Rook) +
		materialOf(p.Queens()&own, Queen)
}

// enemyMaterial is ownMaterial for the other side.
func enemyMaterial(p *position.Position) Value {
	enemy := p.EnemyPieces()
	return materialOf(p.Pawns()&enemy, Pawn) +
		materialOf(p.Knights()&enemy, Knight) +
		materialOf(p.Bishops()&enemy, Bishop) +
		materialOf(p.Rooks()&enemy, Rook) +
		materialOf(p.Queens()&enemy, Queen)
}

// ownNonPawnMaterial is used by null move pruning to detect late endgame
// positions (king and pawns only) where null move is unsafe due to
// zugzwang.
func ownNonPawnMaterial(p *position.Position) Value {
	own := p.OwnPieces()
	return materialOf(p.Knights()&own, Knight) +
		materialOf(p.Bishops()&own, Bishop) +
		materialOf(p.Rooks()&own, Rook) +
		materialOf(p.Queens()&own, Queen)
}

func materialOf(pieces Bitboard, pt PieceType) Value {
	return Value(pieces.PopCount()) * pt.Value()
}

// gamePhaseFactor returns 1.0 for a position with a full set of minor and
// major pieces still on the board, trending towards 0.0 as they come off -
// used to scale the assumed number of moves left in a game and to soften
// null move pruning in the endgame. Delegates to the evaluator's
// definition so search heuristics and the tapered evaluation grade the
// game phase identically.
func gamePhaseFactor(p *position.Position) float64 {
	return evaluator.GamePhaseFactor(p)
}
