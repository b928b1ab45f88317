//
// CoreChess - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 CoreChess Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package evaluator contains structures and functions to calculate
// the value of a chess position to be used in a chess engine search.
package evaluator

import (
	"github.com/corechess/corechess/internal/config"
	"github.com/corechess/corechess/internal/position"
	. "github.com/corechess/corechess/internal/types"
)

// Evaluator is the opaque evaluation interface search depends on - any type
// answering "what is this position worth to the side to move" satisfies it,
// from a naive material count up to a full neural evaluator.
type Evaluator interface {
	Evaluate(p *position.Position) Value
}

// Incremental is the optional second interface an evaluator can satisfy:
// a ply-indexed accumulator stack updated from the piece deltas each move
// made instead of recomputed from scratch at every node. Search feeds it
// by calling CopyToNextAccumulator after every Apply on a child position
// and reads it back through EvaluateAt.
type Incremental interface {
	// InitAccumulator computes the accumulator for ply from scratch -
	// called once at the search root.
	InitAccumulator(ply int, p *position.Position)
	// GetDirtyPiece returns the additions/removals recorded for the move
	// that led to ply.
	GetDirtyPiece(ply int) *DirtyPiece
	// CopyToNextAccumulator derives the accumulator for ply+1 from the
	// one at ply plus the deltas of the move that produced child.
	CopyToNextAccumulator(ply int, child *position.Position)
	// EvaluateAt evaluates p using the accumulator for ply when it is
	// valid, falling back to a from-scratch evaluation otherwise.
	EvaluateAt(p *position.Position, ply int) Value
}

// MaxPlies bounds the accumulator's ply index - far beyond any realistic
// search depth, matching the fixed-size scratch arrays search keeps per ply.
const MaxPlies = 128

// pieceScore holds the tapered material value of each piece type as a
// mid/endgame pair - pawns and rooks gain weight as material comes off the
// board, knights lose some.
var pieceScore = [PtLength]Score{
	Pawn:   {MidGameValue: 100, EndGameValue: 110},
	Knight: {MidGameValue: 320, EndGameValue: 300},
	Bishop: {MidGameValue: 330, EndGameValue: 330},
	Rook:   {MidGameValue: 500, EndGameValue: 520},
	Queen:  {MidGameValue: 900, EndGameValue: 930},
}

// fullGamePhase is the phase weight of the full starting material: four
// minors per side count 1 each, rooks 2, queens 4.
const fullGamePhase = 24

// GamePhaseFactor grades p between opening (1.0, full material) and late
// endgame (0.0, bare kings and pawns) by the officers still on the board.
// Used to blend the mid/endgame halves of a Score, and by search's
// time-control and null-move depth heuristics.
func GamePhaseFactor(p *position.Position) float64 {
	phase := (p.Knights() | p.Bishops()).PopCount() +
		p.Rooks().PopCount()*2 +
		p.Queens().PopCount()*4
	if phase > fullGamePhase {
		phase = fullGamePhase
	}
	return float64(phase) / float64(fullGamePhase)
}

// DirtyPiece is the per-ply record of piece additions/removals a single
// move represents - at most four entries (mover, capture victim, promoted
// piece, castling rook).
type DirtyPiece struct {
	Deltas [4]position.MoveDelta
	Count  int
}

// Accumulator is ply-indexed evaluation scratch kept by the evaluator, not
// by Position: a Position is cloned freely during search, and a snapshot
// stack tied to the current search line must not be dragged along with
// every clone. Each slot holds the tapered material balance of the
// position at that ply (from that position's mover's point of view), the
// Zobrist key it was computed for, and the dirty-piece record of the move
// that led there.
type Accumulator struct {
	balance [MaxPlies]Score
	keys    [MaxPlies]Key
	filled  [MaxPlies]bool
	dirty   [MaxPlies]DirtyPiece
}

// NewAccumulator creates an empty accumulator stack.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Get returns the cached material balance for ply and whether the slot
// holds a value for the position with the given key.
func (a *Accumulator) Get(ply int, key Key) (Score, bool) {
	if ply < 0 || ply >= MaxPlies || !a.filled[ply] || a.keys[ply] != key {
		return Score{}, false
	}
	return a.balance[ply], true
}

// Set records the material balance for the position with the given key at
// ply.
func (a *Accumulator) Set(ply int, key Key, s Score) {
	if ply < 0 || ply >= MaxPlies {
		return
	}
	a.balance[ply] = s
	a.keys[ply] = key
	a.filled[ply] = true
}

// Clear empties the accumulator stack, used between searches.
func (a *Accumulator) Clear() {
	for i := range a.filled {
		a.filled[i] = false
		a.dirty[i] = DirtyPiece{}
	}
}

// MaterialEvaluator is a naive piece-count-times-value evaluator: it adds
// up the tapered value (pieceScore, blended by GamePhaseFactor) of every
// own piece, subtracts the same for enemy pieces, and adds a small tempo
// bonus for the side to move. It
// also satisfies Incremental, keeping the material balance per ply up to
// date from move deltas alone.
type MaterialEvaluator struct {
	acc *Accumulator
}

// NewEvaluator creates the engine's evaluator.
func NewEvaluator() *MaterialEvaluator {
	return &MaterialEvaluator{acc: NewAccumulator()}
}

// Evaluate returns p's value from the side-to-move's point of view: the
// tapered material balance blended by game phase, plus the tempo bonus. An
// insufficient-material draw short-circuits to ValueDraw before any
// material counting happens.
func (e *MaterialEvaluator) Evaluate(p *position.Position) Value {
	if p.HasInsufficientMaterial() {
		return ValueDraw
	}
	var value Value
	if config.Settings.Eval.UseMaterialEval {
		balance := materialBalance(p)
		value = balance.ValueFromScore(GamePhaseFactor(p))
	}
	return value + Value(config.Settings.Eval.Tempo)
}

// InitAccumulator fills the accumulator slot for ply with a from-scratch
// material count of p.
func (e *MaterialEvaluator) InitAccumulator(ply int, p *position.Position) {
	if ply < 0 || ply >= MaxPlies {
		return
	}
	e.acc.Set(ply, p.ZobristKey(), materialBalance(p))
	e.acc.dirty[ply] = DirtyPiece{}
}

// GetDirtyPiece returns the dirty-piece record for the move that led to
// ply, or nil when out of range.
func (e *MaterialEvaluator) GetDirtyPiece(ply int) *DirtyPiece {
	if ply < 0 || ply >= MaxPlies {
		return nil
	}
	return &e.acc.dirty[ply]
}

// CopyToNextAccumulator derives ply+1's accumulator from ply's by applying
// the deltas of the move that produced child. Delta squares live in the
// frame of the side that moved (the mover at ply), so each addition or
// removal adjusts the ply-side balance directly; negating the result gives
// the balance from child's mover's point of view. When the slot for ply has
// never been filled the child is counted from scratch instead; a filled slot
// is used as it is, without comparing its key to child's parent.
func (e *MaterialEvaluator) CopyToNextAccumulator(ply int, child *position.Position) {
	if ply < 0 || ply+1 >= MaxPlies {
		return
	}
	deltas := child.LastMoveDeltas()
	dp := &e.acc.dirty[ply+1]
	dp.Count = copy(dp.Deltas[:], deltas)

	if !e.acc.filled[ply] {
		e.acc.Set(ply+1, child.ZobristKey(), materialBalance(child))
		return
	}
	balance := e.acc.balance[ply]
	for _, d := range deltas {
		if d.Add == d.Own {
			// own piece added or enemy piece removed: the mover gains
			balance.Add(pieceScore[d.Pt])
		} else {
			balance.Sub(pieceScore[d.Pt])
		}
	}
	e.acc.Set(ply+1, child.ZobristKey(), negated(balance))
}

// EvaluateAt is Evaluate backed by the accumulator: when the slot for ply
// matches p the material term comes from the accumulator instead of a
// fresh count. The phase blend always happens here - only the counting is
// cached, since the phase is a property of the position, not of the line
// that led to it.
func (e *MaterialEvaluator) EvaluateAt(p *position.Position, ply int) Value {
	if p.HasInsufficientMaterial() {
		return ValueDraw
	}
	var value Value
	if config.Settings.Eval.UseMaterialEval {
		balance, ok := e.acc.Get(ply, p.ZobristKey())
		if !ok {
			balance = materialBalance(p)
		}
		value = balance.ValueFromScore(GamePhaseFactor(p))
	}
	return value + Value(config.Settings.Eval.Tempo)
}

// materialBalance counts own minus enemy tapered material from scratch.
func materialBalance(p *position.Position) Score {
	var balance Score
	own := p.OwnPieces()
	enemy := p.EnemyPieces()
	addMaterial(&balance, p.Pawns(), own, enemy, Pawn)
	addMaterial(&balance, p.Knights(), own, enemy, Knight)
	addMaterial(&balance, p.Bishops(), own, enemy, Bishop)
	addMaterial(&balance, p.Rooks(), own, enemy, Rook)
	addMaterial(&balance, p.Queens(), own, enemy, Queen)
	return balance
}

// addMaterial folds one piece type's own-minus-enemy count, weighted by
// its tapered score, into balance.
func addMaterial(balance *Score, pieces, own, enemy Bitboard, pt PieceType) {
	diff := (pieces & own).PopCount() - (pieces & enemy).PopCount()
	balance.Add(Score{
		MidGameValue: diff * pieceScore[pt].MidGameValue,
		EndGameValue: diff * pieceScore[pt].EndGameValue,
	})
}

// negated returns the score seen from the other side of the board.
func negated(s Score) Score {
	return Score{MidGameValue: -s.MidGameValue, EndGameValue: -s.EndGameValue}
}
