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

package evaluator

import (
	"os"
	"path"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corechess/corechess/internal/config"
	"github.com/corechess/corechess/internal/position"
	. "github.com/corechess/corechess/internal/types"
)

// make tests run in the projects root directory
func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "../..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}

func TestMain(m *testing.M) {
	config.Setup()
	code := m.Run()
	os.Exit(code)
}

func TestMaterialEvaluatorStartPosition(t *testing.T) {
	p, err := position.NewPositionFen(position.StartFen)
	assert.NoError(t, err)
	e := NewEvaluator()
	assert.Equal(t, Value(config.Settings.Eval.Tempo), e.Evaluate(p))
}

func TestMaterialEvaluatorMaterialDelta(t *testing.T) {
	// white is up a rook - the rook's tapered score blended at the
	// position's game phase, plus tempo
	p, err := position.NewPositionFen("4k3/8/8/8/8/8/8/R3K3 w - -")
	assert.NoError(t, err)
	e := NewEvaluator()
	balance := pieceScore[Rook]
	want := balance.ValueFromScore(GamePhaseFactor(p)) + Value(config.Settings.Eval.Tempo)
	assert.Equal(t, want, e.Evaluate(p))

	// same position, black to move - material term flips sign, tempo doesn't
	p, err = position.NewPositionFen("4k3/8/8/8/8/8/8/R3K3 b - -")
	assert.NoError(t, err)
	balance = negated(pieceScore[Rook])
	want = balance.ValueFromScore(GamePhaseFactor(p)) + Value(config.Settings.Eval.Tempo)
	assert.Equal(t, want, e.Evaluate(p))
}

func TestGamePhaseFactor(t *testing.T) {
	p, err := position.NewPositionFen(position.StartFen)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, GamePhaseFactor(p))

	// kings and pawns only - deepest endgame
	p, err = position.NewPositionFen("4k3/4p3/8/8/8/8/4P3/4K3 w - -")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, GamePhaseFactor(p))
}

func TestMaterialEvaluatorInsufficientMaterial(t *testing.T) {
	p, err := position.NewPositionFen("8/3k4/8/8/8/8/4K3/8 w - -")
	assert.NoError(t, err)
	e := NewEvaluator()
	assert.Equal(t, ValueDraw, e.Evaluate(p))
}

func TestAccumulator(t *testing.T) {
	a := NewAccumulator()
	if _, ok := a.Get(3, Key(1)); ok {
		t.Fatal("expected empty accumulator to report no cached value")
	}
	a.Set(3, Key(1), Score{MidGameValue: 42, EndGameValue: 21})
	s, ok := a.Get(3, Key(1))
	assert.True(t, ok)
	assert.Equal(t, Score{MidGameValue: 42, EndGameValue: 21}, s)

	// a slot only answers for the key it was stored under
	_, ok = a.Get(3, Key(2))
	assert.False(t, ok)

	a.Clear()
	_, ok = a.Get(3, Key(1))
	assert.False(t, ok)
}

func TestIncrementalAccumulatorMatchesScratch(t *testing.T) {
	e := NewEvaluator()
	p, err := position.NewPositionFen(position.StartFen)
	assert.NoError(t, err)

	e.InitAccumulator(0, p)

	// walk a short line containing a capture and check the incrementally
	// maintained balance agrees with a from-scratch evaluation at each ply
	mg := []string{"e2e4", "d7d5", "e4d5", "d8d5"}
	current := p
	for ply, uci := range mg {
		from, _ := SquareFromString(uci[:2])
		to, _ := SquareFromString(uci[2:4])
		m := NewMove(from, to, PtNone)
		if current.IsFlipped() {
			m = m.Mirror()
		}
		child := current.Clone()
		child.Apply(m)
		e.CopyToNextAccumulator(ply, child)

		assert.Equal(t, e.Evaluate(child), e.EvaluateAt(child, ply+1),
			"incremental and scratch evaluation diverged after %s", uci)

		dp := e.GetDirtyPiece(ply + 1)
		assert.NotNil(t, dp)
		assert.True(t, dp.Count >= 2)

		current = child
	}
}
