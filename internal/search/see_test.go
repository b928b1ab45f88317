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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corechess/corechess/internal/position"
	. "github.com/corechess/corechess/internal/types"
)

func TestSeeFreeCapture(t *testing.T) {
	p, err := position.NewPositionFen("4k3/8/8/3p4/4P3/8/8/4K3 w - -")
	assert.NoError(t, err)
	move := NewMove(SqE4, SqD5, PtNone)
	assert.EqualValues(t, Pawn.Value(), see(p, move))
}

func TestSeeEvenPawnTrade(t *testing.T) {
	p, err := position.NewPositionFen("4k3/8/2p5/3p4/4P3/8/8/4K3 w - -")
	assert.NoError(t, err)
	move := NewMove(SqE4, SqD5, PtNone)
	assert.EqualValues(t, 0, see(p, move))
}

func TestSeeLosingExchange(t *testing.T) {
	p, err := position.NewPositionFen("4k3/8/4p3/3p4/8/8/8/3RK3 w - -")
	assert.NoError(t, err)
	move := NewMove(SqD1, SqD5, PtNone)
	assert.EqualValues(t, Pawn.Value()-Rook.Value(), see(p, move))
}

func TestAttackersTo(t *testing.T) {
	p, err := position.NewPositionFen("4k3/8/4p3/3p4/8/8/8/3RK3 w - -")
	assert.NoError(t, err)
	att := attackersTo(p, SqD5, p.Occupied())
	assert.True(t, att.Has(SqD1))
	assert.True(t, att.Has(SqE6))
	assert.False(t, att.Has(SqE1))
}

func TestLeastValuableAttacker(t *testing.T) {
	p, err := position.NewPositionFen("4k3/8/4p3/3p4/8/8/8/3RK3 w - -")
	assert.NoError(t, err)
	att := attackersTo(p, SqD5, p.Occupied())
	lva := leastValuableAttacker(p, att&p.EnemyPieces())
	assert.Equal(t, SqE6, lva)
	lva = leastValuableAttacker(p, att&p.OwnPieces())
	assert.Equal(t, SqD1, lva)
	assert.Equal(t, SqNone, leastValuableAttacker(p, BbZero))
}
