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

// The tests live in an external test package: they build test positions via
// internal/position, which itself imports internal/attacks - an in-package
// test file would create an import cycle.
package attacks_test

import (
	"os"
	"path"
	"runtime"
	"testing"
	"time"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	. "github.com/corechess/corechess/internal/attacks"
	"github.com/corechess/corechess/internal/config"
	myLogging "github.com/corechess/corechess/internal/logging"
	"github.com/corechess/corechess/internal/position"
	. "github.com/corechess/corechess/internal/types"
)

var out = message.NewPrinter(language.German)
var logTest *logging.Logger

// make tests run in the projects root directory
func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "../..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}

// Setup the tests
func TestMain(m *testing.M) {
	config.Setup()
	logTest = myLogging.GetTestLog()
	code := m.Run()
	os.Exit(code)
}

func TestKnightAttacks(t *testing.T) {
	assert.EqualValues(t, SqB1.Bb()|SqD1.Bb()|SqA2.Bb()|SqE2.Bb()|SqA4.Bb()|SqE4.Bb()|SqB5.Bb()|SqD5.Bb(),
		KnightAttacks(SqC3))
	assert.EqualValues(t, SqB3.Bb()|SqC2.Bb(), KnightAttacks(SqA1))
}

func TestKingAttacks(t *testing.T) {
	assert.EqualValues(t, SqA1.Bb()|SqC1.Bb()|SqA2.Bb()|SqB2.Bb()|SqC2.Bb(), KingAttacks(SqB1))
	assert.EqualValues(t, SqA2.Bb()|SqB1.Bb()|SqB2.Bb(), KingAttacks(SqA1))
}

func TestPawnAttacks(t *testing.T) {
	// own pawns always attack North by convention
	assert.EqualValues(t, SqC4.Bb()|SqE4.Bb(), PawnAttacks(SqD3))
	assert.EqualValues(t, SqB4.Bb(), PawnAttacks(SqA3))

	// the reverse lookup: which squares would attack sq if an own pawn stood there
	assert.EqualValues(t, SqC2.Bb()|SqE2.Bb(), PawnAttackOrigins(SqD3))
}

func TestSlidingAttacks(t *testing.T) {
	p, err := position.NewPositionFen("r1b1k2r/pppp1ppp/2n2n2/1Bb1p2q/4P3/2NP1N2/1PP2PPP/R1BQK2R w KQkq -")
	assert.NoError(t, err)
	occ := p.Occupied()

	rook := RookAttacks(SqA1, occ)
	assert.True(t, rook.Has(SqB1))
	assert.True(t, rook.Has(SqC1))
	assert.False(t, rook.Has(SqD1))
	assert.True(t, rook.Has(SqA7))
	assert.False(t, rook.Has(SqA8))

	bishop := BishopAttacks(SqB5, occ)
	assert.True(t, bishop.Has(SqC6))
	assert.True(t, bishop.Has(SqA4))
	assert.True(t, bishop.Has(SqC4))
	assert.True(t, bishop.Has(SqA6))

	queen := QueenAttacks(SqD1, occ)
	assert.Equal(t, RookAttacks(SqD1, occ)|BishopAttacks(SqD1, occ), queen)
}

func TestAttacksBbDispatch(t *testing.T) {
	p, err := position.NewPositionFen(position.StartFen)
	assert.NoError(t, err)
	occ := p.Occupied()

	assert.Equal(t, KnightAttacks(SqB1), AttacksBb(Knight, SqB1, occ))
	assert.Equal(t, KingAttacks(SqE1), AttacksBb(King, SqE1, occ))
	assert.Equal(t, PawnAttacks(SqE2), AttacksBb(Pawn, SqE2, occ))
	assert.Equal(t, RookAttacks(SqA1, occ), AttacksBb(Rook, SqA1, occ))
	assert.Equal(t, BishopAttacks(SqC1, occ), AttacksBb(Bishop, SqC1, occ))
	assert.Equal(t, QueenAttacks(SqD1, occ), AttacksBb(Queen, SqD1, occ))
	assert.Equal(t, BbZero, AttacksBb(PtNone, SqD1, occ))
}

func Test_TimingSlidingAttacks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	p, err := position.NewPositionFen("r1b1k2r/pppp1ppp/2n2n2/1Bb1p2q/4P3/2NP1N2/1PP2PPP/R1BQK2R w KQkq -")
	assert.NoError(t, err)
	occ := p.Occupied()

	const rounds = 3
	const iterations uint64 = 1_000_000

	for r := 1; r <= rounds; r++ {
		out.Printf("Round %d\n", r)
		start := time.Now()
		for i := uint64(0); i < iterations; i++ {
			_ = RookAttacks(SqD4, occ) | BishopAttacks(SqD4, occ)
		}
		elapsed := time.Since(start)
		out.Printf("Sliding attacks took %d ns per call\n", elapsed.Nanoseconds()/int64(iterations))
	}
}

func BenchmarkRookAttacks(b *testing.B) {
	p, err := position.NewPositionFen("r1b1k2r/pppp1ppp/2n2n2/1Bb1p2q/4P3/2NP1N2/1PP2PPP/R1BQK2R w KQkq -")
	if err != nil {
		b.Fatal(err)
	}
	occ := p.Occupied()
	for i := 0; i < b.N; i++ {
		_ = RookAttacks(SqD4, occ)
	}
}
