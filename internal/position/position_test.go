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
	"os"
	"path"
	"runtime"
	"testing"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/corechess/corechess/internal/config"
	myLogging "github.com/corechess/corechess/internal/logging"
	. "github.com/corechess/corechess/internal/types"

	"github.com/stretchr/testify/assert"
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

func TestPositionCreation(t *testing.T) {

	fen := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	p, err := NewPositionFen(fen)
	assert.NoError(t, err)
	assert.Equal(t, SqA1.Bb()|SqH1.Bb()|SqA8.Bb()|SqH8.Bb(), p.Rooks())
	assert.Equal(t, SqB1.Bb()|SqG1.Bb()|SqB8.Bb()|SqG8.Bb(), p.Knights())
	assert.Equal(t, SqC1.Bb()|SqF1.Bb()|SqC8.Bb()|SqF8.Bb(), p.Bishops())
	assert.Equal(t, SqD1.Bb()|SqD8.Bb(), p.Queens())
	assert.Equal(t, Rank2Bb|Rank7Bb, p.Pawns())
	assert.False(t, p.IsFlipped())
	assert.Equal(t, CastleOwnKingside|CastleOwnQueenside|CastleEnemyKingside|CastleEnemyQueenside, p.CastlingRights())
	assert.Equal(t, SqNone, p.EnPassantSquare())
	assert.Equal(t, 0, p.HalfMoveClock())
	assert.Equal(t, 1, p.FullMoveNumber())
	assert.Equal(t, fen, p.StringFen())

	fen = "r3k2r/1ppn3p/2q1q1n1/4P3/2q1Pp2/6R1/pbp2PPP/1R4K1 b kq e3 0 14"
	p, err = NewPositionFen(fen)
	assert.NoError(t, err)
	assert.True(t, p.IsFlipped())
	assert.Equal(t, CastleOwnKingside|CastleOwnQueenside, p.CastlingRights())
	assert.Equal(t, SqE3, p.fenEnPassantSquare())
	assert.Equal(t, 0, p.HalfMoveClock())
	assert.Equal(t, 14, p.FullMoveNumber())
	assert.Equal(t, fen, p.StringFen())
}

func TestPositionEquality(t *testing.T) {

	p1 := NewPosition()
	p2, err := NewPositionFen(StartFen)
	assert.NoError(t, err)
	assert.Equal(t, p1, p2)

	p3, err := NewPositionFen("r3k2r/1ppn3p/2q1q1n1/4P3/2q1Pp2/6R1/pbp2PPP/1R4K1 b kq e3 0 14")
	assert.NoError(t, err)
	assert.NotEqual(t, p1, p3)

	clone := p2.Clone()
	assert.Equal(t, *p1, *clone)
}

func TestPositionMirrorInvolution(t *testing.T) {
	fens := []string{
		StartFen,
		"r3k2r/1ppn3p/2q1q1n1/4P3/2q1Pp2/6R1/pbp2PPP/1R4K1 b kq e3 0 14",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	}
	for _, fen := range fens {
		p, err := NewPositionFen(fen)
		assert.NoError(t, err)
		before := *p
		p.Mirror()
		p.Mirror()
		assert.Equal(t, before, *p)
	}
}

func TestPosition_ApplyMove(t *testing.T) {

	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq e3 0 1"
	p, err := NewPositionFen(fen)
	assert.NoError(t, err)

	// c4d4 in absolute coordinates - Black to move, so the internal
	// (mirrored) move is c5d5
	move := NewMove(SqC4, SqD4, PtNone).Mirror()
	p.Apply(move)
	assert.Equal(t, "r3k2r/1ppn3p/2q1q1n1/8/3qPp2/B5R1/p1p2PPP/1R4K1 w kq - 1 2", p.StringFen())
}

func TestPosition_ApplyCastling(t *testing.T) {

	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq -"
	p, err := NewPositionFen(fen)
	assert.NoError(t, err)
	// Black castles kingside: e8g8 in absolute coordinates is the
	// internal own-frame king move e1g1
	move := NewMove(SqE8, SqG8, PtNone).Mirror()
	p.Apply(move)
	assert.Equal(t, "r4rk1/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 w - - 1 2", p.StringFen())

	p, err = NewPositionFen(fen)
	assert.NoError(t, err)
	move = NewMove(SqE8, SqC8, PtNone).Mirror()
	p.Apply(move)
	assert.Equal(t, "2kr3r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 w - - 1 2", p.StringFen())
}

func TestPosition_ApplyEnPassant(t *testing.T) {

	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq e3"
	p, err := NewPositionFen(fen)
	assert.NoError(t, err)
	// the en-passant capture f4e3 is the internal pawn move f5e6
	move := NewMove(SqF4, SqE3, PtNone).Mirror()
	p.Apply(move)
	assert.Equal(t, "r3k2r/1ppn3p/2q1q1n1/8/2q5/B3p1R1/p1p2PPP/1R4K1 w kq - 0 2", p.StringFen())
}

func TestPosition_ApplyPromotion(t *testing.T) {

	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq e3"
	p, err := NewPositionFen(fen)
	assert.NoError(t, err)
	// a2a1q in absolute coordinates is the internal promotion a7a8q
	move := NewMove(SqA2, SqA1, Queen).Mirror()
	p.Apply(move)
	assert.Equal(t, "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/2p2PPP/qR4K1 w kq - 0 2", p.StringFen())
}

func TestPosition_IsAttackedByEnemy(t *testing.T) {

	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/6R1/p1p2PPP/1R4K1 b kq e3"
	p, err := NewPositionFen(fen)
	assert.NoError(t, err)

	// own (black) pawn on f4 guards e3 and g3 - in the mirrored internal
	// frame that is a pawn on f5 guarding e6 and g6
	assert.True(t, p.IsAttackedByOwn(SqE6))
	assert.True(t, p.IsAttackedByOwn(SqG6))

	// the white rook on g3 slides up to g4 - internal g5 seen from Black
	assert.True(t, p.IsAttackedByEnemy(SqG5))
	// nothing white reaches e6 (absolute) - internal e3
	assert.False(t, p.IsAttackedByEnemy(SqE3))
}

func TestPosition_IsLegalMove(t *testing.T) {

	// no o-o castling, o-o-o is allowed
	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq e3"
	p, err := NewPositionFen(fen)
	assert.NoError(t, err)
	assert.False(t, p.IsLegalMove(NewMove(SqE8, SqG8, PtNone).Mirror()))
	assert.True(t, p.IsLegalMove(NewMove(SqE8, SqC8, PtNone).Mirror()))

	// in check - no castling at all
	fen = "r3k2r/1ppn3p/2q1qNn1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq e3"
	p, err = NewPositionFen(fen)
	assert.NoError(t, err)
	assert.False(t, p.IsLegalMove(NewMove(SqE8, SqG8, PtNone).Mirror()))
	assert.False(t, p.IsLegalMove(NewMove(SqE8, SqC8, PtNone).Mirror()))
}

func TestPosition_NullMove(t *testing.T) {
	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq e3"
	p, err := NewPositionFen(fen)
	assert.NoError(t, err)
	beforeKey := p.ZobristKey()
	p.NullMove()
	assert.NotEqual(t, beforeKey, p.ZobristKey())
	assert.Equal(t, SqNone, p.EnPassantSquare())
}

func TestPosition_CheckInsufficientMaterial(t *testing.T) {
	// both sides have a bare king
	p, err := NewPositionFen("8/3k4/8/8/8/8/4K3/8 w - -")
	assert.NoError(t, err)
	assert.True(t, p.HasInsufficientMaterial())

	// one side has a king and a minor piece against a bare king
	p, err = NewPositionFen("8/3k4/8/8/8/2B5/4K3/8 w - -")
	assert.NoError(t, err)
	assert.True(t, p.HasInsufficientMaterial())

	p, err = NewPositionFen("8/8/4K3/8/8/2b5/4k3/8 b - -")
	assert.NoError(t, err)
	assert.True(t, p.HasInsufficientMaterial())

	// one side has two bishops, a mate can be forced
	p, err = NewPositionFen("8/8/2B1K3/2B5/8/8/2n1k3/8 b - -")
	assert.NoError(t, err)
	assert.False(t, p.HasInsufficientMaterial())
}

func TestZobristAfterMovesMatchesFen(t *testing.T) {
	p := NewPosition()
	p.Apply(NewMove(SqE2, SqE4, PtNone))
	p.Apply(NewMove(SqE7, SqE5, PtNone).Mirror())
	p.Apply(NewMove(SqG1, SqF3, PtNone))

	q, err := NewPositionFen("rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2")
	assert.NoError(t, err)
	assert.Equal(t, q.ZobristKey(), p.ZobristKey())
	assert.Equal(t, computeZobristKey(p), p.ZobristKey())
}

func TestEnPassantMarkerSingleBit(t *testing.T) {
	p := NewPosition()
	p.Apply(NewMove(SqE2, SqE4, PtNone))
	marker := p.PawnsEnPassant() & (Rank1Bb | Rank8Bb)
	assert.Equal(t, 1, marker.PopCount())

	p.Apply(NewMove(SqG8, SqF6, PtNone).Mirror())
	marker = p.PawnsEnPassant() & (Rank1Bb | Rank8Bb)
	assert.Equal(t, 0, marker.PopCount())
}

//noinspection GoUnhandledErrorResult
func TestTimingApply(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	const rounds = 3
	const iterations uint64 = 1_000_000

	// Black's moves are pre-mirrored into the internal own-frame the
	// position expects after the preceding White move flipped the board
	e2e4 := NewMove(SqE2, SqE4, PtNone)
	d7d5 := NewMove(SqD7, SqD5, PtNone).Mirror()
	e4d5 := NewMove(SqE4, SqD5, PtNone)
	d8d5 := NewMove(SqD8, SqD5, PtNone).Mirror()
	b1c3 := NewMove(SqB1, SqC3, PtNone)

	for r := 1; r <= rounds; r++ {
		out.Printf("Round %d\n", r)
		start := time.Now()
		for i := uint64(0); i < iterations; i++ {
			p := NewPosition()
			p.Apply(e2e4)
			p.Apply(d7d5)
			p.Apply(e4d5)
			p.Apply(d8d5)
			p.Apply(b1c3)
		}
		elapsed := time.Since(start)
		out.Printf("Apply took %d ns for %d iterations with 5 applies\n", elapsed.Nanoseconds(), iterations)
		out.Printf("Apply took %d ns per move\n", elapsed.Nanoseconds()/int64(iterations*5))
	}
}
