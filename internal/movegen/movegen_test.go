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

package movegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corechess/corechess/internal/position"
	. "github.com/corechess/corechess/internal/types"
)

func TestStartPositionMoveCount(t *testing.T) {
	p, err := position.NewPositionFen(position.StartFen)
	assert.NoError(t, err)
	mg := NewMoveGen()
	assert.Equal(t, 20, mg.GenerateLegalMoves(p).Len())
	assert.True(t, mg.HasLegalMove(p))
}

func TestEnPassantIsGenerated(t *testing.T) {
	// White just double-pushed d2d4; the black pawn on c4 may take en
	// passant on d3. Black to move, so the board is mirrored internally
	// and the absolute move c4d3 is generated as c5d6.
	p, err := position.NewPositionFen("8/8/8/2k5/2pP4/8/B7/4K3 b - d3 0 1")
	assert.NoError(t, err)

	mg := NewMoveGen()
	moves := mg.GenerateLegalMoves(p)
	epMove := NewMove(SqC4, SqD3, PtNone).Mirror()
	found := false
	for i := 0; i < moves.Len(); i++ {
		if moves.At(i) == epMove {
			found = true
		}
	}
	assert.True(t, found, "en passant capture c4d3 missing from legal moves")

	// playing the capture removes the double-pushed pawn from d4
	p.Apply(epMove)
	assert.False(t, p.Pawns().Has(SqD4))
	assert.True(t, p.Pawns().Has(SqD3))
}

func TestPromotionMoveSet(t *testing.T) {
	// black pawn on e2 promotes on e1 - all four promotion pieces, and
	// nothing else, from that square
	p, err := position.NewPositionFen("4k3/8/8/8/8/8/4p3/6K1 b - - 0 1")
	assert.NoError(t, err)

	mg := NewMoveGen()
	moves := mg.GenerateLegalMoves(p)

	fromInternal := SqE2.Mirror() // e7 in the mirrored own frame
	want := map[Move]bool{
		NewMove(SqE2, SqE1, Queen).Mirror():  false,
		NewMove(SqE2, SqE1, Rook).Mirror():   false,
		NewMove(SqE2, SqE1, Bishop).Mirror(): false,
		NewMove(SqE2, SqE1, Knight).Mirror(): false,
	}
	count := 0
	for i := 0; i < moves.Len(); i++ {
		m := moves.At(i)
		if m.From() != fromInternal {
			continue
		}
		count++
		_, ok := want[m]
		assert.True(t, ok, "unexpected move from e2: %s", m.StringUci())
		want[m] = true
	}
	assert.Equal(t, 4, count)
	for m, seen := range want {
		assert.True(t, seen, "missing promotion %s", m.StringUci())
	}
}

func TestCastlingThroughCheckRejected(t *testing.T) {
	// the black rook on f8 guards f1 - White may not castle kingside
	// through it, queenside is fine
	p, err := position.NewPositionFen("5rk1/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	assert.NoError(t, err)

	mg := NewMoveGen()
	moves := mg.GenerateLegalMoves(p)
	kingside := NewMove(SqE1, SqG1, PtNone)
	queenside := NewMove(SqE1, SqC1, PtNone)
	foundKingside, foundQueenside := false, false
	for i := 0; i < moves.Len(); i++ {
		switch moves.At(i) {
		case kingside:
			foundKingside = true
		case queenside:
			foundQueenside = true
		}
	}
	assert.False(t, foundKingside)
	assert.True(t, foundQueenside)

	// pseudo-legal generation still emits it - the legality filter is
	// what rejects castling through check
	pseudo := mg.GeneratePseudoLegalMoves(p)
	foundKingside = false
	for i := 0; i < pseudo.Len(); i++ {
		if pseudo.At(i) == kingside {
			foundKingside = true
		}
	}
	assert.True(t, foundKingside)
}
