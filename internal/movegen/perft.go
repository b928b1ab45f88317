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
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/corechess/corechess/internal/position"
	. "github.com/corechess/corechess/internal/types"
	"github.com/corechess/corechess/internal/util"
)

var out = message.NewPrinter(language.German)

// Perft walks the legal move tree to a fixed depth, counting nodes and move
// categories - the standard move-generator correctness oracle, comparing
// Nodes at each depth against known-good reference values.
type Perft struct {
	Nodes            uint64
	CheckCounter     uint64
	CheckMateCounter uint64
	CaptureCounter   uint64
	EnpassantCounter uint64
	CastleCounter    uint64
	PromotionCounter uint64
	// stopFlag is written from the UCI goroutine via Stop while a run
	// started with `go StartPerftMulti` polls it - atomic for the same
	// reason as the search's stop flag. A value (not a pointer) so the
	// zero-value Perft the command line and tests use stays valid.
	stopFlag util.Bool
}

// NewPerft creates a new empty Perft instance.
func NewPerft() *Perft {
	return &Perft{}
}

// Stop ends a perft run started in a goroutine at the next safe point.
func (perft *Perft) Stop() {
	perft.stopFlag.Store(true)
}

// StartPerftMulti runs StartPerft for every depth in [startDepth, endDepth].
func (perft *Perft) StartPerftMulti(fen string, startDepth int, endDepth int) {
	perft.stopFlag.Store(false)
	for i := startDepth; i <= endDepth; i++ {
		if perft.stopFlag.Load() {
			out.Print("Perft multi depth stopped\n")
			return
		}
		perft.StartPerft(fen, i)
	}
}

// StartPerft runs a single-depth perft from fen and prints a summary.
func (perft *Perft) StartPerft(fen string, depth int) {
	perft.stopFlag.Store(false)
	if depth <= 0 {
		depth = 1
	}

	perft.resetCounter()
	p, err := position.NewPositionFen(fen)
	if err != nil {
		out.Printf("invalid fen: %s\n", err)
		return
	}
	mgList := make([]*Movegen, depth+1)
	for i := 0; i <= depth; i++ {
		mgList[i] = NewMoveGen()
	}

	out.Printf("Performing PERFT Test for Depth %d\n", depth)
	out.Printf("FEN: %s\n", fen)
	out.Printf("-----------------------------------------\n")

	start := time.Now()
	result := perft.miniMax(depth, p, mgList)
	elapsed := time.Since(start)

	if perft.stopFlag.Load() {
		out.Print("Perft stopped\n")
		return
	}

	perft.Nodes = result

	out.Printf("Time         : %s\n", elapsed)
	out.Printf("NPS          : %d nps\n", (perft.Nodes*uint64(time.Second.Nanoseconds()))/uint64(elapsed.Nanoseconds()+1))
	out.Printf("Results:\n")
	out.Printf("   Nodes     : %d\n", perft.Nodes)
	out.Printf("   Captures  : %d\n", perft.CaptureCounter)
	out.Printf("   EnPassant : %d\n", perft.EnpassantCounter)
	out.Printf("   Checks    : %d\n", perft.CheckCounter)
	out.Printf("   CheckMates: %d\n", perft.CheckMateCounter)
	out.Printf("   Castles   : %d\n", perft.CastleCounter)
	out.Printf("   Promotions: %d\n", perft.PromotionCounter)
	out.Printf("-----------------------------------------\n")
	out.Printf("Finished PERFT Test for Depth %d\n\n", depth)
}

func (perft *Perft) miniMax(depth int, p *position.Position, mgList []*Movegen) uint64 {
	totalNodes := uint64(0)
	moves := mgList[depth].GenerateLegalMoves(p)
	for i := 0; i < moves.Len(); i++ {
		if perft.stopFlag.Load() {
			return 0
		}
		move := moves.At(i)

		isCapture := p.IsCapturingMove(move)
		isEnPassant := p.PieceTypeAt(move.From()) == Pawn && move.To() == p.EnPassantSquare()
		isCastle := p.PieceTypeAt(move.From()) == King && abs(int(move.From().FileOf())-int(move.To().FileOf())) == 2
		isPromotion := move.IsPromotion()

		clone := p.Clone()
		clone.Apply(move)

		if depth > 1 {
			totalNodes += perft.miniMax(depth-1, clone, mgList)
			continue
		}

		totalNodes++
		if isEnPassant {
			perft.EnpassantCounter++
			perft.CaptureCounter++
		} else if isCapture {
			perft.CaptureCounter++
		}
		if isCastle {
			perft.CastleCounter++
		}
		if isPromotion {
			perft.PromotionCounter++
		}
		if clone.IsInCheck() {
			perft.CheckCounter++
			if !mgList[0].HasLegalMove(clone) {
				perft.CheckMateCounter++
			}
		}
	}
	return totalNodes
}

func (perft *Perft) resetCounter() {
	perft.Nodes = 0
	perft.CheckCounter = 0
	perft.CheckMateCounter = 0
	perft.CaptureCounter = 0
	perft.EnpassantCounter = 0
	perft.CastleCounter = 0
	perft.PromotionCounter = 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
