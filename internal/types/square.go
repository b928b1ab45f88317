//
// CoreChess - a UCI chess engine in Go
//
// MIT License
//
// Copyright (c) 2020-2026 CoreChess contributors
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

// Package types holds the small, shared value types of the engine: squares,
// files, ranks, colors, pieces, castling rights, moves and centipawn values,
// plus the Bitboard primitive and its magic-bitboard backed attack tables.
package types

import "fmt"

// Square is a board tile 0-63 encoding rank*8+file. SqA1 is the least
// significant bit, SqH8 the most significant.
type Square int8

// File is a board file A-H, 0-7.
type File int8

// Rank is a board rank 1-8, 0-7.
type Rank int8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
	FileLength = 8
	FileNone   File = -1
)

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	RankLength = 8
	RankNone   Rank = -1
)

// Square constants, A1..H8, plus SqNone as the invalid/sentinel square.
const (
	SqA1 Square = iota
	SqB1
	SqC1
	SqD1
	SqE1
	SqF1
	SqG1
	SqH1
	SqA2
	SqB2
	SqC2
	SqD2
	SqE2
	SqF2
	SqG2
	SqH2
	SqA3
	SqB3
	SqC3
	SqD3
	SqE3
	SqF3
	SqG3
	SqH3
	SqA4
	SqB4
	SqC4
	SqD4
	SqE4
	SqF4
	SqG4
	SqH4
	SqA5
	SqB5
	SqC5
	SqD5
	SqE5
	SqF5
	SqG5
	SqH5
	SqA6
	SqB6
	SqC6
	SqD6
	SqE6
	SqF6
	SqG6
	SqH6
	SqA7
	SqB7
	SqC7
	SqD7
	SqE7
	SqF7
	SqG7
	SqH7
	SqA8
	SqB8
	SqC8
	SqD8
	SqE8
	SqF8
	SqG8
	SqH8
	SqLength = 64
	SqNone   Square = 64
)

// SquareOf returns the square for a (file, rank) pair.
func SquareOf(f File, r Rank) Square {
	return Square(int(r)*8 + int(f))
}

// IsValid reports whether sq is one of the 64 real board squares.
func (sq Square) IsValid() bool {
	return sq >= SqA1 && sq < SqNone
}

// FileOf returns the file of the square.
func (sq Square) FileOf() File {
	return File(sq & 7)
}

// RankOf returns the rank of the square.
func (sq Square) RankOf() Rank {
	return Rank(sq >> 3)
}

// Mirror returns the square vertically mirrored across the board's
// horizontal midline: file is preserved, rank is inverted. Mirror is its
// own inverse (mirror(mirror(sq)) == sq).
func (sq Square) Mirror() Square {
	return sq ^ 0b111000
}

// fileNames/rankNames support algebraic notation rendering.
var fileNames = [FileLength]string{"a", "b", "c", "d", "e", "f", "g", "h"}
var rankNames = [RankLength]string{"1", "2", "3", "4", "5", "6", "7", "8"}

// String renders the square in algebraic notation, e.g. "e4".
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fileNames[sq.FileOf()] + rankNames[sq.RankOf()]
}

// String renders the file as a lowercase letter.
func (f File) String() string {
	if f < FileA || f > FileH {
		return "-"
	}
	return fileNames[f]
}

// String renders the rank as a digit.
func (r Rank) String() string {
	if r < Rank1 || r > Rank8 {
		return "-"
	}
	return rankNames[r]
}

// SquareFromString parses algebraic square notation, e.g. "e4" -> SqE4.
func SquareFromString(s string) (Square, error) {
	if s == "-" {
		return SqNone, nil
	}
	if len(s) != 2 {
		return SqNone, fmt.Errorf("invalid square %q", s)
	}
	f := s[0]
	r := s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return SqNone, fmt.Errorf("invalid square %q", s)
	}
	return SquareOf(File(f-'a'), Rank(r-'1')), nil
}
