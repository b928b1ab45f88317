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

package attacks

import "github.com/corechess/corechess/internal/types"

// Magic holds the fancy-magic-bitboard lookup data for a single square:
// the relevant-occupancy mask, the magic multiplier, the shift amount and
// a slice into the square's slot of the shared attacks table.
// Taken from Stockfish, see https://stockfishchess.org/about/
type Magic struct {
	Mask    types.Bitboard
	Number  types.Bitboard
	Attacks []types.Bitboard
	Shift   uint
}

// index computes the table index for a given occupancy.
func (m *Magic) index(occupied types.Bitboard) uint {
	occ := occupied & m.Mask
	occ *= m.Number
	occ >>= m.Shift
	return uint(occ)
}

// initMagics computes all rook or bishop attacks at startup, searching for
// a valid magic number per square via the Carry-Rippler subset trick.
// https://www.chessprogramming.org/Magic_Bitboards ("fancy" variant).
// Taken from Stockfish.
func initMagics(table *[]types.Bitboard, magics *[64]Magic, directions *[4]types.Direction) {
	// Optimal PrnG seeds to pick the correct magics in the shortest time.
	seeds := [8]uint64{728, 10316, 55013, 32803, 12281, 15100, 16645, 255}

	var occupancy, reference [4096]types.Bitboard
	var epoch [4096]int
	var edges, b types.Bitboard
	cnt := 0
	size := 0

	for sq := types.SqA1; sq <= types.SqH8; sq++ {
		edges = ((types.Rank1Bb | types.Rank8Bb) &^ rankBb(sq.RankOf())) |
			((types.FileABb | types.FileHBb) &^ fileBb(sq.FileOf()))

		m := &(*magics)[sq]
		m.Mask = slidingAttack(directions, sq, types.BbZero) &^ edges
		m.Shift = uint(64 - m.Mask.PopCount())

		if sq == types.SqA1 {
			m.Attacks = *table
		} else {
			m.Attacks = magics[sq-1].Attacks[size:]
		}

		// Carry-Rippler: enumerate every subset of the mask, remembering the
		// sliding attack that subset produces.
		b = 0
		size = 0
		for {
			occupancy[size] = b
			reference[size] = slidingAttack(directions, sq, b)
			size++
			b = (b - m.Mask) & m.Mask
			if b == 0 {
				break
			}
		}

		rng := newPrnG(seeds[sq.RankOf()])
		for i := 0; i < size; {
			for m.Number = 0; ; {
				m.Number = types.Bitboard(rng.sparseRand())
				if ((m.Number * m.Mask) >> 56).PopCount() < 6 {
					break
				}
			}
			// A good magic maps every occupancy to an index holding the
			// correct attack set. epoch[] lets failed attempts be detected
			// without clearing the whole attacks table between tries.
			cnt++
			for i = 0; i < size; i++ {
				idx := m.index(occupancy[i])
				if epoch[idx] < cnt {
					epoch[idx] = cnt
					m.Attacks[idx] = reference[i]
				} else if m.Attacks[idx] != reference[i] {
					break
				}
			}
		}
	}
}

// slidingAttack walks each of the four given ray directions from sq until
// the board edge or an occupied square, accumulating the squares passed
// through (inclusive of the first blocker). Only used at init time.
func slidingAttack(directions *[4]types.Direction, sq types.Square, occupied types.Bitboard) types.Bitboard {
	attack := types.BbZero
	for i := 0; i < 4; i++ {
		s := sq
		for {
			next := s.To(directions[i])
			if !next.IsValid() {
				break
			}
			s = next
			attack = attack.PushSquare(s)
			if occupied.Has(s) {
				break
			}
		}
	}
	return attack
}

func rankBb(r types.Rank) types.Bitboard {
	return types.Rank1Bb << (8 * uint(r))
}

func fileBb(f types.File) types.Bitboard {
	return types.FileABb << uint(f)
}

// PrnG is the xorshift64star pseudo-random generator used to search for
// magic numbers. Dedicated to the public domain by Sebastiano Vigna
// (2014); see http://vigna.di.unimi.it/ftp/papers/xorshift.pdf.
type PrnG struct {
	s uint64
}

func newPrnG(seed uint64) *PrnG {
	return &PrnG{s: seed}
}

func (r *PrnG) rand64() uint64 {
	r.s ^= r.s >> 12
	r.s ^= r.s << 25
	r.s ^= r.s >> 27
	return r.s * 2685821657736338717
}

// sparseRand returns a number with roughly 1/8th of its bits set on
// average - magic numbers with few set bits are found faster.
func (r *PrnG) sparseRand() uint64 {
	return r.rand64() & r.rand64() & r.rand64()
}
