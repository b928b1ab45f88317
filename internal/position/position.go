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

// Package position represents the board as a single, mirrored-perspective
// overlapping-bitboard structure: own/enemy occupancy, rook_queens and
// bishop_queens as overlapping piece-type sets, a pawns+en-passant-marker
// bitboard, and an own/enemy king square each. The engine always looks at
// the board from the mover's own side - Position.Mirror flips the whole
// board (and the incremental Zobrist key) whenever the turn passes, so move
// generation and evaluation never need a per-color branch.
//
// Create a new instance with NewPosition() for the start position or
// NewPositionFen(fen) to parse one.
package position

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/op/go-logging"

	"github.com/corechess/corechess/internal/assert"
	myLogging "github.com/corechess/corechess/internal/logging"
	. "github.com/corechess/corechess/internal/types"
)

var log *logging.Logger

func init() {
	log = myLogging.GetLog()
	initZobrist()
}

// StartFen is the fen string of the standard chess start position.
const StartFen string = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// MaxGameLength bounds the repetition/undo history ring - far beyond any
// realistic game length, matching the engine's fixed-size history arrays.
const MaxGameLength = 1024

// historyEntry is one ply of repetition-relevant history: the Zobrist key
// at that ply and whether that ply reset the 50-move counter (a capture or
// a pawn move - "progress" towards checkmate rather than a repeatable shuffle).
type historyEntry struct {
	key          Key
	progressMade bool
}

// MoveDelta is a single piece addition or removal performed by Apply: the
// piece type, the square it was added to or removed from (in the frame of
// the side that made the move, before the post-move mirror), whether the
// piece belonged to the mover, and whether it was added or removed.
type MoveDelta struct {
	Pt  PieceType
	Sq  Square
	Own bool
	Add bool
}

// Position is the mirrored-perspective board: own/enemy occupancy plus the
// overlapping rook_queens/bishop_queens piece-type bitboards, a single
// pawns_en_passant bitboard (the pawns of both sides plus, on rank 1, an
// optional en-passant target marker), and one king square per side. Knights
// are derived, never stored directly - see Knights().
type Position struct {
	ownPieces      Bitboard
	enemyPieces    Bitboard
	rookQueens     Bitboard
	bishopQueens   Bitboard
	pawnsEnPassant Bitboard
	ownKing        Square
	enemyKing      Square

	castling CastlingRights
	// isFlipped is true when the side to move is Black: the board held in
	// the fields above has been mirrored so White's home rank is own's.
	isFlipped bool

	halfMoveClock  int
	fullMoveNumber int
	ply            int

	zobristKey Key

	// deltas records the piece additions/removals the most recent Apply
	// performed, in the mover's (pre-mirror) frame - consumed by
	// incremental evaluators to update their accumulator instead of
	// recomputing from scratch. At most four entries: lift the mover,
	// remove a captured piece, drop the mover (or its promotion), and
	// for castling the rook relocation.
	deltas     [4]MoveDelta
	deltaCount int

	// history is the repetition ring: entry i is the key after ply i of
	// the game plus the "progress" flag of the move that produced it. The
	// backing array is shared between a position and its clones - each
	// clone only ever reads and writes slots below/at its own
	// historyCount, so search descending clone-by-clone reuses the slots
	// above the parent's count like a stack, and cloning stays a copy of
	// a few machine words instead of the whole ring.
	historyCount int
	history      *[MaxGameLength]historyEntry
}

// NewPosition creates a Position at the standard chess start position.
func NewPosition() *Position {
	p, err := NewPositionFen(StartFen)
	if err != nil {
		log.Error("NewPosition: could not parse the built-in start FEN: ", err)
	}
	return p
}

// NewPositionFen creates a Position from a FEN string (the external,
// White/Black-relative representation) and mirrors it into own/enemy
// space if Black is to move.
func NewPositionFen(fen string) (*Position, error) {
	fen = strings.TrimSpace(fen)
	fields := strings.Fields(fen)
	if len(fields) < 1 {
		return nil, errors.New("invalid fen: empty")
	}
	for len(fields) < 6 {
		// tolerate a FEN missing trailing fields
		switch len(fields) {
		case 1:
			fields = append(fields, "w")
		case 2:
			fields = append(fields, "-")
		case 3:
			fields = append(fields, "-")
		case 4:
			fields = append(fields, "0")
		case 5:
			fields = append(fields, "1")
		}
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid fen board %q: need 8 ranks", fields[0])
	}

	p := &Position{
		ownKing:   SqNone,
		enemyKing: SqNone,
		history:   &[MaxGameLength]historyEntry{},
	}

	var white, black [PtLength]Bitboard
	for i, rankStr := range ranks {
		rank := Rank(7 - i)
		file := FileA
		for _, c := range rankStr {
			if c >= '1' && c <= '8' {
				file += File(c - '0')
				continue
			}
			if file > FileH {
				return nil, fmt.Errorf("invalid fen board %q: rank overflow", fields[0])
			}
			sq := SquareOf(file, rank)
			pt := PieceTypeFromPromoLetter(byte(c))
			if c == 'p' || c == 'P' {
				pt = Pawn
			} else if c == 'k' || c == 'K' {
				pt = King
			}
			if pt == PtNone {
				return nil, fmt.Errorf("invalid fen board %q: bad piece %q", fields[0], string(c))
			}
			if c >= 'A' && c <= 'Z' {
				white[pt] = white[pt].PushSquare(sq)
			} else {
				black[pt] = black[pt].PushSquare(sq)
			}
			file++
		}
	}

	whiteToMove := fields[1] != "b"

	// assemble as White-relative, mirror afterwards if Black is to move.
	p.ownPieces = white[Pawn] | white[Knight] | white[Bishop] | white[Rook] | white[Queen] | white[King]
	p.enemyPieces = black[Pawn] | black[Knight] | black[Bishop] | black[Rook] | black[Queen] | black[King]
	p.rookQueens = white[Rook] | white[Queen] | black[Rook] | black[Queen]
	p.bishopQueens = white[Bishop] | white[Queen] | black[Bishop] | black[Queen]
	p.pawnsEnPassant = white[Pawn] | black[Pawn]
	p.ownKing = white[King].Lsb()
	p.enemyKing = black[King].Lsb()
	if p.ownKing == SqNone || p.enemyKing == SqNone {
		return nil, fmt.Errorf("invalid fen board %q: missing a king", fields[0])
	}

	var cr CastlingRights
	for _, c := range fields[2] {
		switch c {
		case 'K':
			cr |= CastleOwnKingside
		case 'Q':
			cr |= CastleOwnQueenside
		case 'k':
			cr |= CastleEnemyKingside
		case 'q':
			cr |= CastleEnemyQueenside
		}
	}
	p.castling = cr

	if hm, err := strconv.Atoi(fields[4]); err == nil {
		p.halfMoveClock = hm
	}
	fullMove := 1
	if fm, err := strconv.Atoi(fields[5]); err == nil && fm > 0 {
		fullMove = fm
	}
	p.fullMoveNumber = fullMove
	p.ply = 2 * (fullMove - 1)
	if !whiteToMove {
		p.ply++
	}

	if !whiteToMove {
		// Mirror before placing the en-passant marker: the marker always
		// rests on the CURRENT own's rank 1, which only exists once we know
		// which side "own" actually is.
		p.Mirror()
	}

	if fields[3] != "-" {
		epSq, err := SquareFromString(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid fen en passant field %q: %w", fields[3], err)
		}
		p.pawnsEnPassant = p.pawnsEnPassant.PushSquare(SquareOf(epSq.FileOf(), Rank1))
	}

	p.zobristKey = computeZobristKey(p)

	return p, nil
}

// Clone returns an independent copy of p sharing the same history backing
// array (see the history field). Search descends by cloning and applying
// rather than applying and undoing - a twelve-step undo that exactly
// inverts apply is unnecessary complexity when a clone is this small, a
// dozen machine words.
func (p *Position) Clone() *Position {
	np := *p
	return &np
}

// Mirror flips the whole board vertically and swaps own/enemy, turning a
// position seen from White's perspective into the same position seen from
// Black's (or back). mirror(mirror(p)) reproduces p exactly, including the
// Zobrist key, since every bitboard/square mirror used here is its own
// inverse and the side key is a plain XOR toggle.
func (p *Position) Mirror() {
	p.ownPieces = p.ownPieces.Mirror()
	p.enemyPieces = p.enemyPieces.Mirror()
	p.rookQueens = p.rookQueens.Mirror()
	p.bishopQueens = p.bishopQueens.Mirror()
	p.pawnsEnPassant = p.pawnsEnPassant.Mirror()
	p.ownKing = p.ownKing.Mirror()
	p.enemyKing = p.enemyKing.Mirror()

	p.ownPieces, p.enemyPieces = p.enemyPieces, p.ownPieces
	p.ownKing, p.enemyKing = p.enemyKing, p.ownKing
	p.castling = p.castling.Mirror()
	p.isFlipped = !p.isFlipped
	p.zobristKey ^= zobristSideKey
}

// ------------------------------------------------------------------------
// Accessors
// ------------------------------------------------------------------------

func (p *Position) OwnPieces() Bitboard   { return p.ownPieces }
func (p *Position) EnemyPieces() Bitboard { return p.enemyPieces }
func (p *Position) Occupied() Bitboard    { return p.ownPieces | p.enemyPieces }
func (p *Position) RookQueens() Bitboard  { return p.rookQueens }
func (p *Position) BishopQueens() Bitboard {
	return p.bishopQueens
}
func (p *Position) Queens() Bitboard { return p.rookQueens & p.bishopQueens }
func (p *Position) Rooks() Bitboard  { return p.rookQueens &^ p.bishopQueens }
func (p *Position) Bishops() Bitboard {
	return p.bishopQueens &^ p.rookQueens
}

// Pawns returns the real pawn bitboard, with the rank-1 en-passant marker
// bit (which is never a real pawn, since no pawn ever stands on rank 1 of
// its own mover's frame) stripped out.
func (p *Position) Pawns() Bitboard {
	return p.pawnsEnPassant &^ Rank1Bb
}

// PawnsEnPassant returns the raw pawns+marker bitboard, as stored.
func (p *Position) PawnsEnPassant() Bitboard { return p.pawnsEnPassant }

// EnPassantSquare returns the destination square of an en-passant capture
// available this ply, or SqNone if there is none. The marker bit itself
// always rests on rank 1 (a rank no real pawn can occupy); the pawn that
// double-pushed, and the own pawns that can take it, sit on rank 5, and the
// capture lands behind it on rank 6 - true regardless of which side is own,
// since apply() re-mirrors the whole board after every move.
func (p *Position) EnPassantSquare() Square {
	marker := p.pawnsEnPassant & Rank1Bb
	if marker == BbZero {
		return SqNone
	}
	return SquareOf(marker.Lsb().FileOf(), Rank6)
}

// Knights is derived: whatever occupies the board that is neither a king,
// a pawn, nor part of rook_queens/bishop_queens must be a knight.
func (p *Position) Knights() Bitboard {
	return p.Occupied() &^ p.rookQueens &^ p.bishopQueens &^ p.Pawns() &^
		BbSquare(p.ownKing) &^ BbSquare(p.enemyKing)
}

// LastMoveDeltas returns the piece additions/removals the most recent
// Apply performed (empty after a null move or for a freshly parsed
// position). The returned slice aliases internal state and is only valid
// until the next Apply on this position.
func (p *Position) LastMoveDeltas() []MoveDelta {
	return p.deltas[:p.deltaCount]
}

func (p *Position) OwnKing() Square       { return p.ownKing }
func (p *Position) EnemyKing() Square     { return p.enemyKing }
func (p *Position) CastlingRights() CastlingRights { return p.castling }
func (p *Position) IsFlipped() bool       { return p.isFlipped }
func (p *Position) ZobristKey() Key       { return p.zobristKey }
func (p *Position) HalfMoveClock() int    { return p.halfMoveClock }
func (p *Position) FullMoveNumber() int   { return p.fullMoveNumber }
func (p *Position) Ply() int              { return p.ply }

// NextPlayer returns the color to move - White when the board is not
// mirrored, Black when it is.
func (p *Position) NextPlayer() Color {
	if p.isFlipped {
		return Black
	}
	return White
}

// pieceBitboard returns the bitboard for a single piece type, own+enemy
// combined - used by FEN emission and piece lookup.
func (p *Position) pieceBitboard(pt PieceType) Bitboard {
	switch pt {
	case Pawn:
		return p.Pawns()
	case Knight:
		return p.Knights()
	case Bishop:
		return p.Bishops()
	case Rook:
		return p.Rooks()
	case Queen:
		return p.Queens()
	case King:
		return BbSquare(p.ownKing) | BbSquare(p.enemyKing)
	default:
		return BbZero
	}
}

// PieceTypeAt returns the piece type standing on sq, or PtNone if empty.
func (p *Position) PieceTypeAt(sq Square) PieceType {
	b := BbSquare(sq)
	switch {
	case b&p.Occupied() == 0:
		return PtNone
	case sq == p.ownKing || sq == p.enemyKing:
		return King
	case b&p.Pawns() != 0:
		return Pawn
	case b&p.rookQueens != 0 && b&p.bishopQueens != 0:
		return Queen
	case b&p.rookQueens != 0:
		return Rook
	case b&p.bishopQueens != 0:
		return Bishop
	default:
		return Knight
	}
}

// PieceAt returns the piece type and owning color standing on sq.
func (p *Position) PieceAt(sq Square) (PieceType, Color) {
	pt := p.PieceTypeAt(sq)
	if pt == PtNone {
		return PtNone, ColorNone
	}
	owner := White
	if p.ownPieces.Has(sq) {
		owner = p.NextPlayer()
	} else {
		owner = p.NextPlayer().Flip()
	}
	return pt, owner
}

// IsCapturingMove reports whether applying m would remove an enemy piece -
// either a direct capture or an en-passant capture.
func (p *Position) IsCapturingMove(m Move) bool {
	if p.enemyPieces.Has(m.To()) {
		return true
	}
	return p.isEnPassantCapture(m)
}

func (p *Position) isEnPassantCapture(m Move) bool {
	epSq := p.EnPassantSquare()
	return epSq != SqNone && m.To() == epSq && p.Pawns().Has(m.From())
}

func (p *Position) isCastlingMove(m Move) bool {
	return m.From() == p.ownKing && abs(int(m.From().FileOf())-int(m.To().FileOf())) == 2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// lightSquares holds the 32 light squares; its complement is the dark set.
const lightSquares Bitboard = 0x55AA55AA55AA55AA

// HasInsufficientMaterial reports whether no checkmate can be forced with
// the material left: bare kings, a single knight or bishop against a bare
// king, or one bishop each when both run on the same square color.
func (p *Position) HasInsufficientMaterial() bool {
	if p.Pawns() != BbZero || p.rookQueens != BbZero {
		return false
	}
	knights := p.Knights()
	bishops := p.Bishops()
	minors := (knights | bishops).PopCount()
	switch minors {
	case 0:
		return true
	case 1:
		return true
	case 2:
		// one bishop each on the same square color
		if knights != BbZero {
			return false
		}
		if (bishops & p.ownPieces).PopCount() != 1 {
			return false
		}
		return bishops&lightSquares == bishops || bishops&lightSquares == BbZero
	default:
		return false
	}
}

// IsDraw50 reports whether the 50-move (no progress) rule applies.
func (p *Position) IsDraw50() bool {
	return p.halfMoveClock >= 100
}

// Repetitions counts how many earlier plies in the kept history share the
// current Zobrist key, stopping at the first "progress" ply (capture or
// pawn move) looking backward - positions before an irreversible move can
// never repeat the current one.
func (p *Position) Repetitions() int {
	if p.historyCount == 0 {
		return 0
	}
	// history[historyCount-1] is the current position itself; if the move
	// that produced it was irreversible nothing earlier can match.
	if p.history[p.historyCount-1].progressMade {
		return 0
	}
	count := 0
	for i := p.historyCount - 2; i >= 0; i-- {
		if p.history[i].key == p.zobristKey {
			count++
		}
		if p.history[i].progressMade {
			break
		}
	}
	return count
}

// IsDrawByRepetition reports whether the current position has occurred
// (including the current occurrence) three or more times.
func (p *Position) IsDrawByRepetition() bool {
	return p.Repetitions() >= 2
}

// String renders an 8x8 ASCII board from own's point of view (rank 8
// first), own pieces uppercase, enemy pieces lowercase.
func (p *Position) String() string {
	var sb strings.Builder
	for r := Rank8; r >= Rank1; r-- {
		for f := FileA; f <= FileH; f++ {
			sq := SquareOf(f, r)
			pt := p.PieceTypeAt(sq)
			if pt == PtNone {
				sb.WriteString(". ")
				continue
			}
			s := pt.String()
			if p.ownPieces.Has(sq) {
				s = strings.ToUpper(s)
			}
			sb.WriteString(s + " ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// assertZobrist panics in debug builds if the incrementally maintained key
// has drifted from a from-scratch recomputation - mirrors the sanity check
// at the end of the original engine's apply-move routine.
func (p *Position) assertZobrist() {
	assert.Assert(p.zobristKey == computeZobristKey(p), "zobrist key mismatch after apply/mirror")
}
