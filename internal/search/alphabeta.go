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
	golog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/op/go-logging"

	. "github.com/corechess/corechess/internal/config"
	"github.com/corechess/corechess/internal/moveslice"
	"github.com/corechess/corechess/internal/position"
	"github.com/corechess/corechess/internal/transpositiontable"
	. "github.com/corechess/corechess/internal/types"
	"github.com/corechess/corechess/internal/util"
)

var trace = false

// killer/tt/history move ordering scores - only the relative order
// between these buckets matters, not the absolute numbers.
const (
	scoreTTMove  = 1_000_000
	scoreCapture = 100_000
	scoreKiller1 = 90_000
	scoreKiller2 = 89_000
)

// qfpMargin is the safety margin for quiescence futility (delta) pruning.
const qfpMargin = Value(150)

// rootSearch starts the actual recursive alpha beta search with the root moves for the first ply.
// As root moves are treated a little different this separate function supports readability
// as mixing it with the normal search would require quite some "if ply==0" statements.
func (s *Search) rootSearch(p *position.Position, depth int, alpha Value, beta Value) Value {
	if trace {
		s.slog.Debugf("Ply %-2.d Depth %-2.d start: %s", 0, depth, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("Ply %-2.d Depth %-2.d end: %s", 0, depth, s.statistics.CurrentVariation.StringUci())
	}

	// In root search we search all moves and store the value of each
	// into s.rootMoveValues for sorting in the next iteration.
	// Best move is stored in pv[0][0], best value is returned here.
	// The next iteration begins with the best move of the last
	// iteration so we can be sure pv[0][0] will be set with the
	// last best move from the previous iteration independent of
	// the value. Any better move found is really better and will
	// replace pv[0][0] and also will be sorted first in the
	// next iteration.

	bestNodeValue := ValueNA

	// ///////////////////////////////////////////////////////
	// MOVE LOOP
	for i := 0; i < s.rootMoves.Len(); i++ {
		m := s.rootMoves.At(i)

		child := p.Clone()
		child.Apply(m)
		if s.incEval != nil {
			s.incEval.CopyToNextAccumulator(0, child)
		}

		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(m)
		s.statistics.CurrentRootMoveIndex = i
		s.statistics.CurrentRootMove = m

		var value Value
		// check repetition and 50 moves
		if s.checkDrawRepAnd50(child, 2) {
			value = ValueDraw
		} else {
			// ///////////////////////////////////////////////////////////////////
			// PVS
			// First move in a node is an assumed PV and searched with full search window
			if !Settings.Search.UsePVS || i == 0 {
				value = -s.search(child, depth-1, 1, -beta, -alpha, true, true, m)
			} else {
				// Null window search after the initial PV search.
				value = -s.search(child, depth-1, 1, -alpha-1, -alpha, false, true, m)
				// If this move improved alpha without exceeding beta we do a proper full window
				// search to get an accurate score.
				if value > alpha && value < beta && !s.stopConditions() {
					s.statistics.RootPvsResearches++
					value = -s.search(child, depth-1, 1, -beta, -alpha, true, true, m)
				}
			}
			// ///////////////////////////////////////////////////////////////////
		}

		s.statistics.CurrentVariation.PopBack()

		// we want to do at least one complete search with depth 1
		// After that we can stop any time - any new best moves will
		// have been stored in pv[0]
		if s.stopConditions() && depth > 1 {
			return bestNodeValue
		}

		// remember the value for this root move so the next iteration
		// can sort the root moves by how well they did in this one
		s.rootMoveValues[m] = value

		// Did we find a better move for this node (not ply)?
		// For the first move this is always the case.
		if value > bestNodeValue {
			bestNodeValue = value
			// we have a new pv[0][0] - store pv+1 to pv
			savePV(m, s.pv[1], s.pv[0])
		}
	}
	// MOVE LOOP
	// ///////////////////////////////////////////////////////

	return bestNodeValue
}

// aspirationSearch wraps rootSearch in a narrow window built around the
// value found by the previous iteration. Most of the time the true value
// does not move far between iterations, so a narrow window produces many
// more cutoffs than a full-width search. If the result falls outside the
// window the window is widened and the same depth is searched again -
// the window only ever reaches full width on the last configured step,
// so this always eventually converges onto a correct value.
func (s *Search) aspirationSearch(p *position.Position, depth int, lastValue Value) Value {
	if lastValue == ValueNA {
		return s.rootSearch(p, depth, -ValueInfinite, ValueInfinite)
	}

	for _, window := range aspirationSteps {
		alpha := lastValue - window
		beta := lastValue + window
		if alpha < -ValueInfinite {
			alpha = -ValueInfinite
		}
		if beta > ValueInfinite {
			beta = ValueInfinite
		}

		value := s.rootSearch(p, depth, alpha, beta)
		if s.stopConditions() {
			return value
		}

		switch {
		case value <= alpha:
			s.statistics.AspirationResearches++
			s.sendAspirationResearchInfo("upperbound")
		case value >= beta:
			s.statistics.AspirationResearches++
			s.sendAspirationResearchInfo("lowerbound")
		default:
			return value
		}
	}

	// the last aspiration window is full width already, but guard against
	// a misconfigured aspirationSteps table missing that invariant.
	return s.rootSearch(p, depth, -ValueInfinite, ValueInfinite)
}

// mtdf implements MTD(f): it zeroes in on the minimax value of the
// position by repeatedly calling rootSearch with a null window placed
// just above or below the current guess, narrowing the [lowerBound,
// upperBound] bracket after every call until it collapses.
// https://www.chessprogramming.org/MTD(f)
func (s *Search) mtdf(p *position.Position, depth int, firstGuess Value) Value {
	g := firstGuess
	if g == ValueNA {
		g = ValueZero
	}

	upperBound := ValueInfinite
	lowerBound := -ValueInfinite

	for lowerBound < upperBound {
		beta := g
		if g == lowerBound {
			beta = g + 1
		}

		g = s.rootSearch(p, depth, beta-1, beta)
		if s.stopConditions() {
			return g
		}

		if g < beta {
			upperBound = g
		} else {
			lowerBound = g
		}
	}

	return g
}

// search is the normal alpha beta search after the root move ply (ply > 0)
// it will be called recursively until the remaining depth == 0 and we would
// enter quiescence search. Search consumes about 60% of the search time and
// all major prunings are done here. Quiescence search uses about 40% of the
// search time and has less options for pruning as not all moves are searched.
// parentMove is the move that was just played to reach p, used for counter
// move bookkeeping - there is no move-history stack on Position to read it
// back from, so it is threaded down through the recursion instead.
func (s *Search) search(p *position.Position, depth int, ply int, alpha Value, beta Value, isPV bool, doNull bool, parentMove Move) Value {
	if trace {
		s.slog.Debugf("%0*s Ply %-2.d Depth %-2.d a:%-6.d b:%-6.d pv:%-6.v start:  %s", ply, "", ply, depth, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("%0*s Ply %-2.d Depth %-2.d a:%-6.d b:%-6.d pv:%-6.v end  :  %s", ply, "", ply, depth, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
	}

	// Check if search should be stopped
	if s.stopConditions() {
		return ValueNA
	}

	// Enter quiescence search when depth == 0 or max ply has been reached
	if depth == 0 || ply >= MaxDepth {
		return s.qsearch(p, ply, alpha, beta, isPV, parentMove)
	}

	// Mate Distance Pruning
	// Did we already find a shorter mate then ignore
	// this one.
	if Settings.Search.UseMDP {
		if alpha < -ValueCheckMate+Value(ply) {
			alpha = -ValueCheckMate + Value(ply)
		}
		if beta > ValueCheckMate-Value(ply) {
			beta = ValueCheckMate - Value(ply)
		}
		if alpha >= beta {
			s.statistics.Mdp++
			return alpha
		}
	}

	// prepare node search
	bestNodeValue := ValueNA
	bestNodeMove := MoveNone // used to store in the TT
	ttMove := MoveNone
	ttType := ValueTypeAlpha
	hasCheck := p.IsInCheck()
	matethreat := false

	// TT Lookup
	// Results of searches are stored in the TT to be used to
	// avoid searching positions several times. If a position
	// is stored in the TT we retrieve a pointer to the entry.
	// We use the stored move as a best move from previous searches
	// and search it first through move ordering.
	// If we have a value from a similar or deeper search we check
	// if the value is usable. Exact values mean that the previously
	// stored result already was a precise result and we do not
	// need to search the position again. We can stop searching
	// this branch and return the value.
	// Alpha or Beta entries will only be used if they improve
	// the current values.
	var ttEntry *transpositiontable.TtEntry
	if Settings.Search.UseTT {
		ttEntry = s.tt.Probe(p.ZobristKey())
		if ttEntry != nil { // tt hit
			s.statistics.TTHit++
			ttMove = ttEntry.Move()
			if int(ttEntry.Depth()) >= depth {
				ttValue := valueFromTT(ttEntry.Value(), ply)
				cut := false
				switch {
				case ttValue == ValueNA:
					cut = false
				case ttEntry.Vtype() == ValueTypeExact:
					cut = true
				case ttEntry.Vtype() == ValueTypeAlpha && ttValue <= alpha:
					cut = true
				case ttEntry.Vtype() == ValueTypeBeta && ttValue >= beta:
					cut = true
				}
				if cut && Settings.Search.UseTTValue {
					s.getPVLine(p, s.pv[ply], depth)
					s.statistics.TTCuts++
					return ttValue
				}
				s.statistics.TTNoCuts++
			}
		} else {
			s.statistics.TTMiss++
		}
	}

	// Reverse Futility Pruning, (RFP, Static Null Move Pruning)
	// https://www.chessprogramming.org/Reverse_Futility_Pruning
	// Anticipate likely alpha low in the next ply by a beta cut
	// off before making and evaluating the move
	if Settings.Search.UseRFP &&
		doNull &&
		depth <= 3 &&
		!isPV &&
		!hasCheck &&
		!beta.IsCheckMateValue() {
		staticEval := s.evaluate(p, ply)
		margin := rfp[depth]
		if staticEval-margin >= beta {
			s.statistics.RfpPrunings++
			return staticEval - margin // fail-hard: beta / fail-soft: staticEval - evalMargin;
		}
	}

	// Razoring
	// https://www.chessprogramming.org/Razoring
	// If at shallow depth even the static eval plus a generous margin
	// does not reach alpha we drop straight into quiescence search -
	// only tactics could still save this position and qsearch finds those.
	if Settings.Search.UseRazoring &&
		depth <= 2 &&
		!isPV &&
		!hasCheck &&
		!alpha.IsCheckMateValue() {
		staticEval := s.evaluate(p, ply)
		if staticEval+Value(Settings.Search.RazorMargin) <= alpha {
			s.statistics.RazorPrunings++
			return s.qsearch(p, ply, alpha, beta, isPV, parentMove)
		}
	}

	// NULL MOVE PRUNING
	// https://www.chessprogramming.org/Null_Move_Pruning
	// Under the assumption the in most chess position it would be better
	// do make a move than to not make a move we can assume that if
	// our positional value after a null move is already above beta (>beta)
	// it would be above beta when doing a move in any case.
	// Certain situations need to be considered though:
	// - Zugzwang - it would be better not to move
	// - in check - this would lead to an illegal situation where the king is captured
	// - recursive null moves should be avoided
	if Settings.Search.UseNullMove {
		if doNull &&
			!isPV &&
			depth >= Settings.Search.NmpDepth &&
			ownNonPawnMaterial(p) > 0 &&
			!hasCheck {
			// possible other criteria: eval > beta

			// determine depth reduction
			// ICCA Journal, Vol. 22, No. 3
			// Ernst A. Heinz, Adaptive Null-Move Pruning, postscript
			// http://people.csail.mit.edu/heinz/ps/adpt_null.ps.gz
			r := Settings.Search.NmpReduction
			if depth > 8 || (depth > 6 && gamePhaseFactor(p) >= 0.4) {
				r += 1
			}
			newDepth := depth - r - 1
			if newDepth < 0 {
				newDepth = 0
			}

			// do null move search
			nullChild := p.Clone()
			nullChild.NullMove()
			if s.incEval != nil {
				s.incEval.CopyToNextAccumulator(ply, nullChild)
			}
			s.nodesVisited++
			nValue := -s.search(nullChild, newDepth, ply+1, -beta, -beta+1, false, false, MoveNone)

			if s.stopConditions() {
				return ValueNA
			}

			// flag for mate threats
			if nValue > ValueCheckMateThreshold {
				// although this player did not make a move the value still is
				// a mate - very good! Just adjust the value to not return an
				// unproven mate
				s.statistics.NMPMateBeta++
				nValue = ValueCheckMateThreshold
			} else if nValue < -ValueCheckMateThreshold {
				// the player did not move a got mated ==> mate threat
				s.statistics.NMPMateAlpha++
				matethreat = true
			}

			// if the value is higher than beta even after not making
			// a move it is not worth searching as it will very likely
			// be above beta if we make a move
			if nValue >= beta {
				s.statistics.NullMoveCuts++
				if Settings.Search.UseTT {
					s.storeTT(p, depth, ply, ttMove, nValue, ValueTypeBeta, ValueNA)
				}
				return nValue
			}
		}
	}

	// Internal Iterative Deepening (IID)
	// https://www.chessprogramming.org/Internal_Iterative_Deepening
	// Used when no best move from the tt is available from a previous
	// searches. IID is used to find a good move to search first by
	// searching the current position to a reduced depth, and using
	// the best move of that search as the first move at the real depth.
	// Does not make a big difference in search tree size when move
	// order already is good.
	if Settings.Search.UseIID {
		if depth >= Settings.Search.IIDDepth &&
			ttMove == MoveNone && // no move from TT
			doNull && // avoid in null move search
			isPV {

			newDepth := depth - Settings.Search.IIDReduction
			if newDepth < 0 {
				newDepth = 0
			}

			s.search(p, newDepth, ply, alpha, beta, isPV, true, parentMove)
			s.statistics.IIDsearches++

			if s.stopConditions() {
				return ValueNA
			}

			if s.pv[ply].Len() > 0 {
				s.statistics.IIDmoves++
				ttMove = (*s.pv[ply]).At(0)
			}
		}
	}

	// reset search
	// !important to do this after IID!
	myMg := s.mg[ply]
	s.pv[ply].Clear()

	moves := myMg.GenerateLegalMoves(p)

	if Settings.Search.UseTTMove {
		if ttMove != MoveNone {
			s.statistics.TTMoveUsed++
		} else {
			s.statistics.NoTTMove++
		}
	}

	killer1, killer2 := MoveNone, MoveNone
	if Settings.Search.UseKiller && ply < len(s.killers) {
		killer1, killer2 = s.killers[ply][0], s.killers[ply][1]
	}

	moves.SortByScore(func(m Move) int {
		switch {
		case Settings.Search.UseTTMove && m == ttMove:
			return scoreTTMove
		case p.IsCapturingMove(m):
			return scoreCapture + captureScore(p, m)
		case Settings.Search.UseKiller && m == killer1:
			return scoreKiller1
		case Settings.Search.UseKiller && m == killer2:
			return scoreKiller2
		case Settings.Search.UseHistoryCounter:
			return int(s.history.HistoryCount[m.From()][m.To()])
		default:
			return 0
		}
	})

	// prepare move loop
	var value Value
	movesSearched := 0

	// ///////////////////////////////////////////////////////
	// MOVE LOOP
	for i := 0; i < moves.Len(); i++ {
		move := moves.At(i)
		from := move.From()
		to := move.To()

		newDepth := depth - 1
		lmrDepth := newDepth
		extension := 0

		child := p.Clone()
		child.Apply(move)
		if s.incEval != nil {
			s.incEval.CopyToNextAccumulator(ply, child)
		}
		givesCheck := child.IsInCheck()

		// Here we try some search extensions. This has to be done
		// very carefully as it usually is more effective to prune
		// than to extend.
		if Settings.Search.UseExt {
			// The check extensions is a bit redundant as our QS search
			// searches all moves anyway when in check. But with this
			// extension we hope to profit from using the prunings
			// of the normal search which are not available in
			// qsearch.
			if Settings.Search.UseCheckExt && givesCheck {
				s.statistics.CheckExtension++
				extension = 1
			}

			// If we have found a mate threat during Null Move Search
			// we extend normal search by one ply to try to find
			// a way out.
			if Settings.Search.UseThreatExt && matethreat {
				s.statistics.ThreatExtension++
				extension = 1
			}

			// With this turned off we still can use extension to
			// at least avoid reductions for these moves.
			if Settings.Search.UseExtAddDepth {
				newDepth += extension
			}
		}

		// ///////////////////////////////////////////////////////
		// Forward Pruning
		// FP will only be done when the move is not
		// interesting - no check, no capture, etc.
		if !isPV &&
			extension == 0 &&
			move != ttMove &&
			move != killer1 &&
			move != killer2 &&
			!move.IsPromotion() &&
			!p.IsCapturingMove(move) &&
			!hasCheck && // pre move
			!givesCheck && // post move
			!matethreat { // from pre move null move check

			// to check in futility pruning what material delta we have
			materialEval := ownMaterial(p) - enemyMaterial(p)
			moveGain := p.PieceTypeAt(to).Value()

			// Futility Pruning
			// Using an array of margin values for each depth
			// we try to prune moves if they seem not worth
			// searching any further. They are so far below
			// alpha that we can assume a beta cutoff in the
			// next iteration anyway.
			if Settings.Search.UseFP && depth < 7 {
				futilityMargin := fp[depth]
				if materialEval+moveGain+futilityMargin <= alpha {
					if materialEval+moveGain > bestNodeValue {
						bestNodeValue = materialEval + moveGain
					}
					s.statistics.FpPrunings++
					continue
				}
			}

			// LMP - Late Move Pruning
			// aka Move Count Based Pruning
			if Settings.Search.UseLmp {
				if movesSearched >= LmpMovesSearched(depth) {
					s.statistics.LmpCuts++
					continue
				}
			}

			// LMR
			// Late Move Reduction assumes that later moves a rarely
			// exceeding alpha and therefore the search is reduced in
			// depth. This is in effect a soft transition into
			// quiescence search as we usually try the pv move and
			// capturing moves first. In quiescence only capturing
			// moves are searched anyway.
			// newDepth is the "standard" new depth (depth - 1)
			// lmrDepth is set to newDepth and only reduced
			// if conditions apply.
			if Settings.Search.UseLmr {
				if depth >= Settings.Search.LmrDepth &&
					movesSearched >= Settings.Search.LmrMovesSearched {
					lmrDepth -= LmrReduction(depth, movesSearched)
					s.statistics.LmrReductions++
				}
				if lmrDepth < 0 {
					lmrDepth = 0
				}
			}
		}
		// ///////////////////////////////////////////////////////

		// legality is already guaranteed - GenerateLegalMoves only
		// returns moves that passed Position.IsLegalMove
		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(move)
		s.sendSearchUpdateToUci()

		// check repetition and 50 moves
		if s.checkDrawRepAnd50(child, 2) {
			value = ValueDraw
		} else {
			// ///////////////////////////////////////////////////////
			// PVS
			// First move in Node will be search with the full window. Due to move
			// ordering we assume this is the PV. Every other move is searched with
			// a null window as we only try to prove that the move is bad (<alpha)
			// or that the move is too good (>beta). If this prove fails we need
			// to research the move again with a full window.
			// https://www.chessprogramming.org/Principal_Variation_Search
			if !Settings.Search.UsePVS || movesSearched == 0 {
				value = -s.search(child, newDepth, ply+1, -beta, -alpha, true, true, move)
			} else {
				// Null window search after the initial PV search.
				// As depth we use a potentially reduced depth if Late Move Reduction
				// conditions have been met above.
				value = -s.search(child, lmrDepth, ply+1, -alpha-1, -alpha, false, true, move)
				// If this move improved alpha without exceeding beta we do a proper full window
				// search to get an accurate score.
				// Without LMR we check for value > alpha && value < beta
				// With LMR we re-search when value > alpha
				if value > alpha && !s.stopConditions() {
					if lmrDepth < newDepth {
						s.statistics.LmrResearches++
						value = -s.search(child, newDepth, ply+1, -beta, -alpha, true, true, move)
					} else if value < beta {
						s.statistics.PvsResearches++
						value = -s.search(child, newDepth, ply+1, -beta, -alpha, true, true, move)
					}
				}
			}
			// ///////////////////////////////////////////////////////
		}

		movesSearched++
		s.statistics.CurrentVariation.PopBack()

		if s.stopConditions() {
			return ValueNA
		}

		// Did we find a better move for this node (not ply)?
		// For the first move this is always the case.
		if value > bestNodeValue {
			bestNodeValue = value
			bestNodeMove = move
			// Did we find a better move than in previous nodes in ply
			// then this is our new PV and best move for this ply.
			if value > alpha {
				savePV(move, s.pv[ply+1], s.pv[ply])
				// If we found a move that is better or equal than beta
				// this means that the opponent can/will avoid this
				// position altogether so we can stop search this node.
				if value >= beta {
					s.statistics.BetaCuts++
					if movesSearched == 1 {
						s.statistics.BetaCuts1st++
					}
					// store move which caused a beta cut off in this ply
					if Settings.Search.UseKiller && !p.IsCapturingMove(move) {
						s.storeKiller(ply, move)
					}
					// counter for moves which caused a beta cut off
					// we use 1 << depth as an increment to favor deeper searches
					// and more repetitions
					if Settings.Search.UseHistoryCounter {
						s.history.HistoryCount[from][to] += 1 << depth
					}
					// store a successful counter move to the previous opponent move
					if Settings.Search.UseCounterMoves && parentMove != MoveNone {
						s.history.CounterMoves[parentMove.From()][parentMove.To()] = move
					}
					ttType = ValueTypeBeta
					break
				}
				// We found a move between alpha and beta which means we
				// really have found the best move so far in the ply which
				// can be forced (opponent can't avoid it).
				alpha = value
				ttType = ValueTypeExact
			}
		}
		// no beta cutoff - decrease historyCounter for the move
		// by the same amount a cutoff would have added
		if Settings.Search.UseHistoryCounter {
			s.history.HistoryCount[from][to] -= 1 << depth
			if s.history.HistoryCount[from][to] < 0 {
				s.history.HistoryCount[from][to] = 0
			}
		}
	}
	// MOVE LOOP
	// ///////////////////////////////////////////////////////

	// If we did not have at least one legal move
	// then we might have a mate or stalemate
	if movesSearched == 0 && !s.stopConditions() {
		if hasCheck { // mate
			s.statistics.Checkmates++
			bestNodeValue = -ValueCheckMate + Value(ply)
		} else { // stalemate
			s.statistics.Stalemates++
			bestNodeValue = ValueDraw
		}
		ttType = ValueTypeExact
	}

	// Store TT
	if Settings.Search.UseTT {
		s.storeTT(p, depth, ply, bestNodeMove, bestNodeValue, ttType, ValueNA)
	}

	return bestNodeValue
}

// qsearch is a simplified search to counter the horizon effect in depth based
// searches. It continues the search into deeper branches as long as there are
// so called non quiet moves (usually capture, checks, promotions). Only if the
// position is relatively quiet we will compute an evaluation of the position
// to return to the previous depth.
// Look for non quiet moves is supported by filtering the full legal move list
// down to captures/promotions (or, when in check, all moves) and also by SEE
// (Static Exchange Evaluation) to determine winning capture sequences.
func (s *Search) qsearch(p *position.Position, ply int, alpha Value, beta Value, isPV bool, parentMove Move) Value {
	if trace {
		s.slog.Debugf("%0*s Ply %-2.d QSearch     a:%-6.d b:%-6.d pv:%-6.v start:  %s", ply, "", ply, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("%0*s Ply %-2.d QSearch     a:%-6.d b:%-6.d pv:%-6.v end  :  %s", ply, "", ply, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
	}

	if s.statistics.CurrentExtraSearchDepth < ply {
		s.statistics.CurrentExtraSearchDepth = ply
	}

	// if we have deactivated qsearch or we have reached our maximum depth
	// we evaluate the position and return the value
	if !Settings.Search.UseQuiescence || ply >= MaxDepth {
		return s.evaluate(p, ply)
	}

	// Mate Distance Pruning
	if Settings.Search.UseMDP {
		if alpha < -ValueCheckMate+Value(ply) {
			alpha = -ValueCheckMate + Value(ply)
		}
		if beta > ValueCheckMate-Value(ply) {
			beta = ValueCheckMate - Value(ply)
		}
		if alpha >= beta {
			s.statistics.Mdp++
			return alpha
		}
	}

	// prepare node search
	bestNodeValue := ValueNA
	ttType := ValueTypeAlpha
	ttMove := MoveNone
	hasCheck := p.IsInCheck()
	staticEval := ValueNA

	// if in check we simply do a normal search (all moves) in qsearch
	if !hasCheck {
		staticEval = s.evaluate(p, ply)
		// Quiescence StandPat
		// Use evaluation as a standing pat (lower bound)
		// https://www.chessprogramming.org/Quiescence_Search#Standing_Pat
		// Assumption is that there is at least on move which would improve the
		// current position. So if we are already >beta we don't need to look at it.
		if Settings.Search.UseQSStandpat && staticEval > alpha {
			if staticEval >= beta {
				s.statistics.StandpatCuts++
				return staticEval
			}
			alpha = staticEval
		}
		bestNodeValue = staticEval
	} else {
		s.statistics.CheckInQS++
	}

	// TT Lookup
	var ttEntry *transpositiontable.TtEntry
	if Settings.Search.UseQSTT {
		ttEntry = s.tt.Probe(p.ZobristKey())
		if ttEntry != nil { // tt hit
			s.statistics.TTHit++
			ttMove = ttEntry.Move()
			ttValue := valueFromTT(ttEntry.Value(), ply)
			cut := false
			switch {
			case ttValue == ValueNA:
				cut = false
			case ttEntry.Vtype() == ValueTypeExact:
				cut = true
			case ttEntry.Vtype() == ValueTypeAlpha && ttValue <= alpha:
				cut = true
			case ttEntry.Vtype() == ValueTypeBeta && ttValue >= beta:
				cut = true
			}
			if cut && Settings.Search.UseTTValue {
				s.statistics.TTCuts++
				return ttValue
			}
			s.statistics.TTNoCuts++
		} else {
			s.statistics.TTMiss++
		}
	}

	bestNodeMove := MoveNone // used to store in the TT
	myMg := s.mg[ply]
	s.pv[ply].Clear()

	moves := myMg.GenerateLegalMoves(p)

	// in qsearch (not in check) we only look at captures - and, when
	// configured, promotions as additional non-quiet moves.
	if !hasCheck {
		moves.Filter(func(i int) bool {
			m := moves.At(i)
			return p.IsCapturingMove(m) ||
				(Settings.Search.UsePromNonQuiet && m.IsPromotion())
		})
	}

	if Settings.Search.UseQSTT {
		if ttMove != MoveNone {
			s.statistics.TTMoveUsed++
		} else {
			s.statistics.NoTTMove++
		}
	}

	moves.SortByScore(func(m Move) int {
		switch {
		case Settings.Search.UseQSTT && m == ttMove:
			return scoreTTMove
		case p.IsCapturingMove(m):
			return scoreCapture + captureScore(p, m)
		default:
			return 0
		}
	})

	var value Value
	movesSearched := 0

	// ///////////////////////////////////////////////////////
	// MOVE LOOP
	for i := 0; i < moves.Len(); i++ {
		move := moves.At(i)

		// reduce number of moves searched in quiescence
		// by looking at good captures only
		if !hasCheck && !s.goodCapture(p, move) {
			continue
		}

		// Quiescence Futility Pruning (delta pruning)
		// skip captures whose victim plus a safety margin can not lift
		// the static eval back up to alpha
		if Settings.Search.UseQFP &&
			!hasCheck &&
			staticEval != ValueNA &&
			!alpha.IsCheckMateValue() &&
			!move.IsPromotion() {
			if staticEval+p.PieceTypeAt(move.To()).Value()+qfpMargin <= alpha {
				s.statistics.QFpPrunings++
				continue
			}
		}

		child := p.Clone()
		child.Apply(move)
		if s.incEval != nil {
			s.incEval.CopyToNextAccumulator(ply, child)
		}

		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(move)
		s.sendSearchUpdateToUci()

		// check repetition and 50 moves when in check
		// otherwise only capturing moves are generated
		// which break repetition and 50-moves rule anyway
		if hasCheck && s.checkDrawRepAnd50(child, 2) {
			value = ValueDraw
		} else {
			value = -s.qsearch(child, ply+1, -beta, -alpha, isPV, move)
		}

		movesSearched++
		s.statistics.CurrentVariation.PopBack()

		if s.stopConditions() {
			return ValueNA
		}

		// see search function above for documentation
		if value > bestNodeValue {
			bestNodeValue = value
			bestNodeMove = move
			if value > alpha {
				savePV(move, s.pv[ply+1], s.pv[ply])
				if value >= beta {
					s.statistics.BetaCuts++
					if movesSearched == 1 {
						s.statistics.BetaCuts1st++
					}
					if Settings.Search.UseHistoryCounter {
						s.history.HistoryCount[move.From()][move.To()] += 1 << 1
					}
					if Settings.Search.UseCounterMoves && parentMove != MoveNone {
						s.history.CounterMoves[parentMove.From()][parentMove.To()] = move
					}
					ttType = ValueTypeBeta
					break
				}
				alpha = value
				ttType = ValueTypeExact
			}
		}
	}
	// MOVE LOOP
	// ///////////////////////////////////////////////////////

	// if we did not have at least one legal move
	// then we might have a mate or - in quiescence - only quiet moves
	if movesSearched == 0 && !s.stopConditions() {
		// if we have a mate we had a check before and therefore
		// generated all moves. We can be sure this is a mate.
		if hasCheck {
			s.statistics.Checkmates++
			bestNodeValue = -ValueCheckMate + Value(ply)
			ttType = ValueTypeExact
		}
		// if we do not have mate we had no check and therefore might have
		// only quiet moves which we did not generate. We return the
		// standpat value in this case, already set in bestNodeValue.
	}

	// Store TT
	if Settings.Search.UseQSTT {
		s.storeTT(p, 1, ply, bestNodeMove, bestNodeValue, ttType, staticEval)
	}

	return bestNodeValue
}

// captureScore ranks captures by MVV/LVA - most valuable victim first,
// least valuable attacker as a tie breaker. En passant leaves no piece on
// the target square so the victim is assumed to be a pawn.
func captureScore(p *position.Position, m Move) int {
	attacker := p.PieceTypeAt(m.From())
	victim := p.PieceTypeAt(m.To())
	if victim == PtNone {
		victim = Pawn
	}
	return MvvLvaScore(attacker, victim)
}

// call evaluation on the position
func (s *Search) evaluate(p *position.Position, ply int) Value {
	s.statistics.LeafPositionsEvaluated++

	value := ValueNA

	if Settings.Search.UseTT && Settings.Search.UseEvalTT {
		ttEntry := s.tt.Probe(p.ZobristKey())
		if ttEntry != nil { // tt hit
			s.statistics.TTHit++
			eval := ttEntry.Eval()
			if eval != ValueNA {
				s.statistics.EvaluationsFromTT++
				value = eval
			}
		}
	}

	if value == ValueNA {
		s.statistics.Evaluations++
		if s.incEval != nil {
			value = s.incEval.EvaluateAt(p, ply)
		} else {
			value = s.eval.Evaluate(p)
		}
	}

	if Settings.Search.UseTT && Settings.Search.UseEvalTT {
		s.storeTT(p, 0, ply, MoveNone, ValueNA, ValueTypeNone, value)
	}

	return value
}

// reduce the number of moves searched in quiescence search by trying
// to only look at good captures.
func (s *Search) goodCapture(p *position.Position, move Move) bool {
	if Settings.Search.UseSEE {
		// Check SEE score of higher value pieces to low value pieces
		return see(p, move) > 0
	}
	attacker := p.PieceTypeAt(move.From())
	victim := p.PieceTypeAt(move.To())
	if victim == PtNone {
		victim = Pawn // en passant
	}
	// Lower value piece captures higher value piece, with a margin to
	// also look at e.g. Bishop x Knight, or an undefended target square.
	return attacker.Value()+50 < victim.Value() || !p.IsAttackedByEnemy(move.To())
}

// storeKiller remembers move as a refutation found at ply, keeping at
// most two distinct killers per ply (most recent first).
func (s *Search) storeKiller(ply int, move Move) {
	if ply >= len(s.killers) {
		return
	}
	if s.killers[ply][0] == move {
		return
	}
	s.killers[ply][1] = s.killers[ply][0]
	s.killers[ply][0] = move
}

// savePV adds the given move as first move to a cleared dest and the appends
// all src moves to dest
func savePV(move Move, src *moveslice.MoveSlice, dest *moveslice.MoveSlice) {
	dest.Clear()
	dest.PushBack(move)
	*dest = append(*dest, *src...)
}

// storeTT stores a position into the TT
func (s *Search) storeTT(p *position.Position, depth int, ply int, move Move, value Value, valueType ValueType, eval Value) {
	s.tt.Put(p.ZobristKey(), move, int8(depth), valueToTT(value, ply), valueType, eval)
}

// getPVLine fills the given pv move list with the pv moves starting from
// the given position as long as these positions are in the TT. Works by
// cloning forward through the TT chain - there is no undo to do since the
// clones are simply discarded.
func (s *Search) getPVLine(p *position.Position, pv *moveslice.MoveSlice, depth int) {
	pv.Clear()
	current := p
	counter := 0
	ttMatch := s.tt.GetEntry(current.ZobristKey())
	for ttMatch != nil && ttMatch.Move() != MoveNone && counter < depth {
		move := ttMatch.Move()
		pv.PushBack(move)
		current = current.Clone()
		current.Apply(move)
		counter++
		ttMatch = s.tt.GetEntry(current.ZobristKey())
	}
}

// correct the value for mate distance when storing to TT
func valueToTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			value = value + Value(ply)
		} else {
			value = value - Value(ply)
		}
	}
	return value
}

// correct the value for mate distance when reading from TT
func valueFromTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			value = value - Value(ply)
		} else {
			value = value + Value(ply)
		}
	}
	return value
}

// getSearchTraceLog returns an instance of a standard Logger preconfigured with a
// os.Stdout backend and a "normal" logging format (e.g. time - file - level)
// for usage in the search itself
func getSearchTraceLog() *logging.Logger {
	searchLog := logging.MustGetLogger("search")

	searchLogFormat := logging.MustStringFormatter(`%{time:15:04:05.000} %{level:-7.7s}:  %{message}`)

	backend1 := logging.NewLogBackend(os.Stdout, "", golog.Lmsgprefix)
	backend1Formatter := logging.NewBackendFormatter(backend1, searchLogFormat)
	searchBackEnd := logging.AddModuleLevel(backend1Formatter)
	searchBackEnd.SetLevel(logging.Level(SearchLogLevel), "")
	searchLog.SetBackend(searchBackEnd)

	// File backend
	programName, _ := os.Executable()
	exeName := strings.TrimSuffix(filepath.Base(programName), ".exe")

	// find log path
	logPath, err := util.ResolveFolder(Settings.Log.LogPath)
	if err != nil {
		golog.Println("Log folder could not be found:", err)
		return searchLog
	}
	searchLogFilePath := filepath.Join(logPath, exeName+"_search.log")

	// create file backend
	searchLogFile, err := os.OpenFile(searchLogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		golog.Println("Logfile could not be created:", err)
		return searchLog
	}
	backend2 := logging.NewLogBackend(searchLogFile, "", golog.Lmsgprefix)
	backend2Formatter := logging.NewBackendFormatter(backend2, searchLogFormat)
	searchBackEnd2 := logging.AddModuleLevel(backend2Formatter)
	searchBackEnd2.SetLevel(logging.DEBUG, "")
	searchLog.SetBackend(searchBackEnd2)
	searchLog.Infof("Log %s started at %s:", searchLogFile.Name(), time.Now().String())
	return searchLog
}
