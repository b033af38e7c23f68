// Package search implements iterative-deepening negamax alpha-beta with
// the principal-variation-search refinement, transposition-table
// integration, quiescence search, and cooperative time/stop-flag
// termination.
package search

import (
	"sync/atomic"
	"time"

	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/eval"
	"github.com/arjunp/knightfall/movegen"
	"github.com/arjunp/knightfall/tt"
	"github.com/arjunp/knightfall/types"
)

// Mate is the score awarded for delivering checkmate at ply 0; a mate found
// N plies deep scores Mate-N, so shorter mates are always preferred.
const Mate = 1_000_000

const maxPly = 128

// Limits bounds one search, mirroring the protocol's `go` option set.
type Limits struct {
	Depth     int // 0 = unbounded (use MoveTime/Infinite instead)
	MoveTime  time.Duration
	Infinite  bool
	NodeCheck int // nodes between clock checks; 0 selects a default
}

// Info is reported once per completed iterative-deepening iteration.
type Info struct {
	Depth   int
	Score   int
	IsMate  bool
	MateIn  int
	Nodes   uint64
	Elapsed time.Duration
	PV      []types.Move
}

// Result is the final outcome of a Run call.
type Result struct {
	BestMove types.Move
	Info     Info
}

// Searcher owns the mutable state of one search: node counter, killer
// table, and the cooperative stop flag. The search itself is strictly
// single-threaded; only the stop flag may be touched from outside.
type Searcher struct {
	tt      *tt.Table
	killers [maxPly][2]types.Move

	nodes     uint64
	nodeCheck int
	deadline  time.Time
	stop      bool
	stopFlag  *atomic.Bool

	// history is the Zobrist-key stack of positions already reached this
	// game (for threefold detection), plus every position visited on the
	// current search path.
	history []uint64
}

// New builds a Searcher bound to table for the lifetime of the engine
// handle that owns it.
func New(table *tt.Table) *Searcher {
	return &Searcher{tt: table}
}

// Run executes iterative deepening from depth 1 to limits.Depth (or until
// time/stop terminates it), calling onInfo after each completed iteration.
// gameHistory is the sequence of Zobrist keys of positions already reached
// this game, oldest first and ending with the current position if the
// caller tracks it, used for threefold repetition. stopFlag may be set from
// another goroutine; the searcher polls it at node boundaries.
func (s *Searcher) Run(b *board.Board, limits Limits, gameHistory []uint64, stopFlag *atomic.Bool, onInfo func(Info)) Result {
	s.nodes = 0
	s.stop = false
	s.stopFlag = stopFlag
	s.tt.NewSearch()
	s.history = append([]uint64(nil), gameHistory...)
	if n := len(s.history); n == 0 || s.history[n-1] != b.Key {
		s.history = append(s.history, b.Key)
	}
	s.nodeCheck = limits.NodeCheck
	if s.nodeCheck <= 0 {
		s.nodeCheck = 2048
	}

	start := time.Now()
	s.deadline = time.Time{}
	if limits.MoveTime > 0 {
		s.deadline = start.Add(limits.MoveTime)
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = maxPly - 1
	}

	// Seed the result with the first legal root move, so an interruption
	// during the very first iteration (a short movetime tripping inside
	// quiescence, before anything reaches the TT) still returns a real
	// move rather than the zero value.
	var best Result
	var rootMoves types.MoveList
	movegen.Legal(b, &rootMoves)
	if rootMoves.Count > 0 {
		best = Result{BestMove: rootMoves.Moves[0]}
	}

	for depth := 1; depth <= maxDepth; depth++ {
		for i := range s.killers {
			s.killers[i] = [2]types.Move{}
		}

		score := s.negamax(b, -Mate-1, Mate+1, depth, 0)

		if s.stop {
			break
		}

		pv := s.extractPV(b, depth)
		info := Info{
			Depth:   depth,
			Nodes:   s.nodes,
			Elapsed: time.Since(start),
			PV:      pv,
		}
		if score > Mate-1000 {
			info.IsMate = true
			info.MateIn = (Mate - score + 1) / 2
		} else if score < -Mate+1000 {
			info.IsMate = true
			info.MateIn = -((Mate + score + 1) / 2)
		} else {
			info.Score = score
		}

		if len(pv) > 0 {
			best = Result{BestMove: pv[0], Info: info}
		}
		if onInfo != nil {
			onInfo(info)
		}

		if s.stop {
			break
		}
		if limits.MoveTime > 0 && time.Now().After(s.deadline) {
			break
		}
	}

	return best
}

func (s *Searcher) timeUp() bool {
	if s.stopFlag != nil && s.stopFlag.Load() {
		return true
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		return true
	}
	return false
}

func (s *Searcher) checkStop() {
	s.nodes++
	if s.nodes%uint64(s.nodeCheck) == 0 && s.timeUp() {
		s.stop = true
	}
}

// negamax searches to remaining depth, returning a score from the side to
// move's perspective. ply is the distance from the search root, used for
// mate-distance scoring and killer-move slotting.
func (s *Searcher) negamax(b *board.Board, alpha, beta, depth, ply int) int {
	if s.stop {
		return 0
	}
	s.checkStop()
	if s.stop {
		return 0
	}

	if ply > 0 {
		if drawn, _ := s.isDraw(b); drawn {
			return 0
		}
	}

	if depth <= 0 {
		return s.quiescence(b, alpha, beta, ply)
	}

	alphaOrig := alpha

	var ttMove types.Move
	if entry, ok := s.tt.Probe(b.Key, ply); ok {
		ttMove = entry.Move
		if int(entry.Depth) >= depth {
			switch entry.Bound {
			case types.Exact:
				return int(entry.Score)
			case types.LowerBound:
				if int(entry.Score) >= beta {
					return int(entry.Score)
				}
			case types.UpperBound:
				if int(entry.Score) <= alpha {
					return int(entry.Score)
				}
			}
		}
	}

	var moves types.MoveList
	movegen.Pseudo(b, &moves)
	ordered := orderMoves(b, moves.Slice(), ttMove, s.killers[ply])

	legalCount := 0
	best := -Mate - 1
	var bestMove types.Move

	for _, m := range ordered {
		if !b.Make(m) {
			continue
		}
		legalCount++
		s.history = append(s.history, b.Key)

		var score int
		if legalCount == 1 {
			score = -s.negamax(b, -beta, -alpha, depth-1, ply+1)
		} else {
			score = -s.negamax(b, -alpha-1, -alpha, depth-1, ply+1)
			if score > alpha && score < beta {
				score = -s.negamax(b, -beta, -alpha, depth-1, ply+1)
			}
		}

		s.history = s.history[:len(s.history)-1]
		b.Unmake()

		if s.stop {
			return 0
		}

		if score > best {
			best = score
			bestMove = m
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			if !m.Flag().IsCapture() && !m.Flag().IsPromotion() {
				s.recordKiller(ply, m)
			}
			break
		}
	}

	if legalCount == 0 {
		if b.InCheck() {
			return -Mate + ply
		}
		return 0
	}

	bound := types.Exact
	if best <= alphaOrig {
		bound = types.UpperBound
	} else if best >= beta {
		bound = types.LowerBound
	}
	s.tt.Store(b.Key, bound, depth, best, bestMove, ply)

	return best
}

// quiescence extends search through captures (and queen promotions) past
// the horizon, so a position with a capture pending is never misjudged at
// the nominal depth limit.
func (s *Searcher) quiescence(b *board.Board, alpha, beta, ply int) int {
	s.checkStop()
	if s.stop {
		return 0
	}

	standPat := eval.Evaluate(b)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	var moves types.MoveList
	movegen.Captures(b, &moves)
	ordered := orderMoves(b, moves.Slice(), 0, [2]types.Move{})

	for _, m := range ordered {
		if !b.Make(m) {
			continue
		}
		score := -s.quiescence(b, -beta, -alpha, ply+1)
		b.Unmake()

		if s.stop {
			return 0
		}
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

func (s *Searcher) recordKiller(ply int, m types.Move) {
	if s.killers[ply][0] == m {
		return
	}
	s.killers[ply][1] = s.killers[ply][0]
	s.killers[ply][0] = m
}

// isDraw reports whether b is a draw under any of the halfmove-clock,
// threefold-repetition or insufficient-material rules.
func (s *Searcher) isDraw(b *board.Board) (bool, types.GameStatus) {
	if b.HalfmoveClock >= 100 {
		return true, types.StatusDrawFiftyMove
	}
	if count := countRepetitions(s.history, b.Key); count >= 3 {
		return true, types.StatusDrawThreefold
	}
	if insufficientMaterial(b) {
		return true, types.StatusDrawInsufficient
	}
	return false, types.StatusActive
}

func countRepetitions(history []uint64, key uint64) int {
	n := 0
	for _, k := range history {
		if k == key {
			n++
		}
	}
	return n
}

// insufficientMaterial recognizes the dead-material patterns: K vs K,
// K+minor vs K, K+B vs K+B with same-colored bishops.
func insufficientMaterial(b *board.Board) bool {
	if b.Piece(types.WPawn) != 0 || b.Piece(types.BPawn) != 0 {
		return false
	}
	if b.Piece(types.WRook) != 0 || b.Piece(types.BRook) != 0 ||
		b.Piece(types.WQueen) != 0 || b.Piece(types.BQueen) != 0 {
		return false
	}

	wn, bn := b.Piece(types.WKnight).PopCount(), b.Piece(types.BKnight).PopCount()
	wb, bb := b.Piece(types.WBishop).PopCount(), b.Piece(types.BBishop).PopCount()

	wMinor, bMinor := wn+wb, bn+bb
	if wMinor == 0 && bMinor == 0 {
		return true
	}
	if wMinor == 1 && bMinor == 0 && wn+bn == 0 || wMinor == 0 && bMinor == 1 && wn+bn == 0 {
		return true
	}
	if wn == 0 && bn == 0 && wb == 1 && bb == 1 {
		wSq := types.Square(b.Piece(types.WBishop).LSB())
		bSq := types.Square(b.Piece(types.BBishop).LSB())
		return squareColor(wSq) == squareColor(bSq)
	}
	if wMinor <= 1 && bMinor <= 1 && wn+bn <= 1 && wb+bb <= 1 && wMinor+bMinor <= 1 {
		return true
	}
	return false
}

func squareColor(sq types.Square) int {
	return (sq.File() + sq.Rank()) & 1
}

// extractPV walks stored TT best moves from the root, truncating on a
// missing entry, a move the position cannot actually play (a tag
// collision), or a repeated key (a cycle).
func (s *Searcher) extractPV(b *board.Board, maxLen int) []types.Move {
	var pv []types.Move
	seen := map[uint64]bool{}
	cur := b

	for i := 0; i < maxLen; i++ {
		entry, ok := s.tt.Probe(cur.Key, 0)
		if !ok || entry.Move.IsNull() {
			break
		}
		if seen[cur.Key] {
			break
		}
		seen[cur.Key] = true

		if !isGenerated(cur, entry.Move) || !cur.Make(entry.Move) {
			break
		}
		pv = append(pv, entry.Move)
	}

	for range pv {
		cur.Unmake()
	}
	return pv
}

// isGenerated reports whether m is among the position's pseudo-legal moves,
// guarding Make against a TT entry whose move belongs to a colliding key.
func isGenerated(b *board.Board, m types.Move) bool {
	var moves types.MoveList
	movegen.Pseudo(b, &moves)
	for _, gm := range moves.Slice() {
		if gm == m {
			return true
		}
	}
	return false
}
