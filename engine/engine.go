// Package engine implements the stateful façade handle for host
// embeddings: a single object wrapping one Board, one transposition table
// and one Searcher, with string/bool-typed operations and no suspension
// across the boundary.
package engine

import (
	"math/rand"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/arjunp/knightfall/board"
	"github.com/arjunp/knightfall/book"
	"github.com/arjunp/knightfall/internal/config"
	"github.com/arjunp/knightfall/internal/xlog"
	"github.com/arjunp/knightfall/movegen"
	"github.com/arjunp/knightfall/search"
	"github.com/arjunp/knightfall/tt"
	"github.com/arjunp/knightfall/types"
	"golang.org/x/sync/singleflight"
)

// bookLoads deduplicates concurrent loads of the same book file path, so a
// fleet of Handle constructions racing at startup reads each book image
// from disk exactly once.
var bookLoads singleflight.Group

// Handle is the stateful façade: construct once, then drive it through
// position setup, move application and search calls.
type Handle struct {
	b        *board.Board
	table    *tt.Table
	searcher *search.Searcher
	book     *book.Book
	rng      *rand.Rand

	keyHistory []uint64
	stopFlag   atomic.Bool
	nodeCheck  int
}

// Options configures New.
type Options struct {
	TTSizeBytes int
	Book        *book.Book
	NodeCheck   int // nodes between clock checks; 0 selects search's default
}

// New constructs a Handle with its own transposition table, starting at
// the standard position. The table lives as long as the Handle that owns
// it.
func New(opts Options) *Handle {
	size := opts.TTSizeBytes
	if size <= 0 {
		size = 512 << 20
	}
	table := tt.New(size)
	h := &Handle{
		b:         board.NewGame(),
		table:     table,
		searcher:  search.New(table),
		book:      opts.Book,
		rng:       rand.New(rand.NewSource(1)),
		nodeCheck: opts.NodeCheck,
	}
	h.keyHistory = append(h.keyHistory, h.b.Key)
	return h
}

// NewFromConfig builds a Handle sized and booked per cfg, loading the
// Polyglot book from cfg.Book.Path if enabled. A missing or malformed book
// is logged and the engine continues without one; it is never fatal.
func NewFromConfig(cfg config.Config) *Handle {
	var bk *book.Book
	if cfg.Book.Enabled && cfg.Book.Path != "" {
		v, err, _ := bookLoads.Do(cfg.Book.Path, func() (interface{}, error) {
			data, err := os.ReadFile(cfg.Book.Path)
			if err != nil {
				return nil, err
			}
			return book.Load(data)
		})
		if err != nil {
			xlog.Warningf("book: could not load %s: %v (continuing without book)", cfg.Book.Path, err)
		} else {
			bk = v.(*book.Book)
		}
	}
	return New(Options{TTSizeBytes: cfg.TT.SizeMiB << 20, Book: bk, NodeCheck: cfg.Search.NodeCheckInterval})
}

// NewGame resets to the standard starting position and clears the TT's
// contents so stale lines never bleed across unrelated games. The attack
// and Zobrist tables are kept.
func (h *Handle) NewGame() {
	h.b = board.NewGame()
	h.keyHistory = h.keyHistory[:0]
	h.keyHistory = append(h.keyHistory, h.b.Key)
	h.table.Clear()
}

// SetPositionFEN replaces the board with the position described by fen,
// reporting false (leaving the board unchanged) on a malformed string.
func (h *Handle) SetPositionFEN(fen string) bool {
	nb, err := board.FromFEN(fen)
	if err != nil {
		return false
	}
	h.b = nb
	h.keyHistory = h.keyHistory[:0]
	h.keyHistory = append(h.keyHistory, h.b.Key)
	return true
}

// SetPositionStartpos resets to the initial position, then applies each
// UCI move in movesStr (space-separated), stopping (but not reverting
// earlier moves) at the first illegal one.
func (h *Handle) SetPositionStartpos(movesStr string) {
	h.b = board.NewGame()
	h.keyHistory = h.keyHistory[:0]
	h.keyHistory = append(h.keyHistory, h.b.Key)
	for _, uci := range strings.Fields(movesStr) {
		if !h.ApplyMove(uci) {
			return
		}
	}
}

// ApplyMove parses uci and plays it if legal, reporting whether it applied.
func (h *Handle) ApplyMove(uci string) bool {
	m, ok := h.findLegalUCI(uci)
	if !ok {
		return false
	}
	if !h.b.Make(m) {
		return false
	}
	h.keyHistory = append(h.keyHistory, h.b.Key)
	return true
}

// IsMoveLegal reports whether uci names a legal move in the current
// position, without applying it.
func (h *Handle) IsMoveLegal(uci string) bool {
	_, ok := h.findLegalUCI(uci)
	return ok
}

// MakeResult is the result of MakeMove: whether it applied, the resulting
// FEN, and the game status after the move.
type MakeResult struct {
	Valid  bool
	FEN    string
	Status types.GameStatus
}

// MakeMove applies uci and reports the resulting FEN and game status.
func (h *Handle) MakeMove(uci string) MakeResult {
	if !h.ApplyMove(uci) {
		return MakeResult{Valid: false}
	}
	return MakeResult{Valid: true, FEN: h.b.FEN(), Status: h.Status()}
}

// GetLegalMoves returns every legal move in UCI notation.
func (h *Handle) GetLegalMoves() []string {
	var list types.MoveList
	movegen.Legal(h.b, &list)
	out := make([]string, 0, list.Count)
	for _, m := range list.Slice() {
		out = append(out, m.UCI())
	}
	return out
}

// GetLegalMovesForSquare returns every legal move in UCI notation whose
// origin is sq (algebraic, e.g. "e2").
func (h *Handle) GetLegalMovesForSquare(sq string) []string {
	origin := types.SquareFromString(sq)
	var list types.MoveList
	movegen.Legal(h.b, &list)
	var out []string
	for _, m := range list.Slice() {
		if m.From() == origin {
			out = append(out, m.UCI())
		}
	}
	return out
}

// SearchOutcome is the result of GoDepth/GoMovetime.
type SearchOutcome struct {
	BestMove string
	Score    int
	IsMate   bool
	MateIn   int
	FromBook bool
}

// GoDepth searches to a fixed depth, first probing the opening book.
func (h *Handle) GoDepth(depth int) SearchOutcome {
	return h.search(search.Limits{Depth: depth}, nil)
}

// GoMovetime searches for up to the given duration.
func (h *Handle) GoMovetime(d time.Duration) SearchOutcome {
	return h.search(search.Limits{MoveTime: d}, nil)
}

// SearchWithInfo runs limits and invokes onInfo after every completed
// iterative-deepening iteration, for callers (the UCI protocol loop) that
// stream `info` lines.
func (h *Handle) SearchWithInfo(limits search.Limits, onInfo func(search.Info)) SearchOutcome {
	return h.search(limits, onInfo)
}

func (h *Handle) search(limits search.Limits, onInfo func(search.Info)) SearchOutcome {
	if m, ok := h.probeBook(); ok {
		return SearchOutcome{BestMove: m.UCI(), FromBook: true}
	}

	if limits.NodeCheck <= 0 {
		limits.NodeCheck = h.nodeCheck
	}

	h.stopFlag.Store(false)
	result := h.searcher.Run(h.b, limits, h.keyHistory, &h.stopFlag, onInfo)
	out := SearchOutcome{
		BestMove: result.BestMove.UCI(),
		Score:    result.Info.Score,
		IsMate:   result.Info.IsMate,
		MateIn:   result.Info.MateIn,
	}
	return out
}

func (h *Handle) probeBook() (types.Move, bool) {
	if h.book == nil {
		return 0, false
	}
	var list types.MoveList
	movegen.Legal(h.b, &list)
	return book.Lookup(h.book, boardView{h.b}, h.b.SideToMove, list.Slice(), h.rng)
}

// Stop raises the cooperative stop flag the searcher polls at node
// boundaries. Safe to call from another goroutine while a search is
// running.
func (h *Handle) Stop() { h.stopFlag.Store(true) }

// GetFEN returns the current position's FEN.
func (h *Handle) GetFEN() string { return h.b.FEN() }

// SideToMove reports which color is to move.
func (h *Handle) SideToMove() types.Color { return h.b.SideToMove }

// Status derives the current game status: active, mate/stalemate, or one
// of the draw conditions.
func (h *Handle) Status() types.GameStatus {
	var list types.MoveList
	movegen.Legal(h.b, &list)

	if list.Count == 0 {
		if h.b.InCheck() {
			return types.StatusCheckmate
		}
		return types.StatusStalemate
	}
	if h.b.HalfmoveClock >= 150 {
		return types.StatusDrawSeventyFiveMv
	}
	if h.b.HalfmoveClock >= 100 {
		return types.StatusDrawFiftyMove
	}
	if reps := countKey(h.keyHistory, h.b.Key); reps >= 5 {
		return types.StatusDrawFivefold
	} else if reps >= 3 {
		return types.StatusDrawThreefold
	}
	if isDeadPosition(h.b) {
		return types.StatusDrawInsufficient
	}
	return types.StatusActive
}

// isDeadPosition reports the same bare-kings/lone-minor/same-colored-bishop
// insufficient material patterns search.insufficientMaterial checks during
// the tree search, duplicated here in miniature since the façade's status
// query has no Searcher of its own position to ask.
func isDeadPosition(b *board.Board) bool {
	if b.Piece(types.WPawn) != 0 || b.Piece(types.BPawn) != 0 ||
		b.Piece(types.WRook) != 0 || b.Piece(types.BRook) != 0 ||
		b.Piece(types.WQueen) != 0 || b.Piece(types.BQueen) != 0 {
		return false
	}

	wn, bn := b.Piece(types.WKnight).PopCount(), b.Piece(types.BKnight).PopCount()
	wb, bb := b.Piece(types.WBishop).PopCount(), b.Piece(types.BBishop).PopCount()
	wMinors, bMinors := wn+wb, bn+bb

	if wn == 0 && bn == 0 && wb == 1 && bb == 1 {
		wSq := types.Square(b.Piece(types.WBishop).LSB())
		bSq := types.Square(b.Piece(types.BBishop).LSB())
		return bishopSquareColor(wSq) == bishopSquareColor(bSq)
	}
	return wMinors <= 1 && bMinors <= 1 && wMinors+bMinors <= 1
}

func bishopSquareColor(sq types.Square) int {
	return (sq.File() + sq.Rank()) & 1
}

func countKey(history []uint64, key uint64) int {
	n := 0
	for _, k := range history {
		if k == key {
			n++
		}
	}
	return n
}

func (h *Handle) findLegalUCI(uci string) (types.Move, bool) {
	var list types.MoveList
	movegen.Legal(h.b, &list)
	for _, m := range list.Slice() {
		if m.UCI() == uci {
			return m, true
		}
	}
	return 0, false
}

// boardView adapts board.Board to book.position without book importing
// board, keeping the dependency direction one-way (engine depends on both,
// neither depends on the other).
type boardView struct{ b *board.Board }

func (v boardView) SideToMove() types.Color             { return v.b.SideToMove }
func (v boardView) CastlingRights() types.CastlingRights { return v.b.Castling }
func (v boardView) EnPassantSquare() types.Square        { return v.b.EPSquare }
func (v boardView) PieceBitboard(p types.Piece) uint64   { return uint64(v.b.Piece(p)) }
func (v boardView) PawnBitboard(c types.Color) uint64 {
	return uint64(v.b.Piece(types.NewPiece(c, types.Pawn)))
}
