package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomholub/chesscore/internal/board"
)

// SearchInfo is reported to the UCI controller as the search progresses,
// one iterative-deepening depth at a time.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// SearchLimits mirrors the UCI `go` parameters a caller may combine:
// Infinite and Nodes stand alone, Depth and MoveTime may combine with
// each other or with a wall-clock budget derived from the clock fields.
type SearchLimits struct {
	Depth    int
	Nodes    uint64
	MoveTime time.Duration
	Infinite bool
}

// SearchResult is the outcome of SearchWithLimits: the best move found and
// the depth/score/PV at which it was found.
type SearchResult struct {
	Move  board.Move
	Score int
	PV    []board.Move
	Depth int
}

// Engine holds the mutable state shared across UCI commands: the current
// position, the per-depth cache, and the repetition history of the game in
// progress. Every exported method except Stop acquires mu, so concurrent UCI
// command goroutines never observe a half-updated position. Exactly one
// goroutine runs a search at a time; SearchWithLimits is the sole blocking
// call a command goroutine makes while the search runs, and Stop may be
// called concurrently from another goroutine to interrupt it. The search
// itself reads and writes the per-depth cache without holding mu.
type Engine struct {
	mu sync.Mutex

	pos      *board.Position
	cache    *depthCache
	stopFlag atomic.Bool

	// history holds the fingerprint of every position reached so far in
	// the current game, root position included, used for threefold
	// repetition detection across both game history and search lines.
	history []uint64

	// OnInfo, if set, is invoked once per completed iterative-deepening
	// depth with the running best line.
	OnInfo func(SearchInfo)
}

// NewEngine returns an Engine positioned at the standard starting position.
// hashSizeMB is accepted for UCI Hash-option compatibility; the per-depth
// cache it backs grows lazily rather than being preallocated to a fixed
// byte budget.
func NewEngine(hashSizeMB int) *Engine {
	e := &Engine{
		pos:   board.NewPosition(),
		cache: newDepthCache(),
	}
	e.history = append(e.history, e.pos.Hash)
	return e
}

// SetPosition installs pos as the engine's current position and resets the
// repetition history to contain only pos itself. Used by the UCI `position`
// command, which always supplies a complete position (startpos or FEN) plus
// the moves to replay from it.
func (e *Engine) SetPosition(pos *board.Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pos = pos
	e.history = e.history[:0]
	e.history = append(e.history, pos.Hash)
}

// Push applies m to the engine's current position and records the
// resulting fingerprint in the repetition history. Used as `position`
// replays its move list, and to advance the game after a search completes.
func (e *Engine) Push(m board.Move) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pos.Apply(m)
	e.history = append(e.history, e.pos.Hash)
}

// Position returns a snapshot of the engine's current position.
func (e *Engine) Position() *board.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos.Clone()
}

// priorCounts builds the occurrence map the searcher uses for repetition
// detection, counting every position the actual game has passed through so
// far (the current position included).
func (e *Engine) priorCounts() map[uint64]int {
	counts := make(map[uint64]int, len(e.history))
	for _, h := range e.history {
		counts[h]++
	}
	return counts
}

// SearchWithLimits runs iterative deepening from the engine's current
// position until limits are exhausted or Stop is called, reporting each
// completed depth via OnInfo. A depth that aborts mid-search is discarded;
// the result reflects the deepest depth that finished exploring every
// root move.
func (e *Engine) SearchWithLimits(limits SearchLimits) SearchResult {
	e.mu.Lock()
	rootPos := e.pos.Clone()
	cache := e.cache
	priorCounts := e.priorCounts()
	e.mu.Unlock()

	e.stopFlag.Store(false)

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = time.Now().Add(limits.MoveTime)
	}

	s := newSearcher(cache, &e.stopFlag, priorCounts)
	s.policy = terminationPolicy{
		infinite: limits.Infinite,
		nodes:    limits.Nodes,
		depth:    maxDepth,
		deadline: deadline,
	}

	maximizing := rootPos.SideToMove == board.White
	startTime := time.Now()

	result := SearchResult{Move: board.NoMove}

	root := newSearchNode(rootPos)
	for depth := 1; depth <= maxDepth; depth++ {
		score, pv := s.minimax(root, maximizing, -Infinity, Infinity, depth)

		if score == abortMin || score == abortMax {
			break // partial depth discarded; keep the previous depth's result
		}

		if len(pv) == 0 {
			break // no legal moves at the root: checkmate or stalemate
		}

		result = SearchResult{Move: pv[0], Score: score, PV: pv, Depth: depth}

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth: depth,
				Score: score,
				Nodes: s.nodes,
				Time:  time.Since(startTime),
				PV:    pv,
			})
		}

		if score >= MateScore-MaxPly || score <= -(MateScore-MaxPly) {
			break
		}
		if s.shouldAbort() {
			break
		}
	}

	return result
}

// Stop requests the current search to abort at its next suspension point.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
}

// Clear drops the per-depth cache and resets repetition history to the
// current position, used by the UCI `ucinewgame` command.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache.Clear()
	e.history = e.history[:0]
	e.history = append(e.history, e.pos.Hash)
}

// Perft counts the leaf nodes reached after depth plies of every legal
// move, used to validate the move generator against known node counts.
// Unlike the search path, Perft exercises MakeMove/Unmake rather than
// Clone/Apply, since it is the one caller that needs that cheaper cycle to
// stay correct.
func Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegal()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		nodes += Perft(pos, depth-1)
		pos.Unmake(m, undo)
	}
	return nodes
}

// ScoreToString renders a search score as a human-readable mate or
// centipawn figure, for diagnostic output outside the UCI `info` line
// (which uses its own `cp`/`mate` token format).
func ScoreToString(score int) string {
	if score > MateScore-MaxPly {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+MaxPly {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100
	return sign + itoa(pawns) + "." + itoa(centipawns)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
