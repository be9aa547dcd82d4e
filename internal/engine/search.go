package engine

import (
	"sync/atomic"
	"time"

	"github.com/tomholub/chesscore/internal/board"
)

// Search score constants. Scores strictly inside ±(MateScore-MaxPly) are
// material/positional; scores from there out to ±MateScore are forced-mate
// scores. ±Infinity is the root search window.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// Sentinel values returned by an aborted minimax call. They sit far outside
// the cp/mate score range so a caller can recognize an abort by equality
// rather than by magnitude, per the cooperative-cancellation design.
const (
	abortMax = 1 << 30
	abortMin = -(1 << 30)
)

// searchEdge is one outgoing half-move from a searchNode, holding the
// lazily-materialized child and the score cached from whichever prior
// iterative-deepening iteration last fully explored it.
type searchEdge struct {
	move     board.Move
	child    *searchNode
	score    int
	hasScore bool
}

// searchNode is an ephemeral node of the search tree built fresh for each
// `go` command and discarded when it completes.
type searchNode struct {
	pos      *board.Position
	children []*searchEdge
	expanded bool
}

func newSearchNode(pos *board.Position) *searchNode {
	return &searchNode{pos: pos}
}

func (n *searchNode) expand() {
	if n.expanded {
		return
	}
	moves := n.pos.GenerateLegal()
	n.children = make([]*searchEdge, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		child := n.pos.Clone()
		child.Apply(m)
		n.children[i] = &searchEdge{move: m, child: newSearchNode(child)}
	}
	n.expanded = true
}

// terminationPolicy bounds a single `go` command's search: depth and
// movetime may combine, while infinite and nodes each stand alone.
type terminationPolicy struct {
	infinite bool
	nodes    uint64
	depth    int
	deadline time.Time
}

// searcher runs iterative deepening over a single search tree, probing and
// storing the engine's per-depth cache and observing a shared stop flag.
// priorCounts holds fingerprint occurrence counts from the game played so
// far (outside this search); pathCounts tracks occurrences introduced by
// the moves this search itself is exploring, so a position repeated partly
// in game history and partly within the search tree is still caught.
type searcher struct {
	cache       *depthCache
	stopFlag    *atomic.Bool
	policy      terminationPolicy
	nodes       uint64
	priorCounts map[uint64]int
	pathCounts  map[uint64]int
}

func newSearcher(cache *depthCache, stopFlag *atomic.Bool, priorCounts map[uint64]int) *searcher {
	return &searcher{cache: cache, stopFlag: stopFlag, priorCounts: priorCounts, pathCounts: make(map[uint64]int)}
}

// isRepetition reports whether hash has now occurred a third time, counting
// both prior game history and the moves explored earlier on this path.
func (s *searcher) isRepetition(hash uint64) bool {
	return s.priorCounts[hash]+s.pathCounts[hash] >= 3
}

// shouldAbort reports whether the search must stop now: an external
// stop/quit, the node budget exhausted, or the wall-clock deadline passed.
// Checked once per evaluated node, bounding stop latency to a single node.
func (s *searcher) shouldAbort() bool {
	if s.stopFlag.Load() {
		return true
	}
	if s.policy.nodes > 0 && s.nodes >= s.policy.nodes {
		return true
	}
	if !s.policy.deadline.IsZero() && time.Now().After(s.policy.deadline) {
		return true
	}
	return false
}

// minimax implements the search core described in the component design:
// cache probe, abort check, lazy expansion, capture-only frontier at
// remainingDepth 0, cached-score move ordering, alpha-beta recursion with a
// mate-score shortcut, and cache store on a fully explored subtree.
func (s *searcher) minimax(node *searchNode, maximizing bool, alpha, beta, remainingDepth int) (int, []board.Move) {
	hash := node.pos.Hash

	if s.isRepetition(hash) {
		return 0, nil
	}

	if remainingDepth > 0 {
		if entry, ok := s.cache.Probe(remainingDepth, hash); ok {
			return entry.score, entry.pv
		}
	}

	if s.shouldAbort() {
		if maximizing {
			return abortMin, nil
		}
		return abortMax, nil
	}
	s.nodes++

	s.pathCounts[hash]++
	defer func() { s.pathCounts[hash]-- }()

	if node.pos.HalfMoveClock >= 100 || node.pos.IsInsufficientMaterial() {
		return 0, nil
	}

	node.expand()

	if remainingDepth == 0 {
		return s.quiesce(node, maximizing, alpha, beta)
	}

	if len(node.children) == 0 {
		if node.pos.InCheck() {
			// Checkmate: worst possible score for whichever side is on move
			// here, since absolute (White-positive) scoring has no negamax
			// flip at the leaves — the maximizer being mated scores -MateScore,
			// the minimizer being mated (White has just delivered mate) scores
			// +MateScore.
			if maximizing {
				return -MateScore, nil
			}
			return MateScore, nil
		}
		return 0, nil // stalemate
	}

	orderChildren(node.children, maximizing)

	best := abortMin
	if !maximizing {
		best = abortMax
	}
	var bestPV []board.Move
	aborted := false
	cutoff := false

	for _, edge := range node.children {
		childScore, childPV := s.minimax(edge.child, !maximizing, alpha, beta, remainingDepth-1)

		if childScore == abortMin || childScore == abortMax {
			aborted = true
			break
		}

		edge.score = childScore
		edge.hasScore = true

		if maximizing {
			if childScore > best {
				best = childScore
				bestPV = append([]board.Move{edge.move}, childPV...)
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if childScore < best {
				best = childScore
				bestPV = append([]board.Move{edge.move}, childPV...)
			}
			if best < beta {
				beta = best
			}
		}

		if beta <= alpha {
			cutoff = true
			break
		}
		if maximizing && alpha >= MateScore-MaxPly {
			cutoff = true
			break
		}
		if !maximizing && beta <= -(MateScore-MaxPly) {
			cutoff = true
			break
		}
	}

	if aborted {
		if maximizing {
			return abortMin, nil
		}
		return abortMax, nil
	}

	// Only a subtree explored to its natural end (no alpha-beta cutoff) has
	// an exact score; a cutoff score is merely a bound and would poison the
	// cache for a sibling probing at a different window.
	if remainingDepth > 0 && !cutoff {
		s.cache.Store(remainingDepth, hash, best, bestPV)
	}
	return best, bestPV
}

// quiesce is the remainingDepth==0 frontier policy: only capture moves
// extend the search, so purely quiet leaves stop here at the static
// evaluation.
func (s *searcher) quiesce(node *searchNode, maximizing bool, alpha, beta int) (int, []board.Move) {
	captureEdges := make([]*searchEdge, 0, len(node.children))
	for _, edge := range node.children {
		if edge.move.IsCapture() {
			captureEdges = append(captureEdges, edge)
		}
	}
	if len(captureEdges) == 0 {
		return Evaluate(node.pos), nil
	}

	orderChildren(captureEdges, maximizing)

	best := abortMin
	if !maximizing {
		best = abortMax
	}
	var bestPV []board.Move

	for _, edge := range captureEdges {
		if s.shouldAbort() {
			if maximizing {
				return abortMin, nil
			}
			return abortMax, nil
		}
		s.nodes++
		edge.child.expand()
		childScore, childPV := s.quiesce(edge.child, !maximizing, alpha, beta)
		if childScore == abortMin || childScore == abortMax {
			if maximizing {
				return abortMin, nil
			}
			return abortMax, nil
		}

		if maximizing {
			if childScore > best {
				best = childScore
				bestPV = append([]board.Move{edge.move}, childPV...)
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if childScore < best {
				best = childScore
				bestPV = append([]board.Move{edge.move}, childPV...)
			}
			if best < beta {
				beta = best
			}
		}
		if beta <= alpha {
			break
		}
	}
	return best, bestPV
}

// orderChildren sorts edges by their cached score from a prior iteration:
// ascending for the maximizer (its current best is probed last, tightening
// the window sooner for siblings), descending for the minimizer. Edges with
// no cached score (hasScore false, score 0) sort by the same key and simply
// fall wherever a zero score lands.
func orderChildren(edges []*searchEdge, maximizing bool) {
	less := func(i, j int) bool { return edges[i].score < edges[j].score }
	if !maximizing {
		less = func(i, j int) bool { return edges[i].score > edges[j].score }
	}
	for i := 1; i < len(edges); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			edges[j], edges[j-1] = edges[j-1], edges[j]
		}
	}
}
