package engine

import "github.com/tomholub/chesscore/internal/board"

// cacheEntry is the cached result of a fully explored subtree: the best
// score found and the half-move sequence (PV suffix) that achieved it.
type cacheEntry struct {
	score int
	pv    []board.Move
}

// depthCache is a sequence of per-depth maps from position fingerprint to
// cacheEntry, grown on demand as iterative deepening reaches new depths.
// Index i holds entries for remainingDepth == i+1.
type depthCache struct {
	levels []map[uint64]cacheEntry
}

// newDepthCache returns an empty cache; levels are allocated lazily.
func newDepthCache() *depthCache {
	return &depthCache{}
}

func (c *depthCache) level(remainingDepth int) map[uint64]cacheEntry {
	idx := remainingDepth - 1
	for len(c.levels) <= idx {
		c.levels = append(c.levels, nil)
	}
	if c.levels[idx] == nil {
		c.levels[idx] = make(map[uint64]cacheEntry)
	}
	return c.levels[idx]
}

// Probe looks up hash at the cache level for remainingDepth.
func (c *depthCache) Probe(remainingDepth int, hash uint64) (cacheEntry, bool) {
	if remainingDepth <= 0 {
		return cacheEntry{}, false
	}
	entry, ok := c.level(remainingDepth)[hash]
	return entry, ok
}

// Store records a fully explored subtree's result at the cache level for
// remainingDepth.
func (c *depthCache) Store(remainingDepth int, hash uint64, score int, pv []board.Move) {
	if remainingDepth <= 0 {
		return
	}
	c.level(remainingDepth)[hash] = cacheEntry{score: score, pv: pv}
}

// Clear drops every cached level. Called on ucinewgame.
func (c *depthCache) Clear() {
	c.levels = nil
}
