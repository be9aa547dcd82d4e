package board

import "math/bits"

// SquareSet is a set of board squares, used to keep the per-color and
// all-occupied piece-index sets in sync with the mailbox array (Data
// Model invariant P1). It is a plain membership set, not a sliding-attack
// structure — attack generation walks the mailbox directly (attacks.go).
type SquareSet uint64

// EmptySet is the set containing no squares.
const EmptySet SquareSet = 0

// Add returns the set with sq added.
func (s SquareSet) Add(sq Square) SquareSet {
	return s | (1 << uint(sq))
}

// Remove returns the set with sq removed.
func (s SquareSet) Remove(sq Square) SquareSet {
	return s &^ (1 << uint(sq))
}

// Contains reports whether sq is a member of the set.
func (s SquareSet) Contains(sq Square) bool {
	return s&(1<<uint(sq)) != 0
}

// PopCount returns the number of squares in the set.
func (s SquareSet) PopCount() int {
	return bits.OnesCount64(uint64(s))
}

// Squares returns the set's members in ascending index order.
func (s SquareSet) Squares() []Square {
	out := make([]Square, 0, s.PopCount())
	for s != 0 {
		sq := Square(bits.TrailingZeros64(uint64(s)))
		out = append(out, sq)
		s = s.Remove(sq)
	}
	return out
}
