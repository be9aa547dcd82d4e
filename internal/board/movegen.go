package board

import "sort"

// pieceKindOrder assigns the tie-break rank used to keep move generation
// deterministic: pawn, knight, bishop, rook, queen, king, then castling.
func pieceKindOrder(pos *Position, m Move) int {
	if m.IsCastle() {
		return 6
	}
	switch pos.PieceAt(m.From()).Type() {
	case Pawn:
		return 0
	case Knight:
		return 1
	case Bishop:
		return 2
	case Rook:
		return 3
	case Queen:
		return 4
	case King:
		return 5
	}
	return 7
}

// sortMoves orders ml by piece kind, then ascending from-square, then
// ascending to-square (using the UCI-facing destination, so castling sorts
// by the king's travel rather than the rook's).
func sortMoves(pos *Position, ml *MoveList) {
	sort.SliceStable(ml.moves[:ml.count], func(i, j int) bool {
		a, b := ml.moves[i], ml.moves[j]
		ka, kb := pieceKindOrder(pos, a), pieceKindOrder(pos, b)
		if ka != kb {
			return ka < kb
		}
		if a.From() != b.From() {
			return a.From() < b.From()
		}
		return a.kingDestination() < b.kingDestination()
	})
}

// GeneratePseudoLegal returns every pseudo-legal move for the side to move:
// moves that follow each piece's movement rule and do not land on a
// friendly piece, but that may leave the moving side's own king in check.
func (p *Position) GeneratePseudoLegal() *MoveList {
	ml := &MoveList{}
	us := p.SideToMove

	p.generatePawnMoves(ml, us)
	p.generateKnightMoves(ml, us)
	p.generateSlidingMoves(ml, us, Bishop)
	p.generateSlidingMoves(ml, us, Rook)
	p.generateSlidingMoves(ml, us, Queen)
	p.generateKingMoves(ml, us)
	p.generateCastlingMoves(ml, us)

	sortMoves(p, ml)
	return ml
}

// GenerateLegal returns every legal move for the side to move: every
// pseudo-legal move that, once applied to a clone of the position, does not
// leave the moving side's own king attacked. The legality probe always
// clones rather than make/unmake, per the search path's own discipline.
func (p *Position) GenerateLegal() *MoveList {
	pseudo := p.GeneratePseudoLegal()
	legal := &MoveList{}
	us := p.SideToMove

	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		clone := p.Clone()
		clone.Apply(m)
		if !IsAttacked(clone.KingSquare[us], us.Other(), clone) {
			legal.Add(m)
		}
	}
	return legal
}

func (p *Position) generatePawnMoves(ml *MoveList, us Color) {
	them := us.Other()
	pawns := p.Occupied[us].Squares()

	var pushDir int
	var startRank, promotionRank int
	if us == White {
		pushDir = 8
		startRank = 1
		promotionRank = 7
	} else {
		pushDir = -8
		startRank = 6
		promotionRank = 0
	}

	for _, from := range pawns {
		if p.PieceAt(from).Type() != Pawn {
			continue
		}
		file, rank := from.File(), from.Rank()

		// Single push.
		if onBoard(file, rank+signOfPushDir(pushDir)) {
			to := Square(int(from) + pushDir)
			if p.IsEmpty(to) {
				p.addPawnAdvance(ml, from, to, promotionRank)

				// Double push, only from the starting rank and only if the
				// single-push square was itself empty.
				if rank == startRank {
					to2 := Square(int(from) + 2*pushDir)
					if p.IsEmpty(to2) {
						ml.Add(NewDoublePawnMove(from, to2))
					}
				}
			}
		}

		// Captures, including en passant.
		for _, fileDelta := range [2]int{-1, 1} {
			f := file + fileDelta
			r := rank + signOfPushDir(pushDir)
			if !onBoard(f, r) {
				continue
			}
			to := NewSquare(f, r)
			if to == p.EnPassant {
				ml.Add(NewEnPassant(from, to))
				continue
			}
			target := p.PieceAt(to)
			if target != NoPiece && target.Color() == them {
				p.addPawnCapture(ml, from, to, promotionRank)
			}
		}
	}
}

func signOfPushDir(pushDir int) int {
	if pushDir > 0 {
		return 1
	}
	return -1
}

func (p *Position) addPawnAdvance(ml *MoveList, from, to Square, promotionRank int) {
	if to.Rank() == promotionRank {
		ml.Add(NewPromotion(from, to, Queen, false))
		ml.Add(NewPromotion(from, to, Rook, false))
		ml.Add(NewPromotion(from, to, Bishop, false))
		ml.Add(NewPromotion(from, to, Knight, false))
		return
	}
	ml.Add(NewMove(from, to, false))
}

func (p *Position) addPawnCapture(ml *MoveList, from, to Square, promotionRank int) {
	if to.Rank() == promotionRank {
		ml.Add(NewPromotion(from, to, Queen, true))
		ml.Add(NewPromotion(from, to, Rook, true))
		ml.Add(NewPromotion(from, to, Bishop, true))
		ml.Add(NewPromotion(from, to, Knight, true))
		return
	}
	ml.Add(NewMove(from, to, true))
}

func (p *Position) generateKnightMoves(ml *MoveList, us Color) {
	for _, from := range p.Occupied[us].Squares() {
		if p.PieceAt(from).Type() != Knight {
			continue
		}
		file, rank := from.File(), from.Rank()
		for _, d := range knightDeltas {
			f, r := file+d[0], rank+d[1]
			if !onBoard(f, r) {
				continue
			}
			to := NewSquare(f, r)
			target := p.PieceAt(to)
			if target != NoPiece && target.Color() == us {
				continue
			}
			ml.Add(NewMove(from, to, target != NoPiece))
		}
	}
}

func (p *Position) generateKingMoves(ml *MoveList, us Color) {
	from := p.KingSquare[us]
	file, rank := from.File(), from.Rank()
	for _, d := range kingDeltas {
		f, r := file+d[0], rank+d[1]
		if !onBoard(f, r) {
			continue
		}
		to := NewSquare(f, r)
		target := p.PieceAt(to)
		if target != NoPiece && target.Color() == us {
			continue
		}
		ml.Add(NewMove(from, to, target != NoPiece))
	}
}

func (p *Position) generateSlidingMoves(ml *MoveList, us Color, pt PieceType) {
	var dirs [][2]int
	switch pt {
	case Bishop:
		dirs = diagonalDirs[:]
	case Rook:
		dirs = orthogonalDirs[:]
	case Queen:
		dirs = append(append([][2]int{}, orthogonalDirs[:]...), diagonalDirs[:]...)
	}

	for _, from := range p.Occupied[us].Squares() {
		if p.PieceAt(from).Type() != pt {
			continue
		}
		file, rank := from.File(), from.Rank()
		for _, d := range dirs {
			f, r := file+d[0], rank+d[1]
			for onBoard(f, r) {
				to := NewSquare(f, r)
				target := p.PieceAt(to)
				if target == NoPiece {
					ml.Add(NewMove(from, to, false))
					f += d[0]
					r += d[1]
					continue
				}
				if target.Color() != us {
					ml.Add(NewMove(from, to, true))
				}
				break
			}
		}
	}
}

// generateCastlingMoves adds the castling moves the side to move still
// holds rights to and whose squares are clear and unattacked. Each side's
// own rights are checked precisely once, independent of the other side's.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	rank := 0
	if us == Black {
		rank = 7
	}
	kingFrom := NewSquare(4, rank)
	if p.KingSquare[us] != kingFrom {
		return
	}

	if p.CastlingRights.CanCastle(us, true) {
		f, g, h := NewSquare(5, rank), NewSquare(6, rank), NewSquare(7, rank)
		if p.IsEmpty(f) && p.IsEmpty(g) &&
			!IsAttacked(kingFrom, them, p) && !IsAttacked(f, them, p) && !IsAttacked(g, them, p) {
			ml.Add(NewCastle(kingFrom, h))
		}
	}
	if p.CastlingRights.CanCastle(us, false) {
		b, c, d, a := NewSquare(1, rank), NewSquare(2, rank), NewSquare(3, rank), NewSquare(0, rank)
		if p.IsEmpty(b) && p.IsEmpty(c) && p.IsEmpty(d) &&
			!IsAttacked(kingFrom, them, p) && !IsAttacked(d, them, p) && !IsAttacked(c, them, p) {
			ml.Add(NewCastle(kingFrom, a))
		}
	}
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	return p.GenerateLegal().Len() > 0
}

// IsCheckmate reports whether the side to move is in check with no legal moves.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move is not in check but has no legal moves.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw reports whether the position is drawn by the 50-move rule,
// stalemate, or insufficient material. Threefold repetition is tracked
// externally against the fingerprint history kept by the search (see
// internal/engine), since it depends on prior positions, not this one alone.
func (p *Position) IsDraw() bool {
	if p.HalfMoveClock >= 100 {
		return true
	}
	if p.IsInsufficientMaterial() {
		return true
	}
	return p.IsStalemate()
}

// IsInsufficientMaterial reports whether neither side has enough material to mate.
func (p *Position) IsInsufficientMaterial() bool {
	var wMinor, bMinor int
	for sq := A1; sq <= H8; sq++ {
		pc := p.PieceAt(sq)
		if pc == NoPiece {
			continue
		}
		switch pc.Type() {
		case Pawn, Rook, Queen:
			return false
		case Knight, Bishop:
			if pc.Color() == White {
				wMinor++
			} else {
				bMinor++
			}
		}
	}
	if wMinor == 0 && bMinor == 0 {
		return true
	}
	if wMinor <= 1 && bMinor == 0 {
		return true
	}
	if bMinor <= 1 && wMinor == 0 {
		return true
	}
	return false
}
