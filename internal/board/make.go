package board

// Apply mutates p in place to reflect m, updating the mailbox, occupancy
// sets, castling rights, en-passant target, move clocks, and the position
// fingerprint. It does not record undo information — the search path and
// the legal-move filter both clone the position before calling Apply rather
// than ever unwinding a move, so no undo bookkeeping is paid for on that
// hot path. Use MakeMove/Unmake below where a cheaper make/unmake cycle is
// wanted, such as in perft.
func (p *Position) Apply(m Move) {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	piece := p.PieceAt(from)
	pt := piece.Type()

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	switch {
	case m.IsCastle():
		kingTo := m.kingDestination()
		rookFrom := m.To()
		rank := from.Rank()
		var rookTo Square
		if kingTo.File() == 6 {
			rookTo = NewSquare(5, rank)
		} else {
			rookTo = NewSquare(3, rank)
		}
		p.movePiece(from, kingTo)
		p.Hash ^= zobristPiece[us][King][from]
		p.Hash ^= zobristPiece[us][King][kingTo]
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]

	case m.IsEnPassant():
		to := m.To()
		capturedSq := Square(int(to) - pawnPushDir(us))
		captured := p.PieceAt(capturedSq)
		p.removePiece(capturedSq, captured)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]
		p.movePiece(from, to)
		p.Hash ^= zobristPiece[us][Pawn][from]
		p.Hash ^= zobristPiece[us][Pawn][to]

	default:
		to := m.To()
		if captured := p.PieceAt(to); captured != NoPiece {
			p.removePiece(to, captured)
			p.Hash ^= zobristPiece[captured.Color()][captured.Type()][to]
		}
		p.movePiece(from, to)
		p.Hash ^= zobristPiece[us][pt][from]
		p.Hash ^= zobristPiece[us][pt][to]

		if m.IsPromotion() {
			promo := m.Promotion()
			p.removePiece(to, NewPiece(Pawn, us))
			p.setPiece(to, NewPiece(promo, us))
			p.Hash ^= zobristPiece[us][Pawn][to]
			p.Hash ^= zobristPiece[us][promo][to]
		}

		if m.IsDoublePawnMove() {
			ep := Square((int(from) + int(to)) / 2)
			p.EnPassant = ep
			p.Hash ^= zobristEnPassant[ep.File()]
		}
	}

	p.updateCastlingRights(from, m)
	p.Hash ^= zobristCastling[p.CastlingRights]

	if pt == Pawn || m.IsCapture() {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = them
}

// pawnPushDir returns the mailbox index delta of a single pawn push for c.
func pawnPushDir(c Color) int {
	if c == White {
		return 8
	}
	return -8
}

// updateCastlingRights drops rights invalidated by a king move, a rook
// move, or a rook capture — from and the move's own from/to squares are
// enough to decide all four cases.
func (p *Position) updateCastlingRights(from Square, m Move) {
	if from == E1 {
		p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
	} else if from == E8 {
		p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
	}
	to := m.To()
	if m.IsCastle() {
		to = m.kingDestination()
	}
	for _, sq := range [2]Square{from, to} {
		switch sq {
		case A1:
			p.CastlingRights &^= WhiteQueenSideCastle
		case H1:
			p.CastlingRights &^= WhiteKingSideCastle
		case A8:
			p.CastlingRights &^= BlackQueenSideCastle
		case H8:
			p.CastlingRights &^= BlackKingSideCastle
		}
	}
}

// MakeMove applies m and returns the information Unmake needs to reverse it.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		KingSquare:     p.KingSquare,
	}
	if m.IsEnPassant() {
		capturedSq := Square(int(m.To()) - pawnPushDir(p.SideToMove))
		undo.CapturedPiece = p.PieceAt(capturedSq)
	} else if !m.IsCastle() {
		undo.CapturedPiece = p.PieceAt(m.To())
	} else {
		undo.CapturedPiece = NoPiece
	}
	p.Apply(m)
	return undo
}

// Unmake reverses the effect of MakeMove(m), restoring the saved undo state.
func (p *Position) Unmake(m Move, undo UndoInfo) {
	them := p.SideToMove
	us := them.Other()
	from := m.From()

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.KingSquare = undo.KingSquare
	p.SideToMove = us
	if us == Black {
		p.FullMoveNumber--
	}

	switch {
	case m.IsCastle():
		kingTo := m.kingDestination()
		rookFrom := m.To()
		rank := from.Rank()
		var rookTo Square
		if kingTo.File() == 6 {
			rookTo = NewSquare(5, rank)
		} else {
			rookTo = NewSquare(3, rank)
		}
		p.movePiece(rookTo, rookFrom)
		p.movePiece(kingTo, from)

	case m.IsEnPassant():
		to := m.To()
		p.movePiece(to, from)
		capturedSq := Square(int(to) - pawnPushDir(us))
		p.setPiece(capturedSq, undo.CapturedPiece)

	default:
		to := m.To()
		if m.IsPromotion() {
			p.removePiece(to, NewPiece(m.Promotion(), us))
			p.setPiece(to, NewPiece(Pawn, us))
		}
		p.movePiece(to, from)
		if undo.CapturedPiece != NoPiece {
			p.setPiece(to, undo.CapturedPiece)
		}
	}
}
