package board

import "testing"

func perft(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := pos.GenerateLegal()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		clone := pos.Clone()
		clone.Apply(moves.Get(i))
		nodes += perft(clone, depth-1)
	}
	return nodes
}

func TestPerftStartingPosition(t *testing.T) {
	cases := []struct {
		depth int
		nodes uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	pos := NewPosition()
	for _, c := range cases {
		if got := perft(pos, c.depth); got != c.nodes {
			t.Errorf("perft(%d) = %d, want %d", c.depth, got, c.nodes)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	cases := []struct {
		depth int
		nodes uint64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}
	for _, c := range cases {
		if got := perft(pos, c.depth); got != c.nodes {
			t.Errorf("perft(%d) = %d, want %d", c.depth, got, c.nodes)
		}
	}
}

func TestCastlingRightsLostOnKingMove(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pos.Apply(NewMove(E1, E2, false))
	if pos.CastlingRights&(WhiteKingSideCastle|WhiteQueenSideCastle) != 0 {
		t.Error("expected both white castling rights cleared after a king move")
	}
	if pos.CastlingRights&(BlackKingSideCastle|BlackQueenSideCastle) == 0 {
		t.Error("black's castling rights should be untouched")
	}
}

func TestCastlingRightsLostOnRookCapture(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pos.Apply(NewMove(A1, A8, true))
	if pos.CastlingRights&WhiteQueenSideCastle != 0 {
		t.Error("moving the rook off a1 should clear white queenside rights")
	}
	if pos.CastlingRights&BlackQueenSideCastle != 0 {
		t.Error("capturing the rook on a8 should clear black queenside rights")
	}
}

func TestCastlingMoveRelocatesRook(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	legal := pos.GenerateLegal()

	var castle Move
	found := false
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.IsCastle() && m.kingDestination() == G1 {
			castle = m
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected white kingside castle to be legal")
	}

	pos.Apply(castle)
	if pos.PieceAt(G1) != WhiteKing {
		t.Error("king did not land on g1")
	}
	if pos.PieceAt(F1) != WhiteRook {
		t.Error("rook did not land on f1")
	}
	if pos.PieceAt(H1) != NoPiece || pos.PieceAt(E1) != NoPiece {
		t.Error("origin squares should be empty after castling")
	}
}

func TestEnPassantCapture(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	legal := pos.GenerateLegal()
	var ep Move
	found := false
	for i := 0; i < legal.Len(); i++ {
		if legal.Get(i).IsEnPassant() {
			ep = legal.Get(i)
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected an en passant capture to be legal")
	}

	pos.Apply(ep)
	if pos.PieceAt(D5) != NoPiece {
		t.Error("captured pawn should be removed from d5")
	}
	if pos.PieceAt(D6) != WhitePawn {
		t.Error("capturing pawn should land on d6")
	}
}

func TestPromotionGeneratesAllFourPieces(t *testing.T) {
	pos, err := ParseFEN("8/P7/8/8/8/8/8/k6K w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	moves := pos.GeneratePseudoLegal()
	promos := map[PieceType]bool{}
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() == A7 && m.IsPromotion() {
			promos[m.Promotion()] = true
		}
	}
	for _, pt := range []PieceType{Queen, Rook, Bishop, Knight} {
		if !promos[pt] {
			t.Errorf("expected a promotion to %v", pt)
		}
	}
}

func TestCheckmateDetection(t *testing.T) {
	// Fool's mate final position: black has just played Qh4#.
	pos, err := ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !pos.IsCheckmate() {
		t.Error("expected checkmate")
	}
}

func TestStalemateDetection(t *testing.T) {
	pos, err := ParseFEN("k7/8/1Q6/8/8/8/8/1K6 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !pos.IsStalemate() {
		t.Error("expected stalemate")
	}
}

func TestQueensideCastleCheckedOncePerSide(t *testing.T) {
	// Regression: both sides' queenside castling must be independently
	// available when both have the right and clear, unattacked squares.
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	legal := pos.GenerateLegal()
	whiteQueenside, blackQueenside := 0, 0
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if !m.IsCastle() {
			continue
		}
		if m.From() == E1 && m.kingDestination() == C1 {
			whiteQueenside++
		}
	}
	pos.SideToMove = Black
	legalBlack := pos.GenerateLegal()
	for i := 0; i < legalBlack.Len(); i++ {
		m := legalBlack.Get(i)
		if m.IsCastle() && m.From() == E8 && m.kingDestination() == C8 {
			blackQueenside++
		}
	}
	if whiteQueenside != 1 {
		t.Errorf("expected exactly one white queenside castle, got %d", whiteQueenside)
	}
	if blackQueenside != 1 {
		t.Errorf("expected exactly one black queenside castle, got %d", blackQueenside)
	}
}
