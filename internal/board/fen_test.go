package board

import "testing"

func TestParseFENStartingPosition(t *testing.T) {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if pos.SideToMove != White {
		t.Errorf("expected White to move, got %v", pos.SideToMove)
	}
	if pos.CastlingRights != AllCastling {
		t.Errorf("expected all castling rights, got %v", pos.CastlingRights)
	}
	if pos.EnPassant != NoSquare {
		t.Errorf("expected no en passant target, got %v", pos.EnPassant)
	}
	if pos.KingSquare[White] != E1 || pos.KingSquare[Black] != E8 {
		t.Errorf("wrong king squares: white=%v black=%v", pos.KingSquare[White], pos.KingSquare[Black])
	}
	if pos.AllOccupied.PopCount() != 32 {
		t.Errorf("expected 32 occupied squares, got %d", pos.AllOccupied.PopCount())
	}
}

func TestFENRoundTrip(t *testing.T) {
	cases := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/8/8/4k3/8/4K3/4P3/8 w - - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2",
	}

	for _, fen := range cases {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.ToFEN(); got != fen {
			t.Errorf("round trip mismatch:\n got:  %s\n want: %s", got, fen)
		}
	}
}

func TestParseFENRejectsMissingKing(t *testing.T) {
	_, err := ParseFEN("8/8/8/8/8/8/8/7K w - - 0 1")
	if err == nil {
		t.Fatal("expected an error for a position missing the black king")
	}
}

func TestParseFENRejectsMalformedPlacement(t *testing.T) {
	_, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1")
	if err == nil {
		t.Fatal("expected an error for a placement with only seven ranks")
	}
}

func TestComputeHashMatchesIncrementalHash(t *testing.T) {
	pos := NewPosition()
	if pos.Hash != pos.ComputeHash() {
		t.Fatal("starting position hash should match a from-scratch recompute")
	}

	moves := pos.GenerateLegal()
	m := moves.Get(0)
	pos.Apply(m)

	if pos.Hash != pos.ComputeHash() {
		t.Error("incremental hash after Apply diverged from a from-scratch recompute")
	}
}
