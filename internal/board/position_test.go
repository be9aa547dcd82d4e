package board

import "testing"

func TestValidateRejectsMissingKing(t *testing.T) {
	pos := &Position{}
	pos.Clear()
	pos.setPiece(E1, WhiteKing)
	if err := pos.Validate(); err == nil {
		t.Fatal("expected an error for a missing black king")
	}
}

func TestValidateRejectsPawnOnBackRank(t *testing.T) {
	pos, err := ParseFEN("P3k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if err := pos.Validate(); err == nil {
		t.Fatal("expected an error for a pawn on the back rank")
	}
}

func TestMaterialStartingPositionIsBalanced(t *testing.T) {
	pos := NewPosition()
	if got := pos.Material(); got != 0 {
		t.Errorf("expected balanced material at the start, got %d", got)
	}
}

func TestMaterialFavorsExtraQueen(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := pos.Material(); got <= 0 {
		t.Errorf("expected positive material for white with an extra queen, got %d", got)
	}
}

func TestHasNonPawnMaterial(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if pos.HasNonPawnMaterial() {
		t.Error("king and pawn only: expected no non-pawn material for white")
	}

	pos, err = ParseFEN("4k3/8/8/8/8/8/4N3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !pos.HasNonPawnMaterial() {
		t.Error("expected the knight to count as non-pawn material")
	}
}

func TestIsInsufficientMaterialKingVsKing(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !pos.IsInsufficientMaterial() {
		t.Error("bare kings should be insufficient material")
	}
}

func TestIsInsufficientMaterialKingAndBishopVsKing(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/3B4/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !pos.IsInsufficientMaterial() {
		t.Error("king and bishop versus bare king should be insufficient material")
	}
}

func TestIsInsufficientMaterialWithRookIsSufficient(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/3R4/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if pos.IsInsufficientMaterial() {
		t.Error("a lone rook is enough material to force mate")
	}
}

func TestIsDrawByFiftyMoveRule(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 100 60")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !pos.IsDraw() {
		t.Error("expected a draw once the half-move clock reaches 100")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	pos := NewPosition()
	clone := pos.Clone()
	clone.Apply(NewMove(E2, E4, false))
	if pos.PieceAt(E2) == NoPiece {
		t.Error("mutating the clone should not affect the original position")
	}
	if clone.PieceAt(E2) != NoPiece {
		t.Error("the clone should reflect its own move")
	}
}
