package board

import "testing"

func TestIsAttackedByRook(t *testing.T) {
	pos, err := ParseFEN("8/8/8/3k4/8/8/3R4/3K4 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !IsAttacked(D5, White, pos) {
		t.Error("expected d5 to be attacked by the rook on d2")
	}
	if IsAttacked(E5, White, pos) {
		t.Error("e5 is off the rook's file and rank, should be safe")
	}
}

func TestIsAttackedBlockedByIntervening(t *testing.T) {
	pos, err := ParseFEN("7k/8/8/3p4/8/8/3R4/3K4 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !IsAttacked(D5, White, pos) {
		t.Error("expected the black pawn on d5 itself to be attacked")
	}
	if IsAttacked(D6, White, pos) {
		t.Error("the pawn on d5 should block the rook's attack on d6")
	}
}

func TestIsAttackedByKnight(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/4k3/2N5/8/4K3 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !IsAttacked(E4, White, pos) {
		t.Error("expected e4 to be attacked by the knight on c3")
	}
}

func TestIsAttackedByPawn(t *testing.T) {
	pos, err := ParseFEN("8/8/8/3k4/4P3/8/8/4K3 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !IsAttacked(D5, White, pos) {
		t.Error("expected d5 to be attacked by the white pawn on e4")
	}
	if IsAttacked(E5, White, pos) {
		t.Error("e5 is straight ahead of the pawn on e4, which does not attack it")
	}
}

func TestAttackersToMultiple(t *testing.T) {
	pos, err := ParseFEN("8/8/8/3q4/8/1N1k4/3R4/4K3 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	attackers := pos.AttackersTo(D3, Black)
	if attackers.PopCount() != 1 {
		t.Errorf("expected exactly one black attacker of d3, got %d", attackers.PopCount())
	}
	if !attackers.Contains(D5) {
		t.Error("expected the queen on d5 to be listed as an attacker of d3")
	}
}

func TestKingInCheckDetection(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !pos.InCheck() {
		t.Error("expected white king on e1 to be in check from the rook on e2")
	}
}
