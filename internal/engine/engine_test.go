package engine

import (
	"testing"
	"time"

	"github.com/tomholub/chesscore/internal/board"
)

func TestSearchBasic(t *testing.T) {
	eng := NewEngine(16)

	result := eng.SearchWithLimits(SearchLimits{Depth: 3, MoveTime: 2 * time.Second})
	if result.Move == board.NoMove {
		t.Fatal("SearchWithLimits returned NoMove for starting position")
	}
	t.Logf("best move: %s score: %d depth: %d", result.Move.String(), result.Score, result.Depth)
}

func TestSearchFindsMateInOne(t *testing.T) {
	// Fool's Mate: after 1.f3 e5 2.g4, black to move has Qh4#.
	pos, err := board.ParseFEN("rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	eng := NewEngine(16)
	eng.SetPosition(pos)

	result := eng.SearchWithLimits(SearchLimits{Depth: 2, MoveTime: 2 * time.Second})
	if result.Move == board.NoMove {
		t.Fatal("expected a move")
	}
	if result.Score > -(MateScore - 4) {
		t.Errorf("expected a near-mate score favoring black, got %d", result.Score)
	}
}

func TestSearchFindsMateInOneForWhite(t *testing.T) {
	// White to move: Qh5xf7 is mate (the queen on f7 is defended by the
	// bishop on c4, so the black king on e8 can neither capture it nor escape).
	pos, err := board.ParseFEN("rnbqk2r/pppp1ppp/5n2/2b1p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	eng := NewEngine(16)
	eng.SetPosition(pos)

	result := eng.SearchWithLimits(SearchLimits{Depth: 2, MoveTime: 2 * time.Second})
	if result.Move == board.NoMove {
		t.Fatal("expected a move")
	}
	if result.Score < MateScore-4 {
		t.Errorf("expected a near-mate score favoring white, got %d", result.Score)
	}
}

func TestSearchRespectsDepthLimit(t *testing.T) {
	eng := NewEngine(16)
	result := eng.SearchWithLimits(SearchLimits{Depth: 2, MoveTime: 2 * time.Second})
	if result.Depth > 2 {
		t.Errorf("expected depth <= 2, got %d", result.Depth)
	}
}

func TestSearchStopIsRespected(t *testing.T) {
	eng := NewEngine(16)

	done := make(chan SearchResult, 1)
	go func() {
		done <- eng.SearchWithLimits(SearchLimits{Infinite: true})
	}()

	time.Sleep(20 * time.Millisecond)
	eng.Stop()

	select {
	case result := <-done:
		if result.Move == board.NoMove {
			t.Error("expected a move even on an interrupted infinite search")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("search did not stop within 2s of Stop()")
	}
}

func TestEngineClearResetsCache(t *testing.T) {
	eng := NewEngine(16)
	eng.SearchWithLimits(SearchLimits{Depth: 3, MoveTime: 2 * time.Second})

	if len(eng.cache.levels) == 0 {
		t.Fatal("expected the cache to hold entries after a search")
	}

	eng.Clear()
	if len(eng.cache.levels) != 0 {
		t.Error("Clear did not reset the depth cache")
	}
}

func TestEnginePushTracksRepetitionHistory(t *testing.T) {
	eng := NewEngine(16)
	moves := eng.pos.GenerateLegal()
	if moves.Len() == 0 {
		t.Fatal("starting position must have legal moves")
	}

	before := len(eng.history)
	eng.Push(moves.Get(0))
	if len(eng.history) != before+1 {
		t.Errorf("expected history length %d, got %d", before+1, len(eng.history))
	}
}

func TestPerftStartingPosition(t *testing.T) {
	cases := []struct {
		depth int
		nodes uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}

	for _, c := range cases {
		pos := board.NewPosition()
		got := Perft(pos, c.depth)
		if got != c.nodes {
			t.Errorf("perft(%d) = %d, want %d", c.depth, got, c.nodes)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	cases := []struct {
		depth int
		nodes uint64
	}{
		{1, 48},
		{2, 2039},
	}
	for _, c := range cases {
		clone := pos.Clone()
		got := Perft(clone, c.depth)
		if got != c.nodes {
			t.Errorf("perft(%d) = %d, want %d", c.depth, got, c.nodes)
		}
	}
}

func TestScoreToString(t *testing.T) {
	if got := ScoreToString(150); got != "1.50" {
		t.Errorf("ScoreToString(150) = %q, want %q", got, "1.50")
	}
	if got := ScoreToString(-150); got != "-1.50" {
		t.Errorf("ScoreToString(-150) = %q, want %q", got, "-1.50")
	}
	if got := ScoreToString(MateScore - 1); got != "Mate in 1" {
		t.Errorf("ScoreToString(MateScore-1) = %q, want %q", got, "Mate in 1")
	}
}
