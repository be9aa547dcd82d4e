// Package engine implements the iterative-deepening alpha-beta search core
// and the static evaluator used by the UCI controller.
package engine

import "github.com/tomholub/chesscore/internal/board"

// Piece-Square Tables (PST), indexed from White's perspective; Black's
// lookup mirrors the square vertically (Square.Mirror, s^56). Values are the classical Tomasz
// Michniewski set, standard across the open-source engine corpus this
// evaluator is grounded on.

var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var pstByPiece = [6]*[64]int{
	&pawnPST, &knightPST, &bishopPST, &rookPST, &queenPST, &kingMidgamePST,
}

// endgameMinorThreshold is the non-king, non-pawn material (as a count of
// pieces) at or below which a side's king uses the endgame table.
const endgameMinorThreshold = 2

// Evaluate returns the static evaluation of pos from White's perspective:
// positive favors White. Draws by the 50-move rule are scored 0 here;
// threefold repetition is checked by the caller against its own history,
// since a single Position carries no notion of prior occurrences.
func Evaluate(pos *board.Position) int {
	if pos.HalfMoveClock >= 100 {
		return 0
	}

	whiteEndgame := nonPawnMinorCount(pos, board.White) <= endgameMinorThreshold
	blackEndgame := nonPawnMinorCount(pos, board.Black) <= endgameMinorThreshold

	score := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.PieceAt(sq)
		if pc == board.NoPiece {
			continue
		}
		score += pieceScore(pc, sq, whiteEndgame, blackEndgame)
	}
	return score
}

func pieceScore(pc board.Piece, sq board.Square, whiteEndgame, blackEndgame bool) int {
	pt := pc.Type()
	value := pc.Value()

	pstSq := sq
	useEndgameKing := whiteEndgame
	if pc.Color() == board.Black {
		pstSq = sq.Mirror()
		useEndgameKing = blackEndgame
	}

	var pst int
	if pt == board.King {
		if useEndgameKing {
			pst = kingEndgamePST[pstSq]
		} else {
			pst = kingMidgamePST[pstSq]
		}
	} else {
		pst = pstByPiece[pt][pstSq]
	}

	if pc.Color() == board.White {
		return value + pst
	}
	return -(value + pst)
}

// nonPawnMinorCount counts c's knights, bishops, rooks and queens, used by the simple
// phase detector that swaps in the endgame king table.
func nonPawnMinorCount(pos *board.Position, c board.Color) int {
	count := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		pc := pos.PieceAt(sq)
		if pc == board.NoPiece || pc.Color() != c {
			continue
		}
		switch pc.Type() {
		case board.Knight, board.Bishop, board.Rook, board.Queen:
			count++
		}
	}
	return count
}
