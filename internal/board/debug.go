package board

import "fmt"

// pieceGlyph is the Unicode chess symbol for each piece, used when
// DebugUseSymbols is set.
var pieceGlyph = [12]rune{
	WhitePawn: '♙', WhiteKnight: '♘', WhiteBishop: '♗', WhiteRook: '♖', WhiteQueen: '♕', WhiteKing: '♔',
	BlackPawn: '♟', BlackKnight: '♞', BlackBishop: '♝', BlackRook: '♜', BlackQueen: '♛', BlackKing: '♚',
}

// RenderOptions controls the verbosity of Position.Render, driven by the
// UCI DebugIndexes/DebugSetsDisplay/DebugUseSymbols options.
type RenderOptions struct {
	Indexes     bool // print each square's 0-63 index alongside the board
	SetsDisplay bool // print the per-color occupancy SquareSets
	UseSymbols  bool // use Unicode piece glyphs instead of FEN letters
}

// Render returns a board dump for the `d` debug command, honoring opts.
func (p *Position) Render(opts RenderOptions) string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			piece := p.PieceAt(sq)
			switch {
			case piece == NoPiece:
				s += ". "
			case opts.UseSymbols:
				s += string(pieceGlyph[piece]) + " "
			default:
				s += piece.String() + " "
			}
		}
		if opts.Indexes {
			s += fmt.Sprintf("   rank %d: squares %d-%d", rank+1, rank*8, rank*8+7)
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove)
	s += fmt.Sprintf("Castling: %s\n", p.CastlingRights)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassant)
	s += fmt.Sprintf("Half-move clock: %d\n", p.HalfMoveClock)
	s += fmt.Sprintf("Full move: %d\n", p.FullMoveNumber)
	s += fmt.Sprintf("Hash: %016x\n", p.Hash)

	if opts.SetsDisplay {
		s += fmt.Sprintf("White occupancy: %v\n", p.Occupied[White].Squares())
		s += fmt.Sprintf("Black occupancy: %v\n", p.Occupied[Black].Squares())
	}
	return s
}
