package board

import "fmt"

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// Position represents a complete chess position: a 64-cell mailbox array of
// pieces, kept in sync with per-color and all-occupied SquareSets (Data
// Model invariant P1), plus the side to move, castling rights, en-passant
// target, move clocks, and a running position fingerprint.
type Position struct {
	board [64]Piece

	Occupied    [2]SquareSet // per-color occupancy
	AllOccupied SquareSet

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // target square for en passant, NoSquare if none
	HalfMoveClock  int    // moves since last pawn move or capture (50-move rule)
	FullMoveNumber int    // full move counter, starts at 1

	KingSquare [2]Square // cached king locations

	Hash uint64 // position fingerprint, see zobrist.go
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic("board: start FEN must parse: " + err.Error())
	}
	return pos
}

// Clone returns a deep copy of the position. The search path always clones
// before applying a tentative move rather than make/unmake, so this is the
// hot path for tree expansion.
func (p *Position) Clone() *Position {
	newPos := *p
	return &newPos
}

// PieceAt returns the piece occupying sq, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.board[sq]
}

// IsEmpty reports whether sq holds no piece.
func (p *Position) IsEmpty(sq Square) bool {
	return !p.AllOccupied.Contains(sq)
}

// setPiece places pc on sq, which must currently be empty, updating the
// mailbox, the occupancy sets, and the cached king square.
func (p *Position) setPiece(sq Square, pc Piece) {
	p.board[sq] = pc
	p.AllOccupied = p.AllOccupied.Add(sq)
	p.Occupied[pc.Color()] = p.Occupied[pc.Color()].Add(sq)
	if pc.Type() == King {
		p.KingSquare[pc.Color()] = sq
	}
}

// removePiece clears sq, which must currently hold pc.
func (p *Position) removePiece(sq Square, pc Piece) {
	p.board[sq] = NoPiece
	p.AllOccupied = p.AllOccupied.Remove(sq)
	p.Occupied[pc.Color()] = p.Occupied[pc.Color()].Remove(sq)
}

// movePiece relocates the piece on from to to, which must be empty.
func (p *Position) movePiece(from, to Square) {
	pc := p.board[from]
	p.removePiece(from, pc)
	p.setPiece(to, pc)
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
	for sq := range p.board {
		p.board[sq] = NoPiece
	}
}

// Validate reports structural problems with the position: exactly one king
// per side, and no pawns on the back ranks.
func (p *Position) Validate() error {
	whiteKings, blackKings := 0, 0
	for sq := A1; sq <= H8; sq++ {
		pc := p.board[sq]
		if pc == NoPiece {
			continue
		}
		if pc.Type() == King {
			if pc.Color() == White {
				whiteKings++
			} else {
				blackKings++
			}
		}
		if pc.Type() == Pawn && (sq.Rank() == 0 || sq.Rank() == 7) {
			return fmt.Errorf("pawn cannot be on rank 1 or 8: %s", sq)
		}
	}
	if whiteKings != 1 {
		return fmt.Errorf("white must have exactly one king, has %d", whiteKings)
	}
	if blackKings != 1 {
		return fmt.Errorf("black must have exactly one king, has %d", blackKings)
	}
	return nil
}

// InCheck reports whether the side to move's king is currently attacked.
func (p *Position) InCheck() bool {
	return IsAttacked(p.KingSquare[p.SideToMove], p.SideToMove.Other(), p)
}

// Material returns the material balance in centipawns (positive favors White).
func (p *Position) Material() int {
	score := 0
	for sq := A1; sq <= H8; sq++ {
		pc := p.board[sq]
		if pc == NoPiece || pc.Type() == King {
			continue
		}
		if pc.Color() == White {
			score += pc.Value()
		} else {
			score -= pc.Value()
		}
	}
	return score
}

// HasNonPawnMaterial reports whether the side to move has any piece other
// than pawns and its king.
func (p *Position) HasNonPawnMaterial() bool {
	us := p.SideToMove
	for sq := A1; sq <= H8; sq++ {
		pc := p.board[sq]
		if pc == NoPiece || pc.Color() != us {
			continue
		}
		switch pc.Type() {
		case Knight, Bishop, Rook, Queen:
			return true
		}
	}
	return false
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			piece := p.PieceAt(sq)
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
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
	return s
}
