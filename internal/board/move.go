package board

import "fmt"

// MoveFlag tags the special cases of a half-move. The promotion flags and
// Castle/EnPassant/DoublePawnMove are mutually exclusive with each other.
type MoveFlag uint8

const (
	FlagNone MoveFlag = iota
	FlagKnightPromotion
	FlagBishopPromotion
	FlagRookPromotion
	FlagQueenPromotion
	FlagCastle
	FlagEnPassant
	FlagDoublePawnMove
)

// promotionPiece maps a promotion flag to the piece type it produces.
var promotionPiece = [8]PieceType{
	FlagKnightPromotion: Knight,
	FlagBishopPromotion: Bishop,
	FlagRookPromotion:   Rook,
	FlagQueenPromotion:  Queen,
}

// pieceTypePromotionFlag maps a promotion piece type to its flag.
var pieceTypePromotionFlag = map[PieceType]MoveFlag{
	Knight: FlagKnightPromotion,
	Bishop: FlagBishopPromotion,
	Rook:   FlagRookPromotion,
	Queen:  FlagQueenPromotion,
}

// Move encodes a half-move in 16 bits:
//
//	bits 0-5:   from square (0-63)
//	bits 6-11:  to square (0-63) — for Castle this is the ROOK's square
//	bits 12-14: MoveFlag
//	bit 15:     capture bit
type Move uint16

// NoMove represents the absence of a move.
const NoMove Move = 0xFFFF

// newMove builds a Move from its constituent fields.
func newMove(from, to Square, flag MoveFlag, capture bool) Move {
	m := Move(from) | Move(to)<<6 | Move(flag)<<12
	if capture {
		m |= 1 << 15
	}
	return m
}

// NewMove creates a normal (non-special) move.
func NewMove(from, to Square, capture bool) Move {
	return newMove(from, to, FlagNone, capture)
}

// NewPromotion creates a promotion move. capture indicates the promotion
// also captures the piece standing on the destination square.
func NewPromotion(from, to Square, promo PieceType, capture bool) Move {
	return newMove(from, to, pieceTypePromotionFlag[promo], capture)
}

// NewEnPassant creates an en-passant capture move.
func NewEnPassant(from, to Square) Move {
	return newMove(from, to, FlagEnPassant, true)
}

// NewDoublePawnMove creates a two-square pawn push.
func NewDoublePawnMove(from, to Square) Move {
	return newMove(from, to, FlagDoublePawnMove, false)
}

// NewCastle creates a castling move. to is the ROOK's square, per the data
// model — the UCI-facing king destination is computed in String/kingDestination.
func NewCastle(kingFrom, rookSquare Square) Move {
	return newMove(kingFrom, rookSquare, FlagCastle, false)
}

// From returns the origin square.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square — the rook's square for castling moves.
func (m Move) To() Square { return Square((m >> 6) & 0x3F) }

// Flag returns the move's tag.
func (m Move) Flag() MoveFlag { return MoveFlag((m >> 12) & 0x7) }

// IsCapture reports whether this move captures a piece (including en passant).
func (m Move) IsCapture() bool { return m&(1<<15) != 0 }

// IsPromotion reports whether this move is a pawn promotion.
func (m Move) IsPromotion() bool {
	switch m.Flag() {
	case FlagKnightPromotion, FlagBishopPromotion, FlagRookPromotion, FlagQueenPromotion:
		return true
	}
	return false
}

// Promotion returns the promotion piece type; only valid if IsPromotion.
func (m Move) Promotion() PieceType { return promotionPiece[m.Flag()] }

// IsCastle reports whether this move is a castling move.
func (m Move) IsCastle() bool { return m.Flag() == FlagCastle }

// IsEnPassant reports whether this move is an en-passant capture.
func (m Move) IsEnPassant() bool { return m.Flag() == FlagEnPassant }

// IsDoublePawnMove reports whether this move is a two-square pawn push.
func (m Move) IsDoublePawnMove() bool { return m.Flag() == FlagDoublePawnMove }

// kingDestination returns the king's UCI destination square for a castle,
// and the plain To() for every other move.
func (m Move) kingDestination() Square {
	if !m.IsCastle() {
		return m.To()
	}
	from := m.From()
	rook := m.To()
	if rook.File() == 7 { // kingside: rook starts on the h-file
		return from + 2
	}
	return from - 2 // queenside: rook starts on the a-file
}

// String renders the move in UCI long algebraic notation, e.g. "e2e4",
// "e7e8q", or "e1g1" for White kingside castling.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.kingDestination().String()
	if m.IsPromotion() {
		promoChars := map[PieceType]byte{Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}
		s += string(promoChars[m.Promotion()])
	}
	return s
}

// MoveList is a fixed-capacity list of moves, avoiding per-call allocation
// in the generator's hot path.
type MoveList struct {
	moves [256]Move
	count int
}

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int { return ml.count }

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move { return ml.moves[i] }

// Set overwrites the move at index i (used when re-ordering in place).
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }

// Swap exchanges the moves at i and j.
func (ml *MoveList) Swap(i, j int) { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }

// Slice returns the moves as a slice backed by the list's array.
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.count] }

// Contains reports whether m is present in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// ParseUCIMove resolves a UCI long-algebraic move string against the set of
// legal moves in pos, so the flag/capture bits and (for castling) the
// rook-square encoding of To() come out correctly.
func ParseUCIMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	var promo PieceType
	hasPromo := len(s) == 5
	if hasPromo {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}

	legal := pos.GenerateLegal()
	for i := 0; i < legal.Len(); i++ {
		cand := legal.Get(i)
		if cand.From() != from || cand.kingDestination() != to {
			continue
		}
		if hasPromo {
			if cand.IsPromotion() && cand.Promotion() == promo {
				return cand, nil
			}
			continue
		}
		if !cand.IsPromotion() {
			return cand, nil
		}
	}
	return NoMove, fmt.Errorf("no legal move %s in this position", s)
}

// UndoInfo snapshots the state MakeMove/Unmake needs to reverse a move.
// The search path never uses it — it clones before every tentative apply —
// but perft and tests may exercise the cheaper make/unmake cycle with it.
type UndoInfo struct {
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	KingSquare     [2]Square
}
