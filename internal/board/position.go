package board

import (
	"fmt"
	"strings"
)

// Position represents a complete chess position as decoded from FEN.
// It is a plain value: copying a Position copies all of its state.
type Position struct {
	// Piece bitboards, indexed by Piece.
	Pieces [NumPieces]Bitboard

	SideToMove Color

	// Castling availability
	WhiteKingSide  bool
	WhiteQueenSide bool
	BlackKingSide  bool
	BlackQueenSide bool

	// En passant target square, NoSquare if none.
	EnPassant Square

	HalfMoveClock  uint16 // Plies since last capture or pawn advance (fifty-move rule)
	FullMoveNumber uint16 // Starts at 1, incremented after Black's move
}

// NewEmptyPosition returns a position with no pieces, White to move, no castling
// rights, no en passant target and both counters at zero.
func NewEmptyPosition() Position {
	return Position{
		SideToMove: White,
		EnPassant:  NoSquare,
	}
}

// NewStartPosition returns the standard starting position.
func NewStartPosition() Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(fmt.Sprintf("board: start position: %v", err))
	}
	return pos
}

// mustBeOnBoard panics on coordinates callers were required to validate.
func mustBeOnBoard(piece Piece, c Coord) {
	if !c.IsValid() {
		panic(fmt.Sprintf("board: coordinates out of bounds: file = %d, rank = %d", c.File, c.Rank))
	}
	if piece >= NoPiece {
		panic(fmt.Sprintf("board: invalid piece kind %d", piece))
	}
}

// Place sets the square in the mask for piece. It does not clear the square in
// other masks. Out-of-range coordinates are a programming error and panic.
func (p *Position) Place(piece Piece, c Coord) {
	mustBeOnBoard(piece, c)
	p.Pieces[piece] = p.Pieces[piece].Set(c.Square())
}

// Remove clears the square in the mask for piece. Out-of-range coordinates panic.
func (p *Position) Remove(piece Piece, c Coord) {
	mustBeOnBoard(piece, c)
	p.Pieces[piece] = p.Pieces[piece].Clear(c.Square())
}

// Bitboard returns the occupancy mask for a piece kind.
func (p Position) Bitboard(piece Piece) Bitboard {
	if piece >= NoPiece {
		return Empty
	}
	return p.Pieces[piece]
}

// Has reports whether piece occupies sq.
func (p Position) Has(piece Piece, sq Square) bool {
	return p.Bitboard(piece).IsSet(sq)
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
// If more than one mask claims the square the lowest piece index wins.
func (p Position) PieceAt(sq Square) Piece {
	for piece := WhitePawn; piece < NoPiece; piece++ {
		if p.Pieces[piece].IsSet(sq) {
			return piece
		}
	}
	return NoPiece
}

// Occupied returns the union of all twelve masks.
func (p Position) Occupied() Bitboard {
	var all Bitboard
	for _, bb := range p.Pieces {
		all |= bb
	}
	return all
}

// ColorOccupied returns the union of the six masks belonging to c.
func (p Position) ColorOccupied(c Color) Bitboard {
	var all Bitboard
	for pt := Pawn; pt <= King; pt++ {
		all |= p.Pieces[NewPiece(pt, c)]
	}
	return all
}

// EnPassantCoord returns the en passant target, if any.
func (p Position) EnPassantCoord() (Coord, bool) {
	if !p.EnPassant.IsValid() {
		return Coord{}, false
	}
	return p.EnPassant.Coord(), true
}

// EnPassantString returns the target label or "-".
func (p Position) EnPassantString() string {
	return p.EnPassant.String()
}

// CastlingString returns the four castling flags in KQkq order, '-' for each
// right that is not available. The result always has four characters.
func (p Position) CastlingString() string {
	flags := []struct {
		set bool
		c   byte
	}{
		{p.WhiteKingSide, 'K'},
		{p.WhiteQueenSide, 'Q'},
		{p.BlackKingSide, 'k'},
		{p.BlackQueenSide, 'q'},
	}
	out := make([]byte, 0, len(flags))
	for _, f := range flags {
		if f.set {
			out = append(out, f.c)
		} else {
			out = append(out, '-')
		}
	}
	return string(out)
}

// Conflicts returns the squares claimed by more than one piece kind.
func (p Position) Conflicts() Bitboard {
	var seen, twice Bitboard
	for _, bb := range p.Pieces {
		twice |= seen & bb
		seen |= bb
	}
	return twice
}

// Validate checks that no square is occupied by two piece kinds.
// Place and Remove never perform this check themselves.
func (p Position) Validate() error {
	if conflicts := p.Conflicts(); conflicts != 0 {
		sq := conflicts.LSB()
		var kinds []string
		for piece := WhitePawn; piece < NoPiece; piece++ {
			if p.Pieces[piece].IsSet(sq) {
				kinds = append(kinds, piece.String())
			}
		}
		return fmt.Errorf("%w: %s holds %s", ErrOverlappingPieces, sq, strings.Join(kinds, ","))
	}
	return nil
}
