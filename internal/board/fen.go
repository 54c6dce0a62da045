package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// fenFields is the number of whitespace separated fields in a FEN record.
const fenFields = 6

// ParseFEN parses a FEN string and returns a Position.
// Decoding stops at the first bad field; on error the returned Position is unusable.
func ParseFEN(fen string) (Position, error) {
	parts := strings.Fields(fen)
	if len(parts) != fenFields {
		return Position{}, fmt.Errorf("%w: need %d fields, got %d", ErrMalformedFEN, fenFields, len(parts))
	}

	pos := NewEmptyPosition()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(&pos, parts[0]); err != nil {
		return Position{}, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidActiveColor, parts[1])
	}

	// Parse castling rights (field 2)
	parseCastlingRights(&pos, parts[2])

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return Position{}, fmt.Errorf("en passant target: %w", err)
		}
		pos.EnPassant = sq
	}

	// Parse half-move clock (field 4)
	hmc, err := strconv.ParseUint(parts[4], 10, 16)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidHalfmoveClock, parts[4])
	}
	pos.HalfMoveClock = uint16(hmc)

	// Parse full-move number (field 5)
	fmn, err := strconv.ParseUint(parts[5], 10, 16)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidFullmoveNumber, parts[5])
	}
	pos.FullMoveNumber = uint16(fmn)

	return pos, nil
}

// parsePiecePlacement walks the placement field from a8 towards h1.
// Surplus '/' characters stop at rank 1 and pieces that fall off the
// board are dropped; neither is an error.
func parsePiecePlacement(pos *Position, placement string) error {
	file, rank := 0, 7

	for i := 0; i < len(placement); i++ {
		c := placement[i]
		switch {
		case c == '/':
			file = 0
			if rank > 0 {
				rank--
			}
		case c >= '0' && c <= '9':
			file += int(c - '0')
		default:
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fmt.Errorf("%w: %q at offset %d", ErrInvalidPiecePlacementChar, rune(c), i)
			}
			if file < 8 && rank < 8 {
				pos.Place(piece, NewCoord(uint8(file), uint8(rank)))
			}
			file++
		}
	}

	return nil
}

// parseCastlingRights sets each flag when its letter appears anywhere in the
// field. Other characters, including '-', are ignored.
func parseCastlingRights(pos *Position, castling string) {
	pos.WhiteKingSide = strings.IndexByte(castling, 'K') >= 0
	pos.WhiteQueenSide = strings.IndexByte(castling, 'Q') >= 0
	pos.BlackKingSide = strings.IndexByte(castling, 'k') >= 0
	pos.BlackQueenSide = strings.IndexByte(castling, 'q') >= 0
}

// ToFEN returns the FEN representation of the position.
// Squares claimed by several masks are written with the lowest piece index.
func (p Position) ToFEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	sb.WriteByte(p.SideToMove.Char())

	// Castling rights
	sb.WriteByte(' ')
	castling := strings.ReplaceAll(p.CastlingString(), "-", "")
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	// En passant
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassantString())

	// Half-move clock and full-move number
	fmt.Fprintf(&sb, " %d %d", p.HalfMoveClock, p.FullMoveNumber)

	return sb.String()
}
