// Package board implements chess position representation using bitboards.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for the corners and the squares the tests and demo use.
const (
	A1 Square = 0
	H1 Square = 7
	A2 Square = 8
	E4 Square = 28
	F3 Square = 21
	A8 Square = 56
	H8 Square = 63

	NoSquare Square = 64
)

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// Coord returns the (file, rank) pair of the square.
func (sq Square) Coord() Coord {
	return Coord{File: uint8(sq.File()), Rank: uint8(sq.Rank())}
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return sq.Coord().String()
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// Coord is a zero-based (file, rank) pair. File 0 is 'a', rank 0 is '1'.
type Coord struct {
	File uint8
	Rank uint8
}

// NewCoord creates a Coord. It does not validate its arguments.
func NewCoord(file, rank uint8) Coord {
	return Coord{File: file, Rank: rank}
}

// IsValid reports whether both components are on the board.
func (c Coord) IsValid() bool {
	return c.File <= 7 && c.Rank <= 7
}

// Square converts the coordinate to a square index.
// The result is meaningless for invalid coordinates.
func (c Coord) Square() Square {
	return NewSquare(int(c.File), int(c.Rank))
}

// String returns the two-character label ("a1".."h8").
func (c Coord) String() string {
	return string([]byte{'a' + c.File, '1' + c.Rank})
}

// ParseCoord parses algebraic notation (e.g., "e4") into a Coord.
// Only lowercase file letters are accepted.
func ParseCoord(s string) (Coord, error) {
	if len(s) != 2 {
		return Coord{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}

	file, rank := s[0], s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Coord{}, fmt.Errorf("%w: %q", ErrOutOfRangeCoordinate, s)
	}

	return Coord{File: file - 'a', Rank: rank - '1'}, nil
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	c, err := ParseCoord(s)
	if err != nil {
		return NoSquare, err
	}
	return c.Square(), nil
}
