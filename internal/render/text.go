// Package render turns decoded positions into text grids and PNG images.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/hailam/fenboard/internal/board"
)

// emptySquare is printed for squares no mask claims.
const emptySquare = '.'

// Grid returns the 8x8 piece letters, rank 8 first. Squares claimed by more
// than one mask show the piece with the highest index, the same order the
// masks are painted in.
func Grid(pos board.Position) [8][8]byte {
	var grid [8][8]byte
	for row := range grid {
		for col := range grid[row] {
			grid[row][col] = emptySquare
		}
	}

	for piece := board.WhitePawn; piece < board.NoPiece; piece++ {
		bb := pos.Bitboard(piece)
		for bb != 0 {
			sq := bb.PopLSB()
			grid[7-sq.Rank()][sq.File()] = piece.Char()
		}
	}
	return grid
}

// WriteText writes the board grid followed by the remaining FEN fields.
func WriteText(w io.Writer, pos board.Position) error {
	var sb strings.Builder

	grid := Grid(pos)
	for row, cells := range grid {
		fmt.Fprintf(&sb, "%d  ", 8-row)
		for _, c := range cells {
			sb.WriteByte(c)
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", pos.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", pos.CastlingString())
	fmt.Fprintf(&sb, "En passant: %s\n", pos.EnPassantString())
	fmt.Fprintf(&sb, "Half-move clock: %d\n", pos.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", pos.FullMoveNumber)

	_, err := io.WriteString(w, sb.String())
	return err
}

// Text returns the WriteText output as a string.
func Text(pos board.Position) string {
	var sb strings.Builder
	_ = WriteText(&sb, pos)
	return sb.String()
}
