package render

import (
	"fmt"
	"strings"

	"github.com/hailam/fenboard/internal/board"
)

// boardSVG describes the squares, piece discs and en passant marker of pos as
// an SVG document of size 8*sq pixels. Piece letters are drawn afterwards.
func boardSVG(pos board.Position, theme Theme, sq int) string {
	size := 8 * sq
	var sb strings.Builder

	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, size, size, size, size)
	sb.WriteByte('\n')

	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			fill := theme.LightSquare
			if (file+rank)%2 == 0 {
				fill = theme.DarkSquare
			}
			x, y := squareOrigin(file, rank, sq)
			fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`, x, y, sq, sq, hexColor(fill))
			sb.WriteByte('\n')
		}
	}

	grid := Grid(pos)
	r := float64(sq) * 0.4
	stroke := float64(sq) / 32
	for row, cells := range grid {
		for col, c := range cells {
			if c == emptySquare {
				continue
			}
			fill := theme.BlackPiece
			if board.PieceFromChar(c).Color() == board.White {
				fill = theme.WhitePiece
			}
			cx, cy := squareCenter(col, 7-row, sq)
			fmt.Fprintf(&sb, `<circle cx="%g" cy="%g" r="%g" fill="%s" stroke="%s" stroke-width="%g"/>`,
				cx, cy, r, hexColor(fill), hexColor(theme.PieceOutline), stroke)
			sb.WriteByte('\n')
		}
	}

	if c, ok := pos.EnPassantCoord(); ok {
		cx, cy := squareCenter(int(c.File), int(c.Rank), sq)
		fmt.Fprintf(&sb, `<circle cx="%g" cy="%g" r="%g" fill="none" stroke="%s" stroke-width="%g"/>`,
			cx, cy, float64(sq)*0.3, hexColor(theme.EnPassant), float64(sq)/12)
		sb.WriteByte('\n')
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// squareOrigin returns the top-left pixel of a square with rank 8 at the top.
func squareOrigin(file, rank, sq int) (x, y int) {
	return file * sq, (7 - rank) * sq
}

func squareCenter(file, rank, sq int) (x, y float64) {
	ox, oy := squareOrigin(file, rank, sq)
	half := float64(sq) / 2
	return float64(ox) + half, float64(oy) + half
}
