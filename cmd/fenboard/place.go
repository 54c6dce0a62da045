package main

import (
	"fmt"
	"strings"

	"github.com/hailam/fenboard/internal/board"
)

// placement is one "<piece>@<square>" item from the -place flag.
type placement struct {
	piece board.Piece
	coord board.Coord
}

// parsePlacements parses a comma separated list such as "r@h8,P@e4".
func parsePlacements(s string) ([]placement, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var out []placement
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		pieceStr, squareStr, ok := strings.Cut(item, "@")
		if !ok || len(pieceStr) != 1 {
			return nil, fmt.Errorf("placement %q: want <piece>@<square>", item)
		}
		piece := board.PieceFromChar(pieceStr[0])
		if piece == board.NoPiece {
			return nil, fmt.Errorf("placement %q: unknown piece %q", item, pieceStr)
		}
		coord, err := board.ParseCoord(squareStr)
		if err != nil {
			return nil, fmt.Errorf("placement %q: %w", item, err)
		}
		out = append(out, placement{piece: piece, coord: coord})
	}
	return out, nil
}

func applyPlacements(pos *board.Position, items []placement) {
	for _, p := range items {
		pos.Place(p.piece, p.coord)
	}
}
