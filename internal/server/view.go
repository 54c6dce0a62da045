package server

import (
	"fmt"
	"time"

	"github.com/hailam/fenboard/internal/board"
	"github.com/hailam/fenboard/internal/render"
	"github.com/hailam/fenboard/internal/storage"
)

// CastlingView lists the four castling flags by name.
type CastlingView struct {
	WhiteKingSide  bool `json:"white_king_side"`
	WhiteQueenSide bool `json:"white_queen_side"`
	BlackKingSide  bool `json:"black_king_side"`
	BlackQueenSide bool `json:"black_queen_side"`
}

// PositionView is the JSON form of a decoded position. Bitboards are keyed
// by piece letter and hold the raw LERF masks.
type PositionView struct {
	FEN            string            `json:"fen"`
	Board          []string          `json:"board"`
	Bitboards      map[string]uint64 `json:"bitboards"`
	SideToMove     string            `json:"side_to_move"`
	Castling       CastlingView      `json:"castling"`
	EnPassant      string            `json:"en_passant"`
	HalfMoveClock  uint16            `json:"halfmove_clock"`
	FullMoveNumber uint16            `json:"fullmove_number"`
	Hash           string            `json:"hash"`
	Conflicts      []string          `json:"conflicts,omitempty"`
}

func newPositionView(pos board.Position) PositionView {
	v := PositionView{
		FEN:        pos.ToFEN(),
		Bitboards:  make(map[string]uint64, board.NumPieces),
		SideToMove: string(pos.SideToMove.Char()),
		Castling: CastlingView{
			WhiteKingSide:  pos.WhiteKingSide,
			WhiteQueenSide: pos.WhiteQueenSide,
			BlackKingSide:  pos.BlackKingSide,
			BlackQueenSide: pos.BlackQueenSide,
		},
		EnPassant:      pos.EnPassantString(),
		HalfMoveClock:  pos.HalfMoveClock,
		FullMoveNumber: pos.FullMoveNumber,
		Hash:           formatHash(pos.Hash()),
	}

	for _, row := range render.Grid(pos) {
		v.Board = append(v.Board, string(row[:]))
	}
	for piece := board.WhitePawn; piece < board.NoPiece; piece++ {
		v.Bitboards[string(piece.Char())] = uint64(pos.Bitboard(piece))
	}
	for _, sq := range pos.Conflicts().Squares() {
		v.Conflicts = append(v.Conflicts, sq.String())
	}
	return v
}

// RecordView is a stored position.
type RecordView struct {
	ID        string        `json:"id"`
	FEN       string        `json:"fen"`
	Hash      string        `json:"hash"`
	CreatedAt time.Time     `json:"created_at"`
	Position  *PositionView `json:"position,omitempty"`
}

func newRecordView(rec storage.Record) RecordView {
	return RecordView{
		ID:        rec.ID.String(),
		FEN:       rec.FEN,
		Hash:      formatHash(rec.Hash),
		CreatedAt: rec.CreatedAt,
	}
}

func formatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}
