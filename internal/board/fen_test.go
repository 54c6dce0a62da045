package board

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
)

func TestParseFENStartPosition(t *testing.T) {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN(StartFEN) error = %v", err)
	}

	masks := []struct {
		piece Piece
		want  Bitboard
	}{
		{WhitePawn, 0x000000000000FF00},
		{BlackPawn, 0x00FF000000000000},
		{WhiteRook, SquareBB(A1) | SquareBB(H1)},
		{BlackRook, SquareBB(A8) | SquareBB(H8)},
		{WhiteKing, SquareBB(NewSquare(4, 0))},
		{BlackQueen, SquareBB(NewSquare(3, 7))},
	}
	for _, m := range masks {
		if got := pos.Pieces[m.piece]; got != m.want {
			t.Errorf("mask %s = %#016x, want %#016x", m.piece, uint64(got), uint64(m.want))
		}
	}

	if pos.Occupied().PopCount() != 32 {
		t.Errorf("occupied squares = %d, want 32", pos.Occupied().PopCount())
	}
	if pos.SideToMove != White {
		t.Errorf("SideToMove = %v, want White", pos.SideToMove)
	}
	if pos.HalfMoveClock != 0 || pos.FullMoveNumber != 1 {
		t.Errorf("counters = %d/%d, want 0/1", pos.HalfMoveClock, pos.FullMoveNumber)
	}
	if diff := cmp.Diff(pos, NewStartPosition()); diff != "" {
		t.Errorf("NewStartPosition() mismatch (-parsed +start):\n%s", diff)
	}
}

func TestParseFENValid(t *testing.T) {
	pos, err := ParseFEN("rnbqkb1r/pp2pppp/2p2n2/3p4/3P4/2P2N2/PP2PPPP/RNBQKB1R w KQkq - 0 5")
	if err != nil {
		t.Fatalf("ParseFEN() error = %v", err)
	}

	want := NewEmptyPosition()
	want.Pieces = pos.Pieces
	want.WhiteKingSide, want.WhiteQueenSide = true, true
	want.BlackKingSide, want.BlackQueenSide = true, true
	want.FullMoveNumber = 5
	if diff := cmp.Diff(want, pos); diff != "" {
		t.Errorf("ParseFEN() mismatch (-want +got):\n%s", diff)
	}
	if !pos.Has(BlackKnight, NewSquare(5, 5)) {
		t.Error("expected black knight on f6")
	}
	if !pos.Has(WhitePawn, NewSquare(2, 2)) {
		t.Error("expected white pawn on c3")
	}
}

func TestParseFENActiveColor(t *testing.T) {
	tests := []struct {
		field string
		want  Color
	}{
		{"w", White},
		{"b", Black},
	}

	for _, tc := range tests {
		pos, err := ParseFEN("8/8/8/8/8/8/8/8 " + tc.field + " - - 0 1")
		if err != nil {
			t.Fatalf("ParseFEN() error = %v", err)
		}
		if pos.SideToMove != tc.want {
			t.Errorf("side %q = %v, want %v", tc.field, pos.SideToMove, tc.want)
		}
	}
}

func TestParseFENCastling(t *testing.T) {
	type rights struct{ K, Q, k, q bool }
	tests := []struct {
		field string
		want  rights
	}{
		{"KQkq", rights{true, true, true, true}},
		{"-", rights{}},
		{"Kq", rights{K: true, q: true}},
		{"qk", rights{k: true, q: true}},
		{"KXQ", rights{K: true, Q: true}},
		{"AHah", rights{}},
	}

	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			pos, err := ParseFEN("8/8/8/8/8/8/8/8 w " + tc.field + " - 0 1")
			if err != nil {
				t.Fatalf("ParseFEN() error = %v", err)
			}
			got := rights{pos.WhiteKingSide, pos.WhiteQueenSide, pos.BlackKingSide, pos.BlackQueenSide}
			if got != tc.want {
				t.Errorf("castling %q = %+v, want %+v", tc.field, got, tc.want)
			}
		})
	}
}

func TestParseFENEnPassant(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/4pP2/8/8/8 b - f3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN() error = %v", err)
	}
	c, ok := pos.EnPassantCoord()
	if !ok || c != (Coord{File: 5, Rank: 2}) {
		t.Errorf("EnPassantCoord() = %+v, %v; want {5 2}, true", c, ok)
	}
	if pos.EnPassantString() != "f3" {
		t.Errorf("EnPassantString() = %q, want f3", pos.EnPassantString())
	}

	pos, err = ParseFEN("8/8/8/8/8/8/8/8 w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN() error = %v", err)
	}
	if _, ok := pos.EnPassantCoord(); ok {
		t.Error("EnPassantCoord() reported a target for '-'")
	}
}

func TestParseFENCounters(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/8/8/8/8 w KQkq - 5 10")
	if err != nil {
		t.Fatalf("ParseFEN() error = %v", err)
	}
	if pos.HalfMoveClock != 5 || pos.FullMoveNumber != 10 {
		t.Errorf("counters = %d/%d, want 5/10", pos.HalfMoveClock, pos.FullMoveNumber)
	}

	pos, err = ParseFEN("8/8/8/8/8/8/8/8 w - - 65535 65535")
	if err != nil {
		t.Fatalf("ParseFEN() error = %v", err)
	}
	if pos.HalfMoveClock != 65535 || pos.FullMoveNumber != 65535 {
		t.Errorf("counters = %d/%d, want 65535/65535", pos.HalfMoveClock, pos.FullMoveNumber)
	}
}

func TestParseFENFieldCount(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"invalid_fen",
		"8/8/8/8/8/8/8/8",
		"8/8/8/8/8/8/8/8 w",
		"8/8/8/8/8/8/8/8 w - - 0",
		"8/8/8/8/8/8/8/8 w - - 0 1 extra",
		"x y z",
		"!!! ??? ### $$$ %%% ^^^ &&&",
	}

	for _, fen := range tests {
		t.Run(fen, func(t *testing.T) {
			_, err := ParseFEN(fen)
			if !errors.Is(err, ErrMalformedFEN) {
				t.Errorf("ParseFEN(%q) error = %v, want %v", fen, err, ErrMalformedFEN)
			}
		})
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want error
	}{
		{"bad piece letter", "rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", ErrInvalidPiecePlacementChar},
		{"non ascii", "8/8/8/8/8/8/8/7é w - - 0 1", ErrInvalidPiecePlacementChar},
		{"bad side", "8/8/8/8/8/8/8/8 W - - 0 1", ErrInvalidActiveColor},
		{"long side", "8/8/8/8/8/8/8/8 white - - 0 1", ErrInvalidActiveColor},
		{"ep malformed", "8/8/8/8/8/8/8/8 w - e33 0 1", ErrMalformedCoordinate},
		{"ep out of range", "8/8/8/8/8/8/8/8 w - z3 0 1", ErrOutOfRangeCoordinate},
		{"halfmove text", "8/8/8/8/8/8/8/8 w - - x 1", ErrInvalidHalfmoveClock},
		{"halfmove negative", "8/8/8/8/8/8/8/8 w - - -1 1", ErrInvalidHalfmoveClock},
		{"halfmove overflow", "8/8/8/8/8/8/8/8 w - - 65536 1", ErrInvalidHalfmoveClock},
		{"fullmove text", "8/8/8/8/8/8/8/8 w - - 0 ten", ErrInvalidFullmoveNumber},
		{"fullmove overflow", "8/8/8/8/8/8/8/8 w - - 0 99999999999", ErrInvalidFullmoveNumber},
		// Placement is checked before the side to move.
		{"first error wins", "8/8/8/8/8/8/8/7? x - - y z", ErrInvalidPiecePlacementChar},
		{"side before clocks", "8/8/8/8/8/8/8/8 x - - y z", ErrInvalidActiveColor},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if !errors.Is(err, tc.want) {
				t.Fatalf("ParseFEN(%q) error = %v, want %v", tc.fen, err, tc.want)
			}
			if diff := cmp.Diff(Position{}, pos); diff != "" {
				t.Errorf("ParseFEN() returned a partial position on error:\n%s", diff)
			}
		})
	}
}

func TestParseFENTolerantPlacement(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		piece Piece
		want  Bitboard
	}{
		{"excess slashes clamp at rank 1", "8/8/8/8/8/8/8/8/8/8/P w - - 0 1", WhitePawn, SquareBB(A1)},
		{"overlong rank drops extra piece", "ppppppppp/8/8/8/8/8/8/8 w - - 0 1", BlackPawn, Rank8},
		{"nine empty squares", "9P/8/8/8/8/8/8/8 w - - 0 1", WhitePawn, Empty},
		{"zero skip", "0P7/8/8/8/8/8/8/8 w - - 0 1", WhitePawn, SquareBB(A8)},
		{"short ranks", "K/k w - - 0 1", WhiteKing, SquareBB(A8)},
		{"empty placement runs", "/ w - - 0 1", WhitePawn, Empty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN(%q) error = %v", tc.fen, err)
			}
			if got := pos.Pieces[tc.piece]; got != tc.want {
				t.Errorf("mask %s = %#x, want %#x", tc.piece, uint64(got), uint64(tc.want))
			}
		})
	}
}

func TestParseFENWhitespace(t *testing.T) {
	pos, err := ParseFEN("  8/8/8/8/8/8/8/R7\tb\n-   -  3    7 ")
	if err != nil {
		t.Fatalf("ParseFEN() error = %v", err)
	}
	if pos.SideToMove != Black || pos.HalfMoveClock != 3 || pos.FullMoveNumber != 7 {
		t.Errorf("got side %v counters %d/%d", pos.SideToMove, pos.HalfMoveClock, pos.FullMoveNumber)
	}
	if pos.Pieces[WhiteRook] != SquareBB(A1) {
		t.Errorf("white rook mask = %#x, want a1", uint64(pos.Pieces[WhiteRook]))
	}
}

func TestToFENRoundTrip(t *testing.T) {
	tests := []string{
		StartFEN,
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w Kq - 12 40",
		"8/8/8/8/8/8/8/4K3 w - - 0 1",
		"8/8/8/8/8/8/8/8 w - - 0 0",
	}

	for _, fen := range tests {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN() error = %v", err)
			}
			if got := pos.ToFEN(); got != fen {
				t.Errorf("ToFEN() = %q, want %q", got, fen)
			}
		})
	}
}

func TestHash(t *testing.T) {
	start := NewStartPosition()
	if start.Hash() != NewStartPosition().Hash() {
		t.Error("hash is not deterministic")
	}

	black := start
	black.SideToMove = Black
	if black.Hash() == start.Hash() {
		t.Error("side to move does not change the hash")
	}

	noCastle := start
	noCastle.WhiteKingSide = false
	if noCastle.Hash() == start.Hash() {
		t.Error("castling rights do not change the hash")
	}

	counters := start
	counters.HalfMoveClock, counters.FullMoveNumber = 9, 30
	if counters.Hash() != start.Hash() {
		t.Error("move counters should not change the hash")
	}
}

// oracleFENs are well-formed positions that an independent decoder accepts.
var oracleFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
}

// TestParseFENMatchesOracle compares every mask with an independent FEN decoder.
func TestParseFENMatchesOracle(t *testing.T) {
	oracleType := map[chess.PieceType]PieceType{
		chess.Pawn:   Pawn,
		chess.Knight: Knight,
		chess.Bishop: Bishop,
		chess.Rook:   Rook,
		chess.Queen:  Queen,
		chess.King:   King,
	}

	for _, fen := range oracleFENs {
		t.Run(strings.Fields(fen)[0], func(t *testing.T) {
			opt, err := chess.FEN(fen)
			if err != nil {
				t.Fatalf("oracle rejected %q: %v", fen, err)
			}
			oracle := chess.NewGame(opt).Position()

			var want [NumPieces]Bitboard
			for sq, p := range oracle.Board().SquareMap() {
				c := White
				if p.Color() == chess.Black {
					c = Black
				}
				piece := NewPiece(oracleType[p.Type()], c)
				want[piece] = want[piece].Set(Square(sq))
			}

			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN() error = %v", err)
			}
			if diff := cmp.Diff(want, pos.Pieces); diff != "" {
				t.Errorf("masks differ from oracle (-oracle +got):\n%s", diff)
			}

			wantSide := White
			if oracle.Turn() == chess.Black {
				wantSide = Black
			}
			if pos.SideToMove != wantSide {
				t.Errorf("SideToMove = %v, oracle %v", pos.SideToMove, wantSide)
			}

			cr := oracle.CastleRights()
			gotCastle := [4]bool{pos.WhiteKingSide, pos.WhiteQueenSide, pos.BlackKingSide, pos.BlackQueenSide}
			wantCastle := [4]bool{
				cr.CanCastle(chess.White, chess.KingSide),
				cr.CanCastle(chess.White, chess.QueenSide),
				cr.CanCastle(chess.Black, chess.KingSide),
				cr.CanCastle(chess.Black, chess.QueenSide),
			}
			if gotCastle != wantCastle {
				t.Errorf("castling = %v, oracle %v", gotCastle, wantCastle)
			}
		})
	}
}
