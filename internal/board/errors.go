package board

import "errors"

// Sentinel errors returned by the coordinate codec and the FEN decoder.
// Use errors.Is to check for them; the returned errors carry the offending input.
var (
	// ErrMalformedFEN indicates a FEN string without exactly six fields.
	ErrMalformedFEN = errors.New("malformed FEN")

	// ErrMalformedCoordinate indicates a square label that is not two characters long.
	ErrMalformedCoordinate = errors.New("malformed coordinate")

	// ErrOutOfRangeCoordinate indicates a file letter outside a-h or a rank digit outside 1-8.
	ErrOutOfRangeCoordinate = errors.New("coordinate out of range")

	// ErrInvalidPiecePlacementChar indicates an unknown character in the placement field.
	ErrInvalidPiecePlacementChar = errors.New("invalid character in piece placement")

	// ErrInvalidActiveColor indicates a side-to-move field other than "w" or "b".
	ErrInvalidActiveColor = errors.New("invalid active color")

	// ErrInvalidHalfmoveClock indicates an unparsable half-move clock.
	ErrInvalidHalfmoveClock = errors.New("invalid halfmove clock")

	// ErrInvalidFullmoveNumber indicates an unparsable full-move number.
	ErrInvalidFullmoveNumber = errors.New("invalid fullmove number")

	// ErrOverlappingPieces indicates a square occupied by more than one piece kind.
	ErrOverlappingPieces = errors.New("square occupied by more than one piece")
)
