package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed so hashes stay stable across runs and stored records.
var (
	zobristPiece      [NumPieces][64]uint64
	zobristEnPassant  [8]uint64 // One per file
	zobristCastling   [4]uint64 // K, Q, k, q
	zobristSideToMove uint64    // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for piece := range zobristPiece {
		for sq := range zobristPiece[piece] {
			zobristPiece[piece][sq] = rng.next()
		}
	}
	for file := range zobristEnPassant {
		zobristEnPassant[file] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// Hash computes the Zobrist hash of the position from scratch.
// Overlapping masks contribute one key per mask.
func (p Position) Hash() uint64 {
	var hash uint64

	for piece, bb := range p.Pieces {
		for bb != 0 {
			sq := bb.PopLSB()
			hash ^= zobristPiece[piece][sq]
		}
	}

	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}

	for i, set := range [4]bool{p.WhiteKingSide, p.WhiteQueenSide, p.BlackKingSide, p.BlackQueenSide} {
		if set {
			hash ^= zobristCastling[i]
		}
	}

	if p.EnPassant.IsValid() {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	return hash
}
