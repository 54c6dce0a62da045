package render

import (
	"bytes"
	"sync"

	"github.com/hailam/fenboard/internal/board"
)

// CachedRenderer wraps an ImageRenderer with a cache of encoded PNGs keyed
// by position hash.
type CachedRenderer struct {
	inner   *ImageRenderer
	cache   map[uint64]cachedImage
	mu      sync.RWMutex
	maxSize int
	hits    uint64
	misses  uint64
}

// cachedImage keeps what the image depends on so that hash collisions and
// counter-only differences are told apart.
type cachedImage struct {
	pieces    [board.NumPieces]board.Bitboard
	enPassant board.Square
	png       []byte
}

func (c cachedImage) matches(pos board.Position) bool {
	return c.pieces == pos.Pieces && c.enPassant == pos.EnPassant
}

// NewCachedRenderer caches up to size images rendered by inner.
func NewCachedRenderer(inner *ImageRenderer, size int) *CachedRenderer {
	if size < 2 {
		size = 2
	}
	return &CachedRenderer{
		inner:   inner,
		cache:   make(map[uint64]cachedImage, size),
		maxSize: size,
	}
}

// PNG returns the encoded image of pos. The returned slice is shared and
// must not be modified.
func (cr *CachedRenderer) PNG(pos board.Position) ([]byte, error) {
	key := pos.Hash()

	cr.mu.RLock()
	entry, ok := cr.cache[key]
	cr.mu.RUnlock()
	if ok && entry.matches(pos) {
		cr.mu.Lock()
		cr.hits++
		cr.mu.Unlock()
		return entry.png, nil
	}

	var buf bytes.Buffer
	if err := cr.inner.WritePNG(&buf, pos); err != nil {
		return nil, err
	}

	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.misses++
	if len(cr.cache) >= cr.maxSize {
		// Simple eviction: clear half the cache
		i := 0
		for k := range cr.cache {
			if i >= cr.maxSize/2 {
				break
			}
			delete(cr.cache, k)
			i++
		}
	}
	cr.cache[key] = cachedImage{
		pieces:    pos.Pieces,
		enPassant: pos.EnPassant,
		png:       buf.Bytes(),
	}
	return buf.Bytes(), nil
}

// Stats returns cache hit and miss counts.
func (cr *CachedRenderer) Stats() (hits, misses uint64) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.hits, cr.misses
}

// Len returns the number of cached images.
func (cr *CachedRenderer) Len() int {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return len(cr.cache)
}
