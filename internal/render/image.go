package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/fenboard/internal/board"
)

// MinSquareSize is the smallest square edge, in pixels, that still leaves
// room for legible piece letters.
const MinSquareSize = 16

// ImageOptions configures an ImageRenderer.
type ImageOptions struct {
	SquareSize  int // Edge of one square in pixels
	Theme       Theme
	Coordinates bool // Draw file letters and rank digits inside the edge squares
}

// DefaultImageOptions returns 64px squares in the default theme.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{
		SquareSize:  64,
		Theme:       DefaultTheme(),
		Coordinates: true,
	}
}

// ImageRenderer rasterises positions into RGBA images.
// It is safe for concurrent use.
type ImageRenderer struct {
	opts ImageOptions

	mu        sync.Mutex // guards the font faces
	pieceFace font.Face
	labelFace font.Face
}

// NewImageRenderer creates a renderer for the given options.
func NewImageRenderer(opts ImageOptions) (*ImageRenderer, error) {
	if opts.SquareSize < MinSquareSize {
		return nil, fmt.Errorf("square size %d below minimum %d", opts.SquareSize, MinSquareSize)
	}
	if err := loadFonts(); err != nil {
		return nil, err
	}

	pieceFace, err := newFace(boldFont, float64(opts.SquareSize)*0.5)
	if err != nil {
		return nil, fmt.Errorf("piece face: %w", err)
	}
	labelFace, err := newFace(regularFont, float64(opts.SquareSize)*0.2)
	if err != nil {
		return nil, fmt.Errorf("label face: %w", err)
	}

	return &ImageRenderer{
		opts:      opts,
		pieceFace: pieceFace,
		labelFace: labelFace,
	}, nil
}

// Size returns the edge length of rendered images in pixels.
func (r *ImageRenderer) Size() int {
	return 8 * r.opts.SquareSize
}

// Render draws pos into a new image.
func (r *ImageRenderer) Render(pos board.Position) (*image.RGBA, error) {
	size := r.Size()
	sq := r.opts.SquareSize

	icon, err := oksvg.ReadIconStream(strings.NewReader(boardSVG(pos, r.opts.Theme, sq)))
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.drawPieceLetters(rgba, pos)
	if r.opts.Coordinates {
		r.drawCoordinates(rgba)
	}
	return rgba, nil
}

// WritePNG renders pos and encodes it as PNG.
func (r *ImageRenderer) WritePNG(w io.Writer, pos board.Position) error {
	img, err := r.Render(pos)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// drawPieceLetters writes each piece letter centered on its disc, in the
// contrasting color.
func (r *ImageRenderer) drawPieceLetters(dst *image.RGBA, pos board.Position) {
	sq := r.opts.SquareSize
	theme := r.opts.Theme

	for row, cells := range Grid(pos) {
		for col, c := range cells {
			if c == emptySquare {
				continue
			}
			ink := theme.WhitePiece
			if board.PieceFromChar(c).Color() == board.White {
				ink = theme.BlackPiece
			}
			letter := strings.ToUpper(string(c))
			cx, cy := squareCenter(col, 7-row, sq)
			r.drawCentered(dst, r.pieceFace, ink, letter, cx, cy)
		}
	}
}

// drawCoordinates labels files along rank 1 and ranks along file a.
func (r *ImageRenderer) drawCoordinates(dst *image.RGBA) {
	sq := r.opts.SquareSize
	pad := sq / 16
	ascent := r.labelFace.Metrics().Ascent.Ceil()
	ink := r.opts.Theme.LabelColor

	for file := 0; file < 8; file++ {
		x, y := squareOrigin(file, 0, sq)
		label := string(rune('a' + file))
		width := font.MeasureString(r.labelFace, label).Ceil()
		r.drawAt(dst, r.labelFace, ink, label, x+sq-pad-width, y+sq-pad)
	}
	for rank := 0; rank < 8; rank++ {
		x, y := squareOrigin(0, rank, sq)
		r.drawAt(dst, r.labelFace, ink, string(rune('1'+rank)), x+pad, y+pad+ascent)
	}
}

func (r *ImageRenderer) drawCentered(dst *image.RGBA, face font.Face, ink color.RGBA, s string, cx, cy float64) {
	m := face.Metrics()
	width := font.MeasureString(face, s)
	height := m.Ascent - m.Descent
	x := fixed.Int26_6(cx*64) - width/2
	y := fixed.Int26_6(cy*64) + height/2
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(s)
}

func (r *ImageRenderer) drawAt(dst *image.RGBA, face font.Face, ink color.RGBA, s string, x, baseline int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}
