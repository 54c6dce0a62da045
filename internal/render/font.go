package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontsOnce   sync.Once
	fontsErr    error
	boldFont    *opentype.Font
	regularFont *opentype.Font
)

// loadFonts parses the embedded Go fonts once per process.
func loadFonts() error {
	fontsOnce.Do(func() {
		boldFont, fontsErr = opentype.Parse(gobold.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("parse bold font: %w", fontsErr)
			return
		}
		regularFont, fontsErr = opentype.Parse(goregular.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("parse regular font: %w", fontsErr)
		}
	})
	return fontsErr
}

// newFace returns a face of the given pixel size. Faces are not safe for
// concurrent use; each ImageRenderer owns its own.
func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
