package source

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/AnyUserName/spritesheet-cli/internal/atlas"
	"github.com/AnyUserName/spritesheet-cli/internal/hasher"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode turns the encoded bytes of filename into a SourceImage named
// after the file. SVGs are rasterised at their viewBox size.
func Decode(filename string, data []byte) (atlas.SourceImage, error) {
	var (
		img image.Image
		err error
	)
	if FormatOf(filename) == "svg" {
		img, err = rasterizeSVG(bytes.NewReader(data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return atlas.SourceImage{}, fmt.Errorf("decode %s: %w", filename, err)
	}

	src, err := atlas.FromImage(NameOf(filename), img)
	if err != nil {
		return atlas.SourceImage{}, err
	}
	return src.WithKey(hasher.ContentHash(data, hasher.KeyLen)), nil
}
