package resource

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/bmp"
)

func init() {
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
}

// StdDecoder is the reference Decoder: it sniffs the format via the
// standard library's image.Decode registry (png and jpeg registered by
// their own package init, bmp registered by this package's init above,
// mirroring how gioui/noisetorch's vendored stack layers
// golang.org/x/image codecs alongside the stdlib ones rather than
// hand-rolling format detection).
type StdDecoder struct{}

func (StdDecoder) Decode(data []byte) (Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode resource: %w", err)
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return Image{Width: b.Dx(), Height: b.Dy(), RGBA: rgba.Pix}, nil
}
