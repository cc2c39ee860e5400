package preview

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/EchoTools/ddsgpu/pkg/texture"
)

// Thumbnail scales img so that its longer side is at most maxSide pixels,
// keeping the aspect ratio. Images that already fit, and a maxSide of zero
// or less, are returned unscaled.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}

	tw, th := maxSide, maxSide
	if w > h {
		th = max(1, h*maxSide/w)
	} else {
		tw = max(1, w*maxSide/h)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// WritePNG decodes one face and level of l and writes it to w as a PNG,
// scaled down to maxSide when maxSide is positive.
func WritePNG(w io.Writer, l *texture.Layout, face, level, maxSide int) error {
	img, err := Level(l, face, level)
	if err != nil {
		return err
	}
	if err := png.Encode(w, Thumbnail(img, maxSide)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
