package quadtree

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"os"

	"golang.org/x/image/bmp"
)

// maxImagePixels bounds the frame WriteImage allocates, 4 bytes per pixel.
const maxImagePixels = 1 << 28

var ErrImageTooLarge = errors.New("quadtree: image too large")

var (
	boundaryColor = color.RGBA{255, 0, 0, 255}
	pointColor    = color.RGBA{0, 255, 0, 255}
)

// Image writes a BMP rendering of the tree to path. See WriteImage.
func (t *Tree) Image(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("quadtree: create image: %w", err)
	}

	if err := t.WriteImage(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// WriteImage encodes the tree as a BMP covering the root boundary, one pixel
// per unit. Node boundaries are drawn in red and points in green on black.
func (t *Tree) WriteImage(w io.Writer) error {
	if t.root == nil {
		return ErrDestroyed
	}

	bounds, err := imageBounds(t.root.boundary)
	if err != nil {
		return err
	}
	frame := image.NewRGBA(bounds)
	draw.Draw(frame, frame.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	HLine := func(x1, y, x2 int, col color.Color) {
		for ; x1 <= x2; x1++ {
			frame.Set(x1, y, col)
		}
	}

	VLine := func(x, y1, y2 int, col color.Color) {
		for ; y1 <= y2; y1++ {
			frame.Set(x, y1, col)
		}
	}

	Box := func(r Rect, col color.Color) {
		x1, y1, x2, y2 := int(r.Min.X), int(r.Min.Y), int(r.Max.X), int(r.Max.Y)
		HLine(x1, y1, x2, col)
		HLine(x1, y2, x2, col)
		VLine(x1, y1, y2, col)
		VLine(x2, y1, y2, col)
	}

	points := t.Traverse(func(r Rect) bool {
		Box(r, boundaryColor)
		return true
	})

	for _, p := range points {
		frame.Set(int(p.X), int(p.Y), pointColor)
	}

	if err := bmp.Encode(w, frame); err != nil {
		return fmt.Errorf("quadtree: encode image: %w", err)
	}

	return nil
}

func imageBounds(b Rect) (image.Rectangle, error) {
	for _, v := range [...]float64{b.Min.X, b.Min.Y, b.Max.X + 1, b.Max.Y + 1} {
		if math.Abs(v) > math.MaxInt32 {
			return image.Rectangle{}, fmt.Errorf("%w: %v", ErrImageTooLarge, b)
		}
	}

	r := image.Rect(int(b.Min.X), int(b.Min.Y), int(b.Max.X)+1, int(b.Max.Y)+1)
	if float64(r.Dx())*float64(r.Dy()) > maxImagePixels {
		return image.Rectangle{}, fmt.Errorf("%w: %v", ErrImageTooLarge, b)
	}

	return r, nil
}
