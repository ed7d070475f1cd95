package quadtree

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func newImageTree(t *testing.T) *Tree {
	logger, _ := test.NewNullLogger()
	qt, err := New(Config{Boundary: Rect{Point{0, 0}, Point{64, 64}}, Logger: logger})
	require.NoError(t, err)
	insertAll(t, qt, Point{10, 10}, Point{50, 10}, Point{10, 50}, Point{50, 50}, Point{20, 20})
	return qt
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestWriteImage(t *testing.T) {
	qt := newImageTree(t)

	var buf bytes.Buffer
	require.NoError(t, qt.WriteImage(&buf))

	img, err := bmp.Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, 65, img.Bounds().Dx())
	assert.Equal(t, 65, img.Bounds().Dy())

	// points
	assert.Equal(t, pointColor, rgba(img.At(10, 10)))
	assert.Equal(t, pointColor, rgba(img.At(50, 50)))
	assert.Equal(t, pointColor, rgba(img.At(20, 20)))

	// root edge and the split through the center
	assert.Equal(t, boundaryColor, rgba(img.At(0, 0)))
	assert.Equal(t, boundaryColor, rgba(img.At(64, 30)))
	assert.Equal(t, boundaryColor, rgba(img.At(32, 5)))
	assert.Equal(t, boundaryColor, rgba(img.At(5, 32)))

	assert.Equal(t, color.RGBA{0, 0, 0, 255}, rgba(img.At(5, 40)))
}

func TestImageFile(t *testing.T) {
	qt := newImageTree(t)
	path := filepath.Join(t.TempDir(), "tree.bmp")

	require.NoError(t, qt.Image(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := bmp.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 65, cfg.Width)
	assert.Equal(t, 65, cfg.Height)
}

func TestImageErrors(t *testing.T) {
	qt := newImageTree(t)

	err := qt.Image(filepath.Join(t.TempDir(), "missing", "tree.bmp"))
	assert.Error(t, err)

	qt.Destroy()
	assert.Equal(t, ErrDestroyed, qt.WriteImage(&bytes.Buffer{}))
}

func TestImageTooLarge(t *testing.T) {
	logger, _ := test.NewNullLogger()

	for _, b := range []Rect{
		{Point{0, 0}, Point{1e12, 1e12}},
		{Point{0, 0}, Point{100000, 100000}},
		{Point{-3e9, 0}, Point{0, 10}},
	} {
		qt, err := New(Config{Boundary: b, Logger: logger})
		require.NoError(t, err)
		insertAll(t, qt, b.Max)

		var buf bytes.Buffer
		err = qt.WriteImage(&buf)
		assert.True(t, errors.Is(err, ErrImageTooLarge), "%v: got %v", b, err)
		assert.Zero(t, buf.Len())
	}
}
