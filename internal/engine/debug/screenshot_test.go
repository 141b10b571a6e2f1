package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

// twoRows is a 1x2 framebuffer: bottom row red, top row blue.
var twoRows = []byte{
	255, 0, 0, 255,
	0, 0, 255, 255,
}

func TestImageFromPixelsFlips(t *testing.T) {
	img, err := ImageFromPixels(twoRows, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 1))

	_, err = ImageFromPixels(twoRows, 2, 2)
	assert.ErrorContains(t, err, "size mismatch")
}

func fixedCapture(dir string, f Format) *ScreenshotCapture {
	sc := NewScreenshotCapture(dir, "heliscene", f)
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	return sc
}

func TestCapturePNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := fixedCapture(dir, FormatPNG)

	name, err := sc.CaptureFromPixels(twoRows, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "heliscene_2024-05-01_12-30-00_001.png"), name)

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 2), img.Bounds())
	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Zero(t, r)
	assert.Equal(t, uint32(0xffff), b)

	// a second capture in the same second gets its own file
	second, err := sc.CaptureFromPixels(twoRows, 1, 2)
	require.NoError(t, err)
	assert.NotEqual(t, name, second)
}

func TestCaptureBMP(t *testing.T) {
	sc := fixedCapture(t.TempDir(), FormatBMP)
	name, err := sc.CaptureFromPixels(twoRows, 1, 2)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".bmp"))

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	img, err := bmp.Decode(f)
	require.NoError(t, err)
	r, _, _, _ := img.At(0, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestCaptureUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	sc := fixedCapture(dir, Format("tga"))
	_, err := sc.CaptureFromPixels(twoRows, 1, 2)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed capture leaves no file behind")
}
