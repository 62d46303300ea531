package camera

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/adjeikofi/cropdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFrame(t *testing.T, dir, name string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 160, B: 90, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644))
}

func TestFileCamera_Capture(t *testing.T) {
	dir := t.TempDir()
	writeTestFrame(t, dir, "frame1.jpg", 120, 90)

	cam := NewFileCamera(dir)
	frame, err := cam.Capture(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 120, frame.NativeWidth)
	assert.Equal(t, 90, frame.NativeHeight)
	assert.NotEmpty(t, frame.Data)
	assert.False(t, frame.CapturedAt.IsZero())
}

func TestFileCamera_CyclesFrames(t *testing.T) {
	dir := t.TempDir()
	writeTestFrame(t, dir, "a.jpg", 10, 10)
	writeTestFrame(t, dir, "b.jpg", 20, 20)

	cam := NewFileCamera(dir)

	first, err := cam.Capture(context.Background())
	require.NoError(t, err)
	second, err := cam.Capture(context.Background())
	require.NoError(t, err)
	third, err := cam.Capture(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, first.NativeWidth)
	assert.Equal(t, 20, second.NativeWidth)
	assert.Equal(t, 10, third.NativeWidth)
}

func TestFileCamera_MissingDirectory(t *testing.T) {
	cam := NewFileCamera(filepath.Join(t.TempDir(), "nope"))

	_, err := cam.Capture(context.Background())
	require.Error(t, err)
	assert.Equal(t, cropdoc.EDEVICE, cropdoc.ErrorCode(err))
}

func TestFileCamera_EmptyDirectory(t *testing.T) {
	cam := NewFileCamera(t.TempDir())

	_, err := cam.Capture(context.Background())
	require.Error(t, err)
	assert.Equal(t, cropdoc.EDEVICE, cropdoc.ErrorCode(err))
}
