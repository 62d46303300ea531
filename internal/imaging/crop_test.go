package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/adjeikofi/cropdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testJPEG renders a solid-color JPEG of the given size.
func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	green := color.RGBA{R: 46, G: 125, B: 50, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, green)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestBounds(t *testing.T) {
	data := testJPEG(t, 320, 240)

	w, h, err := Bounds(data)
	require.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestBounds_Garbage(t *testing.T) {
	_, _, err := Bounds([]byte("not an image"))
	require.Error(t, err)
	assert.Equal(t, cropdoc.EINVALID, cropdoc.ErrorCode(err))
}

func TestCropToGuideBox(t *testing.T) {
	const nativeW, nativeH = 800, 1600
	captured := &cropdoc.CapturedImage{
		Data:         testJPEG(t, nativeW, nativeH),
		NativeWidth:  nativeW,
		NativeHeight: nativeH,
		CapturedAt:   time.Now(),
	}

	cropped, err := CropToGuideBox(captured, 400, 800)
	require.NoError(t, err)

	// Scales are 2x on both axes: guide box 320x400 -> crop 640x800.
	assert.Equal(t, 640, cropped.Width)
	assert.Equal(t, 800, cropped.Height)

	// Result decodes back to the expected dimensions.
	w, h, err := Bounds(cropped.Data)
	require.NoError(t, err)
	assert.Equal(t, 640, w)
	assert.Equal(t, 800, h)
}

func TestCropToGuideBox_DegenerateScreen(t *testing.T) {
	captured := &cropdoc.CapturedImage{
		Data:         testJPEG(t, 100, 100),
		NativeWidth:  100,
		NativeHeight: 100,
	}

	_, err := CropToGuideBox(captured, 0, 0)
	require.Error(t, err)
	assert.Equal(t, cropdoc.EGEOMETRY, cropdoc.ErrorCode(err))
}

func TestCrop_RectClampedToImage(t *testing.T) {
	data := testJPEG(t, 100, 100)

	cropped, err := Crop(data, cropdoc.Rect{X: 50, Y: 50, Width: 500, Height: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, cropped.Width)
	assert.Equal(t, 50, cropped.Height)
}

func TestCrop_EmptyRect(t *testing.T) {
	data := testJPEG(t, 100, 100)

	_, err := Crop(data, cropdoc.Rect{X: 200, Y: 200, Width: 10, Height: 10})
	require.Error(t, err)
	assert.Equal(t, cropdoc.EGEOMETRY, cropdoc.ErrorCode(err))
}
