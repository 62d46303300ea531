// Package imaging performs the guide-box crop on captured frames.
package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"math"

	"github.com/adjeikofi/cropdoc"
)

// jpegQuality re-encodes crops at maximum quality; the diagnosis model
// sees exactly what the grower framed.
const jpegQuality = 100

// Bounds decodes only the image header and returns the native dimensions.
func Bounds(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, cropdoc.Invalid("Unreadable image data")
	}
	return cfg.Width, cfg.Height, nil
}

// CropToGuideBox crops a captured frame to the on-screen guide box and
// re-encodes it as JPEG. The crop rectangle is computed by scaling the
// guide box from screen coordinates into image coordinates.
func CropToGuideBox(captured *cropdoc.CapturedImage, screenWidth, screenHeight float64) (*cropdoc.CroppedImage, error) {
	rect, err := cropdoc.CropRect(captured.NativeWidth, captured.NativeHeight, screenWidth, screenHeight)
	if err != nil {
		return nil, err
	}
	return Crop(captured.Data, rect)
}

// Crop extracts the pixels inside rect from a JPEG-encoded source and
// re-encodes the result at maximum quality.
func Crop(data []byte, rect cropdoc.Rect) (*cropdoc.CroppedImage, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, cropdoc.Invalid("Unreadable image data")
	}

	bounds := src.Bounds()
	pixelRect := image.Rect(
		bounds.Min.X+int(math.Round(rect.X)),
		bounds.Min.Y+int(math.Round(rect.Y)),
		bounds.Min.X+int(math.Round(rect.X+rect.Width)),
		bounds.Min.Y+int(math.Round(rect.Y+rect.Height)),
	).Intersect(bounds)

	if pixelRect.Empty() {
		return nil, cropdoc.Geometry("Crop rectangle is empty")
	}

	cropped := cropImage(src, pixelRect)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, cropdoc.Internal("Failed to encode cropped image", err)
	}

	return &cropdoc.CroppedImage{
		Data:   buf.Bytes(),
		Rect:   rect,
		Width:  pixelRect.Dx(),
		Height: pixelRect.Dy(),
	}, nil
}

// subImager is satisfied by every stdlib image type.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func cropImage(src image.Image, r image.Rectangle) image.Image {
	if s, ok := src.(subImager); ok {
		return s.SubImage(r)
	}

	// Fallback for exotic image types: copy the region.
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.Set(x-r.Min.X, y-r.Min.Y, src.At(x, y))
		}
	}
	return dst
}
