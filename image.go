package cropdoc

import (
	"context"
	"time"
)

// CapturedImage is a single raw frame acquired from a camera device.
type CapturedImage struct {
	// Data holds the JPEG-encoded frame.
	Data []byte `json:"-"`

	// NativeWidth and NativeHeight are the frame's pixel dimensions.
	NativeWidth  int `json:"nativeWidth"`
	NativeHeight int `json:"nativeHeight"`

	CapturedAt time.Time `json:"capturedAt"`
}

// Rect is an axis-aligned rectangle in source-image pixel coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CroppedImage is the result of cropping a captured frame to the guide box.
type CroppedImage struct {
	// Data holds the re-encoded JPEG containing only pixels inside Rect.
	Data []byte `json:"-"`

	// Rect is the crop rectangle that produced this image, expressed in
	// the source image's pixel coordinates.
	Rect Rect `json:"rect"`

	Width  int `json:"width"`
	Height int `json:"height"`
}

// Guide box proportions, fixed relative to the screen: 80% of the width,
// 50% of the height, centered horizontally, starting at 25% of the height.
const (
	GuideBoxWidthRatio  = 0.8
	GuideBoxHeightRatio = 0.5
	GuideBoxTopRatio    = 0.25
)

// GuideBox returns the on-screen guide rectangle for the given screen
// dimensions, in screen coordinates.
func GuideBox(screenWidth, screenHeight float64) Rect {
	w := screenWidth * GuideBoxWidthRatio
	h := screenHeight * GuideBoxHeightRatio
	return Rect{
		X:      (screenWidth - w) / 2,
		Y:      screenHeight * GuideBoxTopRatio,
		Width:  w,
		Height: h,
	}
}

// CropRect maps the guide box from screen coordinates into the image's
// pixel coordinates using independent X and Y scale factors. No
// aspect-ratio correction is applied. The result always lies fully
// within [0, nativeWidth] x [0, nativeHeight].
//
// Returns EGEOMETRY if any dimension is zero or negative, which would
// otherwise make the scale computation undefined.
func CropRect(nativeWidth, nativeHeight int, screenWidth, screenHeight float64) (Rect, error) {
	if screenWidth <= 0 || screenHeight <= 0 {
		return Rect{}, Geometry("Screen dimensions must be positive, got %gx%g", screenWidth, screenHeight)
	}
	if nativeWidth <= 0 || nativeHeight <= 0 {
		return Rect{}, Geometry("Image dimensions must be positive, got %dx%d", nativeWidth, nativeHeight)
	}

	guide := GuideBox(screenWidth, screenHeight)
	widthScale := float64(nativeWidth) / screenWidth
	heightScale := float64(nativeHeight) / screenHeight

	return Rect{
		X:      guide.X * widthScale,
		Y:      guide.Y * heightScale,
		Width:  guide.Width * widthScale,
		Height: guide.Height * heightScale,
	}, nil
}

// Camera yields raw frames from a capture device.
type Camera interface {
	// Capture acquires one frame from the device.
	// Returns EDEVICE if the device is unavailable or access has not
	// been granted.
	Capture(ctx context.Context) (*CapturedImage, error)
}
