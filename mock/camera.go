package mock

import (
	"context"

	"github.com/adjeikofi/cropdoc"
)

// Compile-time interface check
var _ cropdoc.Camera = (*Camera)(nil)

// Camera is a mock implementation of cropdoc.Camera.
type Camera struct {
	CaptureFn func(ctx context.Context) (*cropdoc.CapturedImage, error)
}

func (c *Camera) Capture(ctx context.Context) (*cropdoc.CapturedImage, error) {
	if c.CaptureFn != nil {
		return c.CaptureFn(ctx)
	}
	return nil, cropdoc.DeviceUnavailable("no camera configured")
}
