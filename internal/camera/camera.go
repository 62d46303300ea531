// Package camera provides capture-device implementations.
package camera

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adjeikofi/cropdoc"
	"github.com/adjeikofi/cropdoc/internal/imaging"
)

// Compile-time interface check
var _ cropdoc.Camera = (*FileCamera)(nil)

// FileCamera yields frames from JPEG files in a directory, in name order.
// It stands in for a hardware camera in the capture CLI and in tests; the
// directory plays the role of the device, so a missing or empty directory
// reports EDEVICE just as an absent camera would.
type FileCamera struct {
	dir string

	mu   sync.Mutex
	next int
}

// NewFileCamera creates a camera backed by the given directory.
func NewFileCamera(dir string) *FileCamera {
	return &FileCamera{dir: dir}
}

// Capture reads the next JPEG frame from the directory.
func (c *FileCamera) Capture(ctx context.Context) (*cropdoc.CapturedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, cropdoc.WrapError(cropdoc.EDEVICE, "Capture cancelled", err)
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, cropdoc.WrapError(cropdoc.EDEVICE, "Camera directory unavailable", err)
	}

	var frames []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if strings.HasSuffix(name, ".jpg") || strings.HasSuffix(name, ".jpeg") {
			frames = append(frames, e.Name())
		}
	}
	if len(frames) == 0 {
		return nil, cropdoc.DeviceUnavailable("No frames available in %s", c.dir)
	}
	sort.Strings(frames)

	c.mu.Lock()
	idx := c.next % len(frames)
	c.next++
	c.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(c.dir, frames[idx]))
	if err != nil {
		return nil, cropdoc.WrapError(cropdoc.EDEVICE, "Failed to read frame", err)
	}

	width, height, err := imaging.Bounds(data)
	if err != nil {
		return nil, cropdoc.WrapError(cropdoc.EDEVICE, "Frame is not a readable image", err)
	}

	return &cropdoc.CapturedImage{
		Data:         data,
		NativeWidth:  width,
		NativeHeight: height,
		CapturedAt:   time.Now(),
	}, nil
}
