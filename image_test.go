package cropdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuideBox(t *testing.T) {
	box := GuideBox(400, 800)

	assert.Equal(t, 320.0, box.Width)  // 80% of width
	assert.Equal(t, 400.0, box.Height) // 50% of height
	assert.Equal(t, 40.0, box.X)       // centered horizontally
	assert.Equal(t, 200.0, box.Y)      // 25% down the screen
}

func TestCropRect_Containment(t *testing.T) {
	cases := []struct {
		name           string
		nativeW        int
		nativeH        int
		screenW        float64
		screenH        float64
	}{
		{"portrait phone", 3024, 4032, 390, 844},
		{"square image on tall screen", 2000, 2000, 360, 780},
		{"tiny image", 10, 10, 1080, 1920},
		{"screen larger than image", 640, 480, 1366, 768},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rect, err := CropRect(tc.nativeW, tc.nativeH, tc.screenW, tc.screenH)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, rect.X, 0.0)
			assert.GreaterOrEqual(t, rect.Y, 0.0)
			assert.LessOrEqual(t, rect.X+rect.Width, float64(tc.nativeW)+1e-9)
			assert.LessOrEqual(t, rect.Y+rect.Height, float64(tc.nativeH)+1e-9)
		})
	}
}

func TestCropRect_IndependentScales(t *testing.T) {
	// Non-square guide box mapped onto a non-square image: each axis
	// scales by its own factor; no aspect-ratio correction is applied.
	rect, err := CropRect(1000, 3000, 500, 1000)
	require.NoError(t, err)

	// widthScale = 2, heightScale = 3
	assert.Equal(t, 80.0, rect.X)       // (500-400)/2 * 2
	assert.Equal(t, 750.0, rect.Y)      // 250 * 3
	assert.Equal(t, 800.0, rect.Width)  // 400 * 2
	assert.Equal(t, 1500.0, rect.Height) // 500 * 3
}

func TestCropRect_DegenerateGeometry(t *testing.T) {
	_, err := CropRect(1000, 1000, 0, 800)
	require.Error(t, err)
	assert.Equal(t, EGEOMETRY, ErrorCode(err))

	_, err = CropRect(1000, 1000, 400, -1)
	require.Error(t, err)
	assert.Equal(t, EGEOMETRY, ErrorCode(err))

	_, err = CropRect(0, 1000, 400, 800)
	require.Error(t, err)
	assert.Equal(t, EGEOMETRY, ErrorCode(err))
}
