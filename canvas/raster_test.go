package canvas

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewRaster_blankAndOpaqueBlack(t *testing.T) {
	r := NewRaster()
	assert.Equal(t, color.RGBA{A: 255}, r.col)
	assert.Equal(t, 0.0, r.cursorX)
	assert.Equal(t, 0.0, r.cursorY)
}

func Test_Raster_Dot_plotsAtTransformedCursor(t *testing.T) {
	r := NewRaster()
	require.NoError(t, r.SetColor(RGB, 255, 0, 0))
	r.SetCursor(10, 20)
	r.Dot()

	assert.Equal(t, color.RGBA{R: 255, A: 255}, r.img.At(10, 20))
}

func Test_Raster_Translate_mergesConsecutiveFrames(t *testing.T) {
	r := NewRaster()
	r.Translate(1, 2)
	r.Translate(3, 4)

	require.Len(t, r.transforms, 1)
	x, y := r.transforms[0].apply(0, 0)
	assert.Equal(t, 4.0, x)
	assert.Equal(t, 6.0, y)
}

func Test_Raster_Pop_removesWholeMergedFrame(t *testing.T) {
	r := NewRaster()
	r.Translate(1, 2)
	r.Translate(3, 4)
	require.NoError(t, r.Pop())

	assert.Empty(t, r.transforms)
}

func Test_colorFromComponents_rgbRequiresThreeComponents(t *testing.T) {
	_, err := colorFromComponents(RGB, []float64{1, 2})
	assert.Error(t, err)
}

func Test_rgbFromHSL_brightCyanGreen(t *testing.T) {
	c := rgbFromHSL(0, 255, 127, 255)
	// hue 0 at full saturation, mid lightness is pure red.
	assert.InDelta(t, 254, int(c.R), 2)
	assert.InDelta(t, 0, int(c.G), 2)
	assert.InDelta(t, 0, int(c.B), 2)
}

func Test_rgbFromCMYK_fullBlackKey(t *testing.T) {
	c := rgbFromCMYK(0, 0, 0, 255)
	assert.Equal(t, uint8(0), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(0), c.B)
}

func Test_clampByte_boundsOutOfRangeValues(t *testing.T) {
	assert.Equal(t, uint8(0), clampByte(-10))
	assert.Equal(t, uint8(255), clampByte(300))
	assert.Equal(t, uint8(128), clampByte(128))
}
