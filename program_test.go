package drawlang

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Run_scenario1_dotAtComputedCursor(t *testing.T) {
	rst, err := Run([]byte("p((1+2),0)d"), RunOptions{})
	require.NoError(t, err)

	data, err := rst.PNGBytes()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	_, _, _, a := img.At(3, 0).RGBA()
	assert.NotEqual(t, uint32(0), a)
}

func Test_Run_scenario2_redDotAtExplicitCursor(t *testing.T) {
	rst, err := Run([]byte("C(255,0,0) p(10,20) d"), RunOptions{})
	require.NoError(t, err)

	data, err := rst.PNGBytes()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	r, _, _, _ := img.At(10, 20).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func Test_Run_scenario3_definedFunctionCalledByID(t *testing.T) {
	rst, err := Run([]byte("{0 p(0,0) d) q(0)"), RunOptions{})
	require.NoError(t, err)

	data, err := rst.PNGBytes()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	_, _, _, a := img.At(0, 0).RGBA()
	assert.NotEqual(t, uint32(0), a)
}

func Test_Run_scenario4_loopWithMergingTranslate(t *testing.T) {
	rst, err := Run([]byte("L 3 p(0,0) d t(5,0) )"), RunOptions{})
	require.NoError(t, err)

	data, err := rst.PNGBytes()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	for _, x := range []int{0, 5, 10} {
		_, _, _, a := img.At(x, 0).RGBA()
		assert.NotEqual(t, uint32(0), a, "expected dot at (%d,0)", x)
	}
}

func Test_Run_scenario5_falseConditionalDrawsNothing(t *testing.T) {
	rst, err := Run([]byte("i 0 d )"), RunOptions{})
	require.NoError(t, err)

	data, err := rst.PNGBytes()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a)
}

func Test_Run_scenario6_hslColorSetsBrightCyanGreen(t *testing.T) {
	rst, err := Run([]byte("H(0,255,127) d"), RunOptions{})
	require.NoError(t, err)

	data, err := rst.PNGBytes()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	r, g, b, _ := img.At(0, 0).RGBA()
	// hue 0 at full saturation, mid lightness is pure red.
	assert.Greater(t, r, g)
	assert.Greater(t, r, b)
}

func Test_Run_discardsCanvasOnSyntaxError(t *testing.T) {
	_, err := Run([]byte("L 3 p(0,0) d"), RunOptions{})
	assert.Error(t, err)
}

func Test_Run_discardsCanvasOnRuntimeError(t *testing.T) {
	_, err := Run([]byte("r(1/0)d"), RunOptions{})
	assert.Error(t, err)
}
