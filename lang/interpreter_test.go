package lang

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/dekarrin/drawlang/canvas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runProgram(t *testing.T, source string) *canvas.Raster {
	t.Helper()
	p := NewParser()
	root, err := p.Parse([]byte(source))
	require.NoError(t, err)

	rst := canvas.NewRaster()
	ctx := NewContext(rst)
	require.NoError(t, Interpret(ctx, root))
	return rst
}

func pixelAt(t *testing.T, rst *canvas.Raster, x, y int) (r, g, b, a uint32) {
	t.Helper()
	data, err := rst.PNGBytes()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img.At(x, y).RGBA()
}

func Test_Interpret_arithmeticRoundTrip(t *testing.T) {
	rst := runProgram(t, "p((1+2),0)d")
	r, g, b, a := pixelAt(t, rst, 3, 0)
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0), b)
	assert.NotEqual(t, uint32(0), a)
}

func Test_Interpret_redDotAtExplicitCursor(t *testing.T) {
	rst := runProgram(t, "C(255,0,0) p(10,20) d")
	r, _, _, _ := pixelAt(t, rst, 10, 20)
	assert.Equal(t, uint32(0xffff), r)
}

func Test_Interpret_userDefinedFunctionPlotsAtOrigin(t *testing.T) {
	rst := runProgram(t, "{0 p(0,0) d) q(0)")
	_, _, _, a := pixelAt(t, rst, 0, 0)
	assert.NotEqual(t, uint32(0), a)
}

func Test_Interpret_loopTranslateMerging(t *testing.T) {
	rst := runProgram(t, "L 3 p(0,0) d t(5,0) )")
	for _, x := range []int{0, 5, 10} {
		_, _, _, a := pixelAt(t, rst, x, 0)
		assert.NotEqual(t, uint32(0), a, "expected a dot at x=%d", x)
	}
}

func Test_Interpret_falseConditionalSkipsBody(t *testing.T) {
	rst := runProgram(t, "i 0 d )")
	_, _, _, a := pixelAt(t, rst, 0, 0)
	assert.Equal(t, uint32(0), a, "expected canvas to remain blank")
}

func Test_Interpret_breakOutsideLoop_isRuntimeError(t *testing.T) {
	p := NewParser()
	root, err := p.Parse([]byte(";"))
	require.NoError(t, err)

	rst := canvas.NewRaster()
	ctx := NewContext(rst)
	err = Interpret(ctx, root)
	assert.Error(t, err)
}

func Test_Interpret_negativeLoopCountExecutesZeroTimes(t *testing.T) {
	rst := runProgram(t, "L 0-5 p(0,0) d )")
	_, _, _, a := pixelAt(t, rst, 0, 0)
	assert.Equal(t, uint32(0), a)
}
