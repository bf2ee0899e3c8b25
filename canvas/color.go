package canvas

import (
	"fmt"
	"image/color"
	"math"
)

// rgbFromCMYK converts 0-255 scaled cyan/magenta/yellow/key components to
// an opaque RGB color.
func rgbFromCMYK(c, m, y, k float64) color.RGBA {
	c, m, y, k = c/255, m/255, y/255, k/255
	r := 255 * (1 - c) * (1 - k)
	g := 255 * (1 - m) * (1 - k)
	b := 255 * (1 - y) * (1 - k)
	return color.RGBA{R: clampByte(r), G: clampByte(g), B: clampByte(b), A: 255}
}

// rgbFromHSL converts hue (0-360 degrees), saturation and lightness (0-255
// scaled, matching the byte convention used by the canvas's other color
// statements) to RGB. alpha is applied as-is (0-255).
func rgbFromHSL(h, s, l, alpha float64) color.RGBA {
	hue := math.Mod(h, 360)
	if hue < 0 {
		hue += 360
	}
	sat := clamp01(s / 255)
	lig := clamp01(l / 255)

	chroma := (1 - math.Abs(2*lig-1)) * sat
	hPrime := hue / 60
	x := chroma * (1 - math.Abs(math.Mod(hPrime, 2)-1))

	var r1, g1, b1 float64
	switch {
	case hPrime < 1:
		r1, g1, b1 = chroma, x, 0
	case hPrime < 2:
		r1, g1, b1 = x, chroma, 0
	case hPrime < 3:
		r1, g1, b1 = 0, chroma, x
	case hPrime < 4:
		r1, g1, b1 = 0, x, chroma
	case hPrime < 5:
		r1, g1, b1 = x, 0, chroma
	default:
		r1, g1, b1 = chroma, 0, x
	}

	m := lig - chroma/2
	return color.RGBA{
		R: clampByte((r1 + m) * 255),
		G: clampByte((g1 + m) * 255),
		B: clampByte((b1 + m) * 255),
		A: clampByte(alpha),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// colorFromComponents builds an RGBA color for the given mode from operand
// components, enforcing the arity each mode requires.
func colorFromComponents(mode ColorMode, comps []float64) (color.RGBA, error) {
	switch mode {
	case RGB:
		if len(comps) != 3 {
			return color.RGBA{}, fmt.Errorf("canvas: rgb color requires 3 components, got %d", len(comps))
		}
		return color.RGBA{R: clampByte(comps[0]), G: clampByte(comps[1]), B: clampByte(comps[2]), A: 255}, nil
	case RGBA:
		if len(comps) != 4 {
			return color.RGBA{}, fmt.Errorf("canvas: rgba color requires 4 components, got %d", len(comps))
		}
		return color.RGBA{R: clampByte(comps[0]), G: clampByte(comps[1]), B: clampByte(comps[2]), A: clampByte(comps[3])}, nil
	case CMYK:
		if len(comps) != 4 {
			return color.RGBA{}, fmt.Errorf("canvas: cmyk color requires 4 components, got %d", len(comps))
		}
		return rgbFromCMYK(comps[0], comps[1], comps[2], comps[3]), nil
	case HSL:
		if len(comps) != 3 {
			return color.RGBA{}, fmt.Errorf("canvas: hsl color requires 3 components, got %d", len(comps))
		}
		return rgbFromHSL(comps[0], comps[1], comps[2], 255), nil
	case HSLA:
		if len(comps) != 4 {
			return color.RGBA{}, fmt.Errorf("canvas: hsla color requires 4 components, got %d", len(comps))
		}
		return rgbFromHSL(comps[0], comps[1], comps[2], comps[3]), nil
	default:
		return color.RGBA{}, fmt.Errorf("canvas: unknown color mode %d", mode)
	}
}
