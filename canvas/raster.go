package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/dekarrin/rezi"
)

const (
	rasterWidth  = 500
	rasterHeight = 500
)

// Raster is the standard Canvas implementation: a 500x500 RGBA image with
// an affine transform stack, a current color, a cursor, and the last
// plotted point, matching the reference canvas's state machine.
type Raster struct {
	img        *image.RGBA
	transforms []frame
	col        color.RGBA
	cursorX    float64
	cursorY    float64
	lastX      float64
	lastY      float64
}

// NewRaster returns a blank 500x500 canvas with an opaque black default
// color and cursor at the origin.
func NewRaster() *Raster {
	img := image.NewRGBA(image.Rect(0, 0, rasterWidth, rasterHeight))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	return &Raster{
		img: img,
		col: color.RGBA{A: 255},
	}
}

func (r *Raster) SetColor(mode ColorMode, components ...float64) error {
	c, err := colorFromComponents(mode, components)
	if err != nil {
		return err
	}
	r.col = c
	return nil
}

func (r *Raster) SetCursor(x, y float64) {
	r.cursorX, r.cursorY = x, y
}

func (r *Raster) ClearTransforms() {
	r.transforms = nil
}

func (r *Raster) Pop() error {
	if len(r.transforms) == 0 {
		return fmt.Errorf("canvas: pop on empty transform stack")
	}
	r.transforms = r.transforms[:len(r.transforms)-1]
	return nil
}

func (r *Raster) Translate(x, y float64) {
	if n := len(r.transforms); n > 0 && r.transforms[n-1].kind == kindTranslate {
		r.transforms[n-1].update(x, y)
		return
	}
	r.transforms = append(r.transforms, frame{kind: kindTranslate, x: x, y: y})
}

func (r *Raster) Rotate(theta float64) {
	if n := len(r.transforms); n > 0 && r.transforms[n-1].kind == kindRotate {
		r.transforms[n-1].update(theta, 0)
		return
	}
	r.transforms = append(r.transforms, frame{kind: kindRotate, theta: theta})
}

func (r *Raster) Scale(sx, sy float64) {
	if n := len(r.transforms); n > 0 && r.transforms[n-1].kind == kindScale {
		r.transforms[n-1].update(sx, sy)
		return
	}
	r.transforms = append(r.transforms, frame{kind: kindScale, x: sx, y: sy})
}

// transformedCursor composes the transform stack in registration order
// against the origin, then adds the logical cursor.
func (r *Raster) transformedCursor() (float64, float64) {
	x, y := 0.0, 0.0
	for _, f := range r.transforms {
		x, y = f.apply(x, y)
	}
	return x + r.cursorX, y + r.cursorY
}

func (r *Raster) Dot() {
	x, y := r.transformedCursor()
	r.img.Set(int(x), int(y), r.col)
	r.lastX, r.lastY = x, y
}

func (r *Raster) Line() {
	x, y := r.transformedCursor()
	drawLine(r.img, r.lastX, r.lastY, x, y, r.col)
	r.lastX, r.lastY = x, y
}

// drawLine rasterizes a straight line with Bresenham's algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 float64, c color.RGBA) {
	ix0, iy0, ix1, iy1 := int(x0), int(y0), int(x1), int(y1)

	dx := abs(ix1 - ix0)
	dy := -abs(iy1 - iy0)
	sx, sy := 1, 1
	if ix0 >= ix1 {
		sx = -1
	}
	if iy0 >= iy1 {
		sy = -1
	}
	err := dx + dy

	x, y := ix0, iy0
	for {
		img.Set(x, y, c)
		if x == ix1 && y == iy1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (r *Raster) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("canvas: create %q: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, r.img); err != nil {
		return fmt.Errorf("canvas: encode png: %w", err)
	}
	return nil
}

// snapshotState is the rezi-encoded state captured by Snapshot.
type snapshotState struct {
	Color      [4]uint8
	CursorX    float64
	CursorY    float64
	LastX      float64
	LastY      float64
	Transforms []frameState
}

type frameState struct {
	Kind  int
	X, Y  float64
	Theta float64
}

func (r *Raster) Snapshot() ([]byte, error) {
	state := snapshotState{
		Color:   [4]uint8{r.col.R, r.col.G, r.col.B, r.col.A},
		CursorX: r.cursorX,
		CursorY: r.cursorY,
		LastX:   r.lastX,
		LastY:   r.lastY,
	}
	for _, f := range r.transforms {
		state.Transforms = append(state.Transforms, frameState{Kind: int(f.kind), X: f.x, Y: f.y, Theta: f.theta})
	}
	return rezi.Enc(state)
}

// PNGBytes renders the current raster as an in-memory PNG, used by the
// network listener to respond with image bytes without touching disk.
func (r *Raster) PNGBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.img); err != nil {
		return nil, fmt.Errorf("canvas: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
