package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/OpenTraceLab/schwire/pkg/geometry"
	"github.com/OpenTraceLab/schwire/pkg/schematic"
)

var (
	previewBackground = color.RGBA{R: 0xf5, G: 0xf4, B: 0xef, A: 0xff}
	previewBody       = color.RGBA{R: 0x84, G: 0x00, B: 0x00, A: 0xff}
	previewWire       = color.RGBA{R: 0x00, G: 0x84, B: 0x00, A: 0xff}
	previewPin        = color.RGBA{R: 0x00, G: 0x00, B: 0x84, A: 0xff}
	previewText       = color.RGBA{A: 0xff}
)

// previewMargin pads the image so pin dots and strokes on the extent edge
// stay inside it.
const previewMargin = 4

// PreviewWriter renders a PNG overview: instance bodies, pins, routed wires
// and reference designators.
type PreviewWriter struct {
	Scale  float64 // pixels per millimetre (default: 8)
	Labels bool    // draw reference designators
}

// WriteDocument implements schematic.Writer.
func (pw PreviewWriter) WriteDocument(w io.Writer, doc *schematic.Document) error {
	return png.Encode(w, pw.Render(doc))
}

// Render draws the document into an image.
func (pw PreviewWriter) Render(doc *schematic.Document) *image.RGBA {
	scale := pw.Scale
	if scale <= 0 {
		scale = 8
	}

	// The sheet only covers instance origins; grow it to hold every body
	// and wire.
	extent := geometry.BoxOf(doc.Sheet.X, doc.Sheet.Y, doc.Sheet.X+doc.Sheet.Width, doc.Sheet.Y+doc.Sheet.Height)
	for _, inst := range doc.Instances {
		extent.ExpandBox(instanceBox(inst))
	}
	for _, net := range doc.Nets {
		for _, wire := range net.Wires {
			extent.Expand(wire.A)
			extent.Expand(wire.B)
		}
	}

	width := int(math.Ceil(extent.Width()*scale)) + 1 + 2*previewMargin
	height := int(math.Ceil(extent.Height()*scale)) + 1 + 2*previewMargin
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(previewBackground), image.Point{}, draw.Src)

	c := &canvas{img: img, origin: extent, scale: scale}

	for _, inst := range doc.Instances {
		box := instanceBox(inst)
		if !box.IsEmpty() {
			c.rect(box, 1.5, previewBody)
		}
		for _, pin := range inst.Symbol.Pins {
			p := geometry.PinPosition(inst.Position, inst.Rotation, pin.Position())
			c.dot(p, 2.5, previewPin)
		}
	}

	for _, net := range doc.Nets {
		for _, wire := range net.Wires {
			c.line(wire.A, wire.B, math.Max(wire.Width*scale, 1), previewWire)
		}
	}

	if pw.Labels {
		for _, inst := range doc.Instances {
			c.text(inst.Position, inst.Ref, previewText)
		}
	}

	return img
}

func instanceBox(inst schematic.PlacedInstance) geometry.Box {
	return geometry.TransformBox(inst.Symbol.Bounds(), inst.Position, inst.Rotation)
}

// canvas maps sheet coordinates (Y up) to image pixels (Y down).
type canvas struct {
	img    *image.RGBA
	origin geometry.Box
	scale  float64
}

func (c *canvas) px(p geometry.Point) (float32, float32) {
	x := (p.X-c.origin.Min.X)*c.scale + previewMargin
	y := (c.origin.Max.Y-p.Y)*c.scale + previewMargin
	return float32(x), float32(y)
}

// fillRect paints the pixels covering [x0,x1)x[y0,y1), at least one pixel
// in each direction.
func (c *canvas) fillRect(x0, y0, x1, y1 float32, col color.Color) {
	r := image.Rect(
		int(math.Round(float64(x0))), int(math.Round(float64(y0))),
		int(math.Round(float64(x1))), int(math.Round(float64(y1))),
	)
	if r.Dx() == 0 {
		r.Max.X++
	}
	if r.Dy() == 0 {
		r.Max.Y++
	}
	r = r.Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// polygon rasterizes a closed path with a rasterizer covering only the
// path's own pixel rectangle.
func (c *canvas) polygon(xs, ys []float32, col color.Color) {
	minX, minY := xs[0], ys[0]
	maxX, maxY := xs[0], ys[0]
	for i := 1; i < len(xs); i++ {
		minX, maxX = min(minX, xs[i]), max(maxX, xs[i])
		minY, maxY = min(minY, ys[i]), max(maxY, ys[i])
	}
	r := image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
	).Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}

	ox, oy := float32(r.Min.X), float32(r.Min.Y)
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.MoveTo(xs[0]-ox, ys[0]-oy)
	for i := 1; i < len(xs); i++ {
		z.LineTo(xs[i]-ox, ys[i]-oy)
	}
	z.ClosePath()
	z.Draw(c.img, r, image.NewUniform(col), image.Point{})
}

// line draws a stroke of the given pixel width between two sheet points.
// Horizontal and vertical strokes are filled as rectangles.
func (c *canvas) line(a, b geometry.Point, width float64, col color.Color) {
	ax, ay := c.px(a)
	bx, by := c.px(b)
	half := float32(width / 2)
	switch {
	case ax == bx && ay == by:
		return
	case ay == by:
		c.fillRect(min(ax, bx)-half, ay-half, max(ax, bx)+half, ay+half, col)
		return
	case ax == bx:
		c.fillRect(ax-half, min(ay, by)-half, ax+half, max(ay, by)+half, col)
		return
	}

	dx, dy := bx-ax, by-ay
	length := float32(math.Hypot(float64(dx), float64(dy)))
	nx, ny := -dy/length*half, dx/length*half
	c.polygon(
		[]float32{ax + nx, bx + nx, bx - nx, ax - nx},
		[]float32{ay + ny, by + ny, by - ny, ay - ny},
		col,
	)
}

func (c *canvas) rect(box geometry.Box, width float64, col color.Color) {
	corners := box.Corners()
	for i := range corners {
		c.line(corners[i], corners[(i+1)%len(corners)], width, col)
	}
}

// dot draws a pin marker as a diamond of the given pixel radius.
func (c *canvas) dot(p geometry.Point, radius float32, col color.Color) {
	x, y := c.px(p)
	c.polygon(
		[]float32{x, x + radius, x, x - radius},
		[]float32{y - radius, y, y + radius, y},
		col,
	)
}

func (c *canvas) text(p geometry.Point, s string, col color.Color) {
	x, y := c.px(p)
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(x)+4, int(y)-4),
	}
	d.DrawString(s)
}
