// Package raster renders a floor's spaces and zone outlines to PNG by
// filling the same path commands the vector renderers consume.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/khalidghaith/SOAP-sub000/pkg/geo"
	"github.com/khalidghaith/SOAP-sub000/pkg/project"
	"github.com/khalidghaith/SOAP-sub000/pkg/space"
	"github.com/khalidghaith/SOAP-sub000/pkg/zone"
)

// Options configures PNG rendering.
type Options struct {
	Width    int
	Height   int
	Padding  float64
	Labels   bool
	FontSize float64
}

// DefaultOptions returns an 800x600 preview with labels.
func DefaultOptions() Options {
	return Options{
		Width:    800,
		Height:   600,
		Padding:  40,
		Labels:   true,
		FontSize: 12,
	}
}

var (
	colorBackground = color.NRGBA{255, 255, 255, 255}
	colorText       = color.NRGBA{51, 51, 51, 255} // #333
	fallback        = colorful.Hsv(0, 0, 0.75)
)

// transform maps world coordinates onto the image, preserving aspect.
type transform struct {
	scale  float64
	offset geo.Point2D
}

func (t transform) apply(p geo.Point2D) (float32, float32) {
	return float32(p.X*t.scale + t.offset.X), float32(p.Y*t.scale + t.offset.Y)
}

func fit(pts []geo.Point2D, opts Options) transform {
	b := geo.NewPolygon(pts...).Bounds()
	if b.IsEmpty() {
		return transform{scale: 1}
	}
	size := b.Size()
	availW := float64(opts.Width) - 2*opts.Padding
	availH := float64(opts.Height) - 2*opts.Padding
	scale := math.Min(availW/math.Max(size.X, 1e-9), availH/math.Max(size.Y, 1e-9))
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		scale = 1
	}
	// Center the drawing.
	c := geo.FromR2(b.Center())
	return transform{
		scale:  scale,
		offset: geo.Pt(float64(opts.Width)/2-c.X*scale, float64(opts.Height)/2-c.Y*scale),
	}
}

// Render draws spaces and their zone outlines onto a new image. Callers pass
// the spaces of one floor.
func Render(p *project.Project, spaces []space.Space, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	zones := zone.Outlines(spaces, p.Settings.Colors, p.Settings.ZoneParams())
	var extent []geo.Point2D
	for _, z := range zones {
		extent = append(extent, z.Hull...)
	}
	for _, s := range spaces {
		extent = append(extent, s.Outline(p.Settings.CurveDetail)...)
	}
	xf := fit(extent, opts)

	white := colorful.Color{R: 1, G: 1, B: 1}
	for _, z := range zones {
		c := baseColor(z.Color).BlendLab(white, 0.6)
		fill(img, z.Path, xf, nrgba(c, 160))
	}
	for _, s := range spaces {
		c := baseColor(p.Settings.Colors[s.Category])
		fill(img, space.PathCommands(s, 0), xf, nrgba(c, 230))
	}

	if opts.Labels && len(spaces) > 0 {
		face, err := labelFace(opts.FontSize)
		if err != nil {
			return nil, err
		}
		defer face.Close()
		for _, s := range spaces {
			label := s.Name
			if label == "" {
				label = s.ID
			}
			x, y := xf.apply(s.Center())
			drawLabel(img, face, label, x, y)
		}
	}
	return img, nil
}

// RenderPNG renders and encodes the result as PNG.
func RenderPNG(w io.Writer, p *project.Project, spaces []space.Space, opts Options) error {
	img, err := Render(p, spaces, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

func fill(img *image.RGBA, path geo.Path, xf transform, c color.Color) {
	if len(path) == 0 {
		return
	}
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for _, cmd := range path {
		switch cmd.Op {
		case geo.OpMove:
			z.MoveTo(xf.apply(cmd.Pts[0]))
		case geo.OpLine:
			z.LineTo(xf.apply(cmd.Pts[0]))
		case geo.OpQuad:
			cx, cy := xf.apply(cmd.Pts[0])
			x, y := xf.apply(cmd.Pts[1])
			z.QuadTo(cx, cy, x, y)
		case geo.OpCubic:
			c1x, c1y := xf.apply(cmd.Pts[0])
			c2x, c2y := xf.apply(cmd.Pts[1])
			x, y := xf.apply(cmd.Pts[2])
			z.CubeTo(c1x, c1y, c2x, c2y, x, y)
		case geo.OpClose:
			z.ClosePath()
		}
	}
	z.Draw(img, b, image.NewUniform(c), image.Point{})
}

func baseColor(hex string) colorful.Color {
	if hex == "" {
		return fallback
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return c
}

func nrgba(c colorful.Color, alpha uint8) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

func labelFace(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultOptions().FontSize
	}
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing label font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating label face: %w", err)
	}
	return face, nil
}

// drawLabel centers text on (x, y).
func drawLabel(img *image.RGBA, face font.Face, text string, x, y float32) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(colorText), Face: face}
	w := d.MeasureString(text)
	m := face.Metrics()
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(x*64) - w/2,
		Y: fixed.Int26_6(y*64) + (m.Ascent-m.Descent)/2,
	}
	d.DrawString(text)
}
