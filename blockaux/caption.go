package blockaux

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

var captionFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// DrawCaption draws text on a band over the bottom of img. The band is a darkened
// version of the image colors it covers, the font size follows the image height.
func DrawCaption(img *image.RGBA, text string) error {
	ttf, err := captionFont()
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	size := max(8, float64(bounds.Dy())/16)
	face := truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	defer face.Close()

	metrics := face.Metrics()
	pad := int(size / 3)
	bandHeight := metrics.Height.Ceil() + 2*pad
	band := image.Rect(bounds.Min.X, bounds.Max.Y-bandHeight, bounds.Max.X, bounds.Max.Y).Intersect(bounds)
	bandColor := InterpColor(averageColor(img, band), color.Black, 0.65)
	draw.Draw(img, band, image.NewUniform(bandColor), image.Point{}, draw.Src)

	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ContrastColor(bandColor)),
		Face: face,
	}
	textWidth := drawer.MeasureString(text).Ceil()
	x := bounds.Min.X + max(pad, (bounds.Dx()-textWidth)/2)
	y := band.Min.Y + pad + metrics.Ascent.Ceil()
	drawer.Dot = fixed.P(x, y)
	drawer.DrawString(text)
	return nil
}

func averageColor(img *image.RGBA, r image.Rectangle) color.Color {
	var sum [3]uint64
	var n uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.RGBAAt(x, y)
			sum[0] += uint64(c.R)
			sum[1] += uint64(c.G)
			sum[2] += uint64(c.B)
			n++
		}
	}
	if n == 0 {
		return color.Black
	}
	return color.RGBA{R: uint8(sum[0] / n), G: uint8(sum[1] / n), B: uint8(sum[2] / n), A: 255}
}
