// Package glrender rasterizes block graph fragments into images on the CPU.
package glrender

import (
	"image"

	"github.com/soypat/glblocks/gleval"
)

// RenderImage renders frag into a new width×height image at time t with a
// default configured renderer.
func RenderImage(frag gleval.Fragment, width, height int, t float32) (*image.RGBA, error) {
	ir, err := NewImageRenderer(Config{})
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	err = ir.RenderRGBA(frag, img, t)
	if err != nil {
		return nil, err
	}
	return img, nil
}
