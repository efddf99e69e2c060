//go:build tinygo || !cgo

package gleval

import (
	"errors"
	"image"
)

var errNoCGO = errors.New("GPU evaluation requires CGo and is not supported on TinyGo")

// Init1x1GLFW starts a 1x1 sized GLFW so that user can start working with GPU.
func Init1x1GLFW() (terminate func(), err error) {
	return nil, errNoCGO
}

// CheckFragment compiles and links fragSrc on the current GL context.
func CheckFragment(fragSrc string) error {
	return errNoCGO
}

// GPURenderer draws a generated fragment program into images on the GPU.
type GPURenderer struct{}

// NewGPURenderer compiles fragSrc, which must be generated with the core330 profile.
func NewGPURenderer(fragSrc string) (*GPURenderer, error) {
	return nil, errNoCGO
}

// RenderImage draws the program over all of dst at time t.
func (r *GPURenderer) RenderImage(dst *image.RGBA, t float32) error {
	return errNoCGO
}

// Delete releases the GPU resources of r.
func (r *GPURenderer) Delete() {}
