//go:build !tinygo && cgo

package gleval

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/soypat/glblocks"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

// Init1x1GLFW starts a 1x1 sized GLFW so that user can start working with GPU.
// It returns a termination function that should be called when user is done running loads on GPU.
func Init1x1GLFW() (terminate func(), err error) {
	_, terminate, err = glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "glblocks",
		Version: [2]int{4, 6},
		Width:   1,
		Height:  1,
	})
	return terminate, err
}

// QuadVertexSource is a pass-through vertex shader for a full screen quad of
// two triangles with aPos in clip space.
const QuadVertexSource = `#version 330 core
in vec2 aPos;
void main() {
    gl_Position = vec4(aPos, 0.0, 1.0);
}
`

// QuadVertices are the clip space positions of the full screen quad.
var QuadVertices = [12]float32{
	-1, -1,
	1, -1,
	-1, 1,
	-1, 1,
	1, -1,
	1, 1,
}

// CheckFragment compiles and links fragSrc on the current GL context and releases
// the program. fragSrc must be generated with the core330 profile.
// A GL context must be current, see [Init1x1GLFW].
func CheckFragment(fragSrc string) error {
	prog, err := compileFragment(fragSrc)
	if err != nil {
		return err
	}
	prog.Delete()
	return nil
}

func compileFragment(fragSrc string) (glgl.Program, error) {
	if !strings.HasPrefix(fragSrc, "#version") {
		return glgl.Program{}, errors.New("fragment source has no #version directive, generate it with the core330 profile")
	}
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   QuadVertexSource + "\x00",
		Fragment: fragSrc + "\x00",
	})
	if err != nil {
		return glgl.Program{}, fmt.Errorf("%s\n\n%w", fragSrc, err)
	}
	glblocks.Logger().Debug("fragment program compiled", "bytes", len(fragSrc))
	return prog, nil
}

// GPURenderer draws a generated fragment program into images on the GPU.
type GPURenderer struct {
	prog     glgl.Program
	vao, vbo uint32
	timeLoc  int32
	resLoc   int32
	pixbuf   []byte
}

// NewGPURenderer compiles fragSrc, which must be generated with the core330 profile.
// A GL context must be current, see [Init1x1GLFW].
func NewGPURenderer(fragSrc string) (*GPURenderer, error) {
	prog, err := compileFragment(fragSrc)
	if err != nil {
		return nil, err
	}
	r := &GPURenderer{prog: prog}
	prog.Bind()
	defer prog.Unbind()
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(QuadVertices), gl.Ptr(&QuadVertices[0]), gl.STATIC_DRAW)
	posAttrib, err := prog.AttribLocation("aPos\x00")
	if err != nil {
		r.Delete()
		return nil, err
	}
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))
	// Unused uniforms are optimized out and have location -1, which GL ignores on set.
	r.timeLoc = gl.GetUniformLocation(prog.ID(), gl.Str("iTime\x00"))
	r.resLoc = gl.GetUniformLocation(prog.ID(), gl.Str("iResolution\x00"))
	return r, glgl.Err()
}

// RenderImage draws the program over all of dst at time t.
func (r *GPURenderer) RenderImage(dst *image.RGBA, t float32) error {
	bounds := dst.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return errEmptyBuffers
	}
	var fbo, tex uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	defer gl.DeleteFramebuffers(1, &fbo)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	defer gl.DeleteTextures(1, &tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("incomplete framebuffer: status 0x%x", status)
	}

	gl.Viewport(0, 0, int32(width), int32(height))
	r.prog.Bind()
	defer r.prog.Unbind()
	gl.Uniform1f(r.timeLoc, t)
	gl.Uniform2f(r.resLoc, float32(width), float32(height))
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	rowSize := 4 * width
	if cap(r.pixbuf) < rowSize*height {
		r.pixbuf = make([]byte, rowSize*height)
	}
	pix := r.pixbuf[:rowSize*height]
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pix[0]))
	if err := glgl.Err(); err != nil {
		return err
	}
	// GL rows start at the bottom of the image.
	for y := 0; y < height; y++ {
		src := pix[(height-1-y)*rowSize : (height-y)*rowSize]
		off := dst.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(dst.Pix[off:off+rowSize], src)
	}
	return nil
}

// Delete releases the GPU resources of r.
func (r *GPURenderer) Delete() {
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
	r.prog.Delete()
}
