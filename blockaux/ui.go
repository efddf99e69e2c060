//go:build !tinygo && cgo

package blockaux

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glblocks"
	"github.com/soypat/glblocks/glbuild"
	"github.com/soypat/glblocks/gleval"
	"github.com/soypat/glblocks/graph"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

func ui(instances []graph.Instance, catalog glblocks.Catalog, cfg UIConfig) error {
	programmer := glbuild.NewProgrammer(catalog, glbuild.Config{Profile: glbuild.ProfileCore330, Output: cfg.Output})
	fragSrc, err := programmer.Generate(instances)
	if err != nil {
		return err
	}
	window, term, err := startGLFW(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}
	defer term()
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   gleval.QuadVertexSource + "\x00",
		Fragment: fragSrc + "\x00",
	})
	if err != nil {
		return fmt.Errorf("%s\n\n%w", fragSrc, err)
	}
	defer prog.Delete()
	prog.Bind()
	// Define a quad covering the screen.
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	defer gl.DeleteVertexArrays(1, &vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	defer gl.DeleteBuffers(1, &vbo)
	vertices := gleval.QuadVertices
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertices), gl.Ptr(&vertices[0]), gl.STATIC_DRAW)
	posAttrib, err := prog.AttribLocation("aPos\x00")
	if err != nil {
		return err
	}
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))
	// Uniforms unused by the graph are optimized out, location -1 is ignored by GL.
	timeUniform := gl.GetUniformLocation(prog.ID(), gl.Str("iTime\x00"))
	resUniform := gl.GetUniformLocation(prog.ID(), gl.Str("iResolution\x00"))

	var paused bool
	var pausedAt, pausedFor float64
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape, glfw.KeyQ:
			w.SetShouldClose(true)
		case glfw.KeySpace:
			now := glfw.GetTime()
			if paused {
				pausedFor += now - pausedAt
			} else {
				pausedAt = now
			}
			paused = !paused
		}
	})
	glblocks.Logger().Info("preview window open", "instances", len(instances), "width", cfg.Width, "height", cfg.Height)

	ctx := cfg.Context
	start := glfw.GetTime()
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		now := glfw.GetTime()
		if paused {
			now = pausedAt
		}
		width, height := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		prog.Bind()
		gl.Uniform1f(timeUniform, float32(now-start-pausedFor))
		gl.Uniform2f(resUniform, float32(width), float32(height))
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		window.SwapBuffers()
		glfw.PollEvents()
		time.Sleep(time.Second / time.Duration(cfg.FPS))
	}
	return glgl.Err()
}

func startGLFW(width, height int, title string) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err = glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return window, glfw.Terminate, nil
}
