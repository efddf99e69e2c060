// Package blockaux provides auxiliary functions to preview block graphs quickly:
// PNG snapshots and an interactive window. Applications with specific needs
// should build their own on glbuild, gleval and glrender.
package blockaux

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/soypat/glblocks"
	"github.com/soypat/glblocks/glbuild"
	"github.com/soypat/glblocks/gleval"
	"github.com/soypat/glblocks/glrender"
	"github.com/soypat/glblocks/graph"
)

// RenderConfig configures PNG rendering of a block graph.
type RenderConfig struct {
	Width, Height int
	// Time is the value of iTime in seconds.
	Time float32
	// Supersample factor for CPU rendering, see [glrender.Config].
	Supersample int
	// Caption is drawn over the bottom of the image when not empty.
	Caption string
	// Uniforms holds values for free variables used by the graph.
	Uniforms map[string]glblocks.Value
	// Output names the instance to render. Defaults to the last in topological order.
	Output string
	// UseGPU renders with the generated program on the GPU instead of the CPU evaluator.
	UseGPU bool
}

func (cfg *RenderConfig) validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("image dimensions must be positive")
	}
	if cfg.UseGPU && len(cfg.Uniforms) > 0 {
		return errors.New("custom uniforms are only supported on CPU rendering")
	}
	return nil
}

// RenderImage renders instances into a new image as configured.
func RenderImage(instances []graph.Instance, catalog glblocks.Catalog, cfg RenderConfig) (*image.RGBA, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log := glblocks.Logger()
	watch := stopwatch()
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	if cfg.UseGPU {
		log.Info("rendering on GPU")
		err := renderGPU(img, instances, catalog, cfg)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info("rendering on CPU")
		prog, err := gleval.NewCPUProgramOutput(instances, catalog, cfg.Uniforms, cfg.Output)
		if err != nil {
			return nil, err
		}
		renderer, err := glrender.NewImageRenderer(glrender.Config{Supersample: cfg.Supersample})
		if err != nil {
			return nil, err
		}
		err = renderer.Render(prog, img, cfg.Time)
		if err != nil {
			return nil, err
		}
	}
	log.Debug("rendered graph", "elapsed", watch(), "width", cfg.Width, "height", cfg.Height)
	if cfg.Caption != "" {
		err := DrawCaption(img, cfg.Caption)
		if err != nil {
			return nil, fmt.Errorf("drawing caption: %w", err)
		}
	}
	return img, nil
}

func renderGPU(img *image.RGBA, instances []graph.Instance, catalog glblocks.Catalog, cfg RenderConfig) error {
	programmer := glbuild.NewProgrammer(catalog, glbuild.Config{Profile: glbuild.ProfileCore330, Output: cfg.Output})
	src, err := programmer.Generate(instances)
	if err != nil {
		return err
	}
	terminate, err := gleval.Init1x1GLFW()
	if err != nil {
		return err
	}
	defer terminate()
	gpu, err := gleval.NewGPURenderer(src)
	if err != nil {
		return err
	}
	defer gpu.Delete()
	return gpu.RenderImage(img, cfg.Time)
}

// RenderPNG renders instances and encodes the result as PNG to w.
func RenderPNG(w io.Writer, instances []graph.Instance, catalog glblocks.Catalog, cfg RenderConfig) error {
	img, err := RenderImage(instances, catalog, cfg)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderPNGFile renders instances and saves the result to a PNG file with said filename.
func RenderPNGFile(filename string, instances []graph.Instance, catalog glblocks.Catalog, cfg RenderConfig) error {
	img, err := RenderImage(instances, catalog, cfg)
	if err != nil {
		return err
	}
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	bw := bufio.NewWriter(fp)
	err = png.Encode(bw, img)
	if err != nil {
		return err
	}
	err = bw.Flush()
	if err != nil {
		return err
	}
	glblocks.Logger().Info("wrote PNG", "file", filename)
	return fp.Sync()
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
