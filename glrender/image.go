package glrender

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/glblocks"
	"github.com/soypat/glblocks/gleval"
	xdraw "golang.org/x/image/draw"
)

// Config configures an [ImageRenderer].
type Config struct {
	// Workers is the number of concurrent row evaluators. Defaults to the number of CPUs.
	Workers int
	// Supersample renders Supersample×Supersample fragments per output pixel and
	// downscales with a Catmull-Rom filter. Values below 2 disable supersampling.
	Supersample int
}

// ImageRenderer rasterizes block graph fragments into images, one row per task
// on a worker pool. It is safe for concurrent use.
//
// Renderers configured with the same number of workers share one pool. Pool
// workers are never stopped, so creating renderers does not grow the goroutine count.
type ImageRenderer struct {
	cfg  Config
	pool *rowPool
}

// rowPool serializes task submission, the pool's SubmitTask reads its worker list unguarded.
type rowPool struct {
	submitMu sync.Mutex
	tasks    worker.DynamicWorkerPool
}

var (
	poolsMu sync.Mutex
	pools   = make(map[int]*rowPool)
)

// sharedPool returns the process wide pool with the given number of workers, creating it on first use.
func sharedPool(workers int) *rowPool {
	poolsMu.Lock()
	defer poolsMu.Unlock()
	rp, ok := pools[workers]
	if !ok {
		rp = &rowPool{tasks: worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)}
		pools[workers] = rp
	}
	return rp
}

// NewImageRenderer returns a renderer with a worker pool sized by cfg.
func NewImageRenderer(cfg Config) (*ImageRenderer, error) {
	if cfg.Workers < 0 || cfg.Supersample < 0 {
		return nil, errors.New("negative renderer configuration value")
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Supersample < 1 {
		cfg.Supersample = 1
	}
	ir := &ImageRenderer{
		cfg:  cfg,
		pool: sharedPool(cfg.Workers),
	}
	return ir, nil
}

// Render evaluates frag over every pixel of img at time t. Pixel centers map to uv
// in [0,1]², with uv.y growing upwards as gl_FragCoord does.
func (ir *ImageRenderer) Render(frag gleval.Fragment, img xdraw.Image, t float32) error {
	bounds := img.Bounds()
	if bounds.Empty() {
		return errors.New("empty image")
	}
	ss := ir.cfg.Supersample
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*ss, bounds.Dy()*ss))
	err := ir.RenderRGBA(frag, canvas, t)
	if err != nil {
		return err
	}
	if ss == 1 {
		xdraw.Draw(img, bounds, canvas, image.Point{}, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(img, bounds, canvas, canvas.Bounds(), xdraw.Src, nil)
	}
	glblocks.Logger().Debug("rendered image", "width", bounds.Dx(), "height", bounds.Dy(), "supersample", ss, "time", t)
	return nil
}

// RenderRGBA evaluates frag over every pixel of dst at time t without supersampling.
func (ir *ImageRenderer) RenderRGBA(frag gleval.Fragment, dst *image.RGBA, t float32) error {
	bounds := dst.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return errors.New("empty image")
	}
	env := glblocks.Env{Time: t, Resolution: ms2.Vec{X: float32(width), Y: float32(height)}}
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	ir.pool.submitMu.Lock()
	for row := 0; row < height; row++ {
		wg.Add(1)
		y := row
		ir.pool.tasks.SubmitTask(worker.Task{
			ID: y,
			Do: func() (any, error) {
				defer wg.Done()
				err := renderRow(frag, dst, y, env)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("row %d: %w", y, err)
					}
					mu.Unlock()
				}
				return nil, err
			},
		})
	}
	ir.pool.submitMu.Unlock()
	wg.Wait()
	return firstErr
}

// renderRow evaluates image row y. Rows touch disjoint pixels so rows may render concurrently.
func renderRow(frag gleval.Fragment, dst *image.RGBA, y int, env glblocks.Env) error {
	bounds := dst.Bounds()
	width := bounds.Dx()
	uv := make([]ms2.Vec, width)
	colors := make([]glblocks.Vec4, width)
	v := 1 - (float32(y)+0.5)/env.Resolution.Y
	for x := range uv {
		uv[x] = ms2.Vec{X: (float32(x) + 0.5) / env.Resolution.X, Y: v}
	}
	err := frag.Evaluate(uv, env, colors)
	if err != nil {
		return err
	}
	for x, c := range colors {
		dst.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, ToRGBA(c))
	}
	return nil
}

// ToRGBA converts a linear [0,1] color to 8 bit RGBA, clamping out of range components.
func ToRGBA(c glblocks.Vec4) color.RGBA {
	return color.RGBA{
		R: unorm8(c[0]),
		G: unorm8(c[1]),
		B: unorm8(c[2]),
		A: unorm8(c[3]),
	}
}

func unorm8(f float32) uint8 {
	switch {
	case !(f > 0): // Also catches NaN.
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}
