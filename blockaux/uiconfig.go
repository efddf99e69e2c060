package blockaux

import (
	"context"
	"errors"

	"github.com/soypat/glblocks"
	"github.com/soypat/glblocks/graph"
)

// UIConfig configures the preview window opened by [UI].
type UIConfig struct {
	Width, Height int
	Title         string
	// FPS limits the frame rate. Defaults to 60.
	FPS int
	// Output names the instance to display. Defaults to the last in topological order.
	Output string
	// Context closes the window when done. May be nil.
	Context context.Context
}

// UI opens a window running the program generated from instances with live iTime
// and iResolution uniforms. It blocks until the window is closed with Escape or Q,
// Space pauses time. Requires cgo.
func UI(instances []graph.Instance, catalog glblocks.Catalog, cfg UIConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("window dimensions must be positive")
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	if cfg.Title == "" {
		cfg.Title = "glblocks preview"
	}
	return ui(instances, catalog, cfg)
}
