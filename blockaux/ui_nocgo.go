//go:build tinygo || !cgo

package blockaux

import (
	"errors"

	"github.com/soypat/glblocks"
	"github.com/soypat/glblocks/graph"
)

func ui(instances []graph.Instance, catalog glblocks.Catalog, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
